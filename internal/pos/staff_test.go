package pos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/models"
)

func TestSignUpAssignsDefaultRole(t *testing.T) {
	s := newTestStore(t)
	staff := NewStaffService(s)

	user, err := staff.SignUp("anna@maitred.local", "Anna", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRole, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "hunter2hunter2", user.PasswordHash)

	_, err = staff.SignUp("anna@maitred.local", "Other Anna", "different-pass")
	assert.True(t, errors.Is(err, ErrEmailTaken))
}

func TestAuthenticateRequiresPassword(t *testing.T) {
	s := newTestStore(t)
	staff := NewStaffService(s)

	_, err := staff.SignUp("ben@maitred.local", "Ben", "correct horse")
	require.NoError(t, err)

	user, err := staff.Authenticate("ben@maitred.local", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "Ben", user.Name)

	_, err = staff.Authenticate("ben@maitred.local", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = staff.Authenticate("nobody@maitred.local", "correct horse")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestChangeRole(t *testing.T) {
	s := newTestStore(t)
	staff := NewStaffService(s)

	manager, err := staff.SignUp("mgr@maitred.local", "Manager", "password123")
	require.NoError(t, err)
	waiter, err := staff.SignUp("waiter@maitred.local", "Waiter", "password123")
	require.NoError(t, err)

	updated, err := staff.ChangeRole(manager.ID, waiter.ID, models.RoleCashier)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCashier, updated.Role)

	// only the role column moves
	fresh, err := staff.Get(waiter.ID)
	require.NoError(t, err)
	assert.Equal(t, "Waiter", fresh.Name)
	assert.Equal(t, "waiter@maitred.local", fresh.Email)
	assert.Equal(t, models.RoleCashier, fresh.Role)
}

func TestChangeRoleBlocksSelfAssignment(t *testing.T) {
	s := newTestStore(t)
	staff := NewStaffService(s)

	manager, err := staff.SignUp("solo@maitred.local", "Solo", "password123")
	require.NoError(t, err)

	_, err = staff.ChangeRole(manager.ID, manager.ID, models.RoleAdmin)
	assert.True(t, errors.Is(err, ErrSelfRoleChange))

	fresh, err := staff.Get(manager.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRole, fresh.Role, "self role change must not touch the record")
}

func TestChangeRoleRejectsUnknownRole(t *testing.T) {
	s := newTestStore(t)
	staff := NewStaffService(s)

	actor, err := staff.SignUp("a@maitred.local", "A", "password123")
	require.NoError(t, err)
	target, err := staff.SignUp("b@maitred.local", "B", "password123")
	require.NoError(t, err)

	_, err = staff.ChangeRole(actor.ID, target.ID, "janitor")
	assert.True(t, errors.Is(err, ErrBadRole))

	_, err = staff.ChangeRole(actor.ID, 999, models.RoleAdmin)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
