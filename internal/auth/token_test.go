package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/models"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	user := &models.User{Role: models.RoleCashier}
	user.ID = 42

	token, err := issuer.Issue(user, "sess-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, string(models.RoleCashier), claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	user := &models.User{Role: models.RoleWaiter}
	user.ID = 1

	token, err := issuer.Issue(user, "sess-1")
	require.NoError(t, err)

	other := NewTokenIssuer("secret-b", time.Hour)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	user := &models.User{Role: models.RoleWaiter}
	user.ID = 1

	token, err := issuer.Issue(user, "sess-1")
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	_, err := issuer.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
