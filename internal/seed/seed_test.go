package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maitred/internal/models"
	"maitred/internal/pos"
	"maitred/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunPopulatesEmptyCollections(t *testing.T) {
	s := newTestStore(t)

	res, err := Run(s, "http://localhost:8080")
	require.NoError(t, err)

	assert.Equal(t, len(starterMenu), res.MenuItems)
	assert.Equal(t, len(starterStock), res.StockItems)
	assert.Equal(t, len(starterTables), res.Tables)
	assert.Equal(t, len(demoUsers), res.Users)

	var tables []models.Table
	require.NoError(t, s.DB.Find(&tables).Error)
	for _, table := range tables {
		assert.NotEmpty(t, table.QRValue, "table %s", table.Name)
	}
}

func TestRunIsIdempotentForData(t *testing.T) {
	s := newTestStore(t)

	_, err := Run(s, "http://localhost:8080")
	require.NoError(t, err)

	res, err := Run(s, "http://localhost:8080")
	require.NoError(t, err)

	assert.Zero(t, res.MenuItems)
	assert.Zero(t, res.StockItems)
	assert.Zero(t, res.Tables)
	// demo users are refreshed on every run
	assert.Equal(t, len(demoUsers), res.Users)

	var n int
	require.NoError(t, s.DB.Model(&models.MenuItem{}).Count(&n).Error)
	assert.Equal(t, len(starterMenu), n)
	require.NoError(t, s.DB.Model(&models.User{}).Count(&n).Error)
	assert.Equal(t, len(demoUsers), n)
}

func TestRunSkipsPartiallySeededCollections(t *testing.T) {
	s := newTestStore(t)
	menu := pos.NewMenuService(s)

	_, err := menu.Save(0, pos.MenuItemInput{
		Name:       "House Special",
		PriceCents: 1599,
		Category:   models.CategoryBurgers,
	})
	require.NoError(t, err)

	res, err := Run(s, "http://localhost:8080")
	require.NoError(t, err)
	assert.Zero(t, res.MenuItems, "a non-empty menu is left alone")
	assert.Equal(t, len(starterStock), res.StockItems)
}

func TestRunRefreshesDemoUserCredentials(t *testing.T) {
	s := newTestStore(t)
	staff := pos.NewStaffService(s)

	_, err := Run(s, "http://localhost:8080")
	require.NoError(t, err)

	user, err := staff.Authenticate("manager@maitred.local", "manager-demo")
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, user.Role)
}
