package store

import (
	"strings"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"maitred/internal/models"
)

// Collection names. Every record type lives in exactly one collection and
// every mutation names the collections it touched so live subscribers get a
// fresh snapshot.
const (
	Users           = "users"
	MenuItems       = "menuItems"
	MenuItemRecipes = "menuItemRecipes"
	StockItems      = "stockItems"
	Tables          = "tables"
	Orders          = "orders"
)

// Store owns the record store: the gorm-backed database plus the live query
// hub and the process-wide permission-error bus shared by all subscribers.
type Store struct {
	DB  *gorm.DB
	Hub *Hub
	Bus *ErrorBus
}

// Open connects to the database, migrates the schema and wires the live
// query hub to the error bus.
func Open(dialect, dsn string) (*Store, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, err
	}
	if dialect == "sqlite3" && strings.Contains(dsn, ":memory:") {
		// an in-memory sqlite database vanishes when its connection is
		// recycled, so pin the pool to a single connection
		db.DB().SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.MenuItemRecipe{},
		&models.StockItem{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
	).Error; err != nil {
		db.Close()
		return nil, err
	}

	bus := NewErrorBus()
	return &Store{DB: db, Hub: NewHub(bus), Bus: bus}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Write runs fn inside a transaction and, on success, invalidates the named
// collections so live subscribers receive replacement snapshots. Related
// records (order + table, menu item + recipe) always share one call.
func (s *Store) Write(fn func(tx *gorm.DB) error, collections ...string) error {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	for _, c := range collections {
		s.Hub.Invalidate(c)
	}
	return nil
}
