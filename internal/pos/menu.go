package pos

import (
	"errors"

	"github.com/jinzhu/gorm"

	"maitred/internal/models"
	"maitred/internal/store"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrBadCategory      = errors.New("unknown menu category")
)

// MenuService manages menu items and their private recipe records.
type MenuService struct {
	store *store.Store
}

// NewMenuService creates the service on top of the record store.
func NewMenuService(s *store.Store) *MenuService {
	return &MenuService{store: s}
}

// MenuItemInput carries the editable item fields plus the optional recipe.
type MenuItemInput struct {
	Name       string               `json:"name" binding:"required"`
	PriceCents int                  `json:"priceCents"`
	Image      string               `json:"image"`
	Category   models.MenuCategory  `json:"category" binding:"required"`
	Available  bool                 `json:"available"`
	Recipe     []models.RecipeEntry `json:"recipe,omitempty"`
}

// Save creates (id zero) or updates a menu item, keeping the recipe record
// in step inside the same transaction: a non-empty recipe is upserted, an
// empty one deletes any existing record so no dangling recipe survives.
func (s *MenuService) Save(id uint, in MenuItemInput) (*models.MenuItem, error) {
	if !models.ValidCategory(in.Category) {
		return nil, ErrBadCategory
	}

	var item models.MenuItem
	if id != 0 {
		if err := s.store.DB.First(&item, id).Error; err != nil {
			return nil, ErrMenuItemNotFound
		}
	}
	item.Name = in.Name
	item.PriceCents = in.PriceCents
	item.Image = in.Image
	item.Category = in.Category
	item.Available = in.Available

	err := s.store.Write(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return syncRecipe(tx, item.ID, in.Recipe)
	}, store.MenuItems, store.MenuItemRecipes)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// syncRecipe upserts or removes the separate recipe record for one item.
func syncRecipe(tx *gorm.DB, itemID uint, entries []models.RecipeEntry) error {
	var rec models.MenuItemRecipe
	found := tx.Where("menu_item_id = ?", itemID).First(&rec).Error == nil

	if len(entries) == 0 {
		if found {
			return tx.Delete(&rec).Error
		}
		return nil
	}

	rec.MenuItemID = itemID
	if err := rec.SetEntries(entries); err != nil {
		return err
	}
	return tx.Save(&rec).Error
}

// Delete removes an item and its recipe record. A missing recipe record is
// not an error.
func (s *MenuService) Delete(id uint) error {
	var item models.MenuItem
	if err := s.store.DB.First(&item, id).Error; err != nil {
		return ErrMenuItemNotFound
	}

	return s.store.Write(func(tx *gorm.DB) error {
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		// no recipe record is fine; nothing to surface
		return tx.Where("menu_item_id = ?", id).Delete(&models.MenuItemRecipe{}).Error
	}, store.MenuItems, store.MenuItemRecipes)
}

// List returns the menu without recipe data.
func (s *MenuService) List() ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.store.DB.Order("category asc, name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns one item without recipe data.
func (s *MenuService) Get(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.store.DB.First(&item, id).Error; err != nil {
		return nil, ErrMenuItemNotFound
	}
	return &item, nil
}

// Recipe returns the separate recipe record for one item, or nil entries
// when none exists.
func (s *MenuService) Recipe(itemID uint) ([]models.RecipeEntry, error) {
	var rec models.MenuItemRecipe
	if err := s.store.DB.Where("menu_item_id = ?", itemID).First(&rec).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, nil
		}
		return nil, err
	}
	return rec.Entries()
}
