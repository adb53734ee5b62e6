package pos

import (
	"errors"

	"github.com/jinzhu/gorm"

	"maitred/internal/models"
	"maitred/internal/store"
)

var ErrStockItemNotFound = errors.New("stock item not found")

// StockService manages ingredient stock levels. Levels only move through
// direct staff edits; nothing decrements them when orders are fulfilled.
type StockService struct {
	store *store.Store
}

// NewStockService creates the service on top of the record store.
func NewStockService(s *store.Store) *StockService {
	return &StockService{store: s}
}

// StockItemInput carries the editable stock fields.
type StockItemInput struct {
	Name         string `json:"name" binding:"required"`
	Level        int    `json:"level"`
	ThresholdPct int    `json:"thresholdPct"`
	Unit         string `json:"unit"`
}

// Save creates (id zero) or updates a stock item, clamping the level to the
// valid percentage range.
func (s *StockService) Save(id uint, in StockItemInput) (*models.StockItem, error) {
	var item models.StockItem
	if id != 0 {
		if err := s.store.DB.First(&item, id).Error; err != nil {
			return nil, ErrStockItemNotFound
		}
	}
	item.Name = in.Name
	item.Level = models.ClampLevel(in.Level)
	item.ThresholdPct = in.ThresholdPct
	item.Unit = in.Unit

	err := s.store.Write(func(tx *gorm.DB) error {
		return tx.Save(&item).Error
	}, store.StockItems)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a stock item. Recipes referencing it keep their entries;
// the reference simply dangles (consumption is advisory only).
func (s *StockService) Delete(id uint) error {
	var item models.StockItem
	if err := s.store.DB.First(&item, id).Error; err != nil {
		return ErrStockItemNotFound
	}
	return s.store.Write(func(tx *gorm.DB) error {
		return tx.Delete(&item).Error
	}, store.StockItems)
}

// List returns all stock items.
func (s *StockService) List() ([]models.StockItem, error) {
	var items []models.StockItem
	if err := s.store.DB.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Low returns the items at or below their low-stock threshold.
func (s *StockService) Low() ([]models.StockItem, error) {
	items, err := s.List()
	if err != nil {
		return nil, err
	}
	low := items[:0]
	for _, it := range items {
		if it.Low() {
			low = append(low, it)
		}
	}
	return low, nil
}
