package pos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"maitred/internal/models"
	"maitred/internal/store"
)

var ErrTableNotFound = errors.New("table not found")

// TableService manages seating state and each table's single active order
// link.
type TableService struct {
	store   *store.Store
	baseURL string
}

// NewTableService creates the service. baseURL is the public address QR
// values point at.
func NewTableService(s *store.Store, baseURL string) *TableService {
	return &TableService{store: s, baseURL: baseURL}
}

// TableInput carries the editable table fields.
type TableInput struct {
	Name   string             `json:"name" binding:"required"`
	Shape  models.TableShape  `json:"shape"`
	Status models.TableStatus `json:"status"`
	Guests int                `json:"guests"`
}

// QRValue builds the URL encoded into a table's QR code: the public
// ordering page plus the table id and a fresh ordering-session identifier.
func QRValue(baseURL string, tableID uint) string {
	return fmt.Sprintf("%s/order?table=%d&session=%s", baseURL, tableID, uuid.NewString())
}

// Create adds a table and assigns its QR value.
func (s *TableService) Create(in TableInput) (*models.Table, error) {
	shape := in.Shape
	if shape == "" {
		shape = models.TableShapeSquare
	}
	table := &models.Table{
		Name:   in.Name,
		Shape:  shape,
		Status: models.TableStatusEmpty,
	}

	err := s.store.Write(func(tx *gorm.DB) error {
		if err := tx.Create(table).Error; err != nil {
			return err
		}
		// the QR value embeds the assigned id
		table.QRValue = QRValue(s.baseURL, table.ID)
		return tx.Model(table).Update("qr_value", table.QRValue).Error
	}, store.Tables)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// Update edits a table's name, shape, occupancy and guest count.
func (s *TableService) Update(tableID uint, in TableInput) (*models.Table, error) {
	var table models.Table
	if err := s.store.DB.First(&table, tableID).Error; err != nil {
		return nil, ErrTableNotFound
	}
	if in.Status != "" && !models.ValidTableStatus(in.Status) {
		return nil, fmt.Errorf("unknown table status %q", in.Status)
	}

	updates := map[string]interface{}{
		"name":   in.Name,
		"guests": in.Guests,
	}
	if in.Shape != "" {
		updates["shape"] = in.Shape
	}
	if in.Status != "" {
		updates["status"] = in.Status
	}

	err := s.store.Write(func(tx *gorm.DB) error {
		return tx.Model(&table).Updates(updates).Error
	}, store.Tables)
	if err != nil {
		return nil, err
	}
	return s.Get(tableID)
}

// MarkPaid settles a table's bill: guests to zero, status to Empty, order
// link cleared, all in one write. The linked order is untouched and stays
// Done as a historical record.
func (s *TableService) MarkPaid(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := s.store.DB.First(&table, tableID).Error; err != nil {
		return nil, ErrTableNotFound
	}

	err := s.store.Write(func(tx *gorm.DB) error {
		return tx.Model(&table).Updates(map[string]interface{}{
			"status":   models.TableStatusEmpty,
			"guests":   0,
			"order_id": nil,
		}).Error
	}, store.Tables)
	if err != nil {
		return nil, err
	}
	return s.Get(tableID)
}

// Delete removes a table.
func (s *TableService) Delete(tableID uint) error {
	var table models.Table
	if err := s.store.DB.First(&table, tableID).Error; err != nil {
		return ErrTableNotFound
	}
	return s.store.Write(func(tx *gorm.DB) error {
		return tx.Delete(&table).Error
	}, store.Tables)
}

// List returns all tables.
func (s *TableService) List() ([]models.Table, error) {
	var tables []models.Table
	if err := s.store.DB.Order("name asc").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

// Get returns one table.
func (s *TableService) Get(tableID uint) (*models.Table, error) {
	var table models.Table
	if err := s.store.DB.First(&table, tableID).Error; err != nil {
		return nil, ErrTableNotFound
	}
	return &table, nil
}
