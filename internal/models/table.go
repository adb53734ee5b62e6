package models

import "github.com/jinzhu/gorm"

// Table represents a physical seating unit. It links to at most one active
// order; the link and the status are updated together inside one
// transaction. QRValue is the URL encoded into the table's QR code
// (rendering happens client-side).
type Table struct {
	gorm.Model
	Name    string      `json:"name"`
	Shape   TableShape  `json:"shape"`
	Status  TableStatus `json:"status"`
	Guests  int         `json:"guests"`
	OrderID *uint       `json:"orderId,omitempty"`
	QRValue string      `json:"qrValue"`
}

// TableShape is presentation only
type TableShape string

const (
	TableShapeSquare TableShape = "square"
	TableShapeCircle TableShape = "circle"
)

// TableStatus represents the occupancy state of a table
type TableStatus string

const (
	TableStatusEmpty     TableStatus = "Empty"
	TableStatusSeated    TableStatus = "Seated"
	TableStatusEating    TableStatus = "Eating"
	TableStatusNeedsBill TableStatus = "Needs Bill"
)

// ValidTableStatus reports whether s is a known occupancy state.
func ValidTableStatus(s TableStatus) bool {
	switch s {
	case TableStatusEmpty, TableStatusSeated, TableStatusEating, TableStatusNeedsBill:
		return true
	}
	return false
}
