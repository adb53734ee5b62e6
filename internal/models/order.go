package models

import (
	"time"

	"github.com/jinzhu/gorm"
)

// Order represents a placed customer order. Line items are snapshots taken
// at creation time and never change afterwards, even if the menu item they
// were copied from is edited or deleted. Orders are a historical record and
// are never deleted.
type Order struct {
	gorm.Model
	Number          string      `json:"number"`
	CustomerName    string      `json:"customerName"`
	Items           []OrderItem `json:"items" gorm:"foreignkey:OrderID"`
	Status          OrderStatus `json:"status"`
	TotalCents      int         `json:"totalCents"`
	PlacedAt        time.Time   `json:"placedAt"`
	TimeLabel       string      `json:"timeLabel"`
	CookingAt       *time.Time  `json:"cookingAt,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	Type            OrderType   `json:"type,omitempty"`
	DeliveryAddress string      `json:"deliveryAddress,omitempty"`
	Phone           string      `json:"phone,omitempty"`
	TableID         *uint       `json:"tableId,omitempty"`
}

// OrderItem is one line of an order. Name and unit price are copied from
// the menu at creation, not referenced.
type OrderItem struct {
	gorm.Model
	OrderID        uint   `json:"-"`
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unitPriceCents"`
}

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusWaiting OrderStatus = "Waiting"
	OrderStatusCooking OrderStatus = "Cooking"
	OrderStatusDone    OrderStatus = "Done"
)

// OrderType distinguishes off-premise orders
type OrderType string

const (
	OrderTypePickup   OrderType = "Pickup"
	OrderTypeDelivery OrderType = "Delivery"
)

// validNext encodes the one-way lifecycle Waiting → Cooking → Done.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusWaiting: {OrderStatusCooking: true},
	OrderStatusCooking: {OrderStatusDone: true},
	OrderStatusDone:    {},
}

// CanTransition reports whether an order may move between two statuses.
// There is no regression, no cancellation and no failure state.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}
