package pos

import (
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/gorm"

	"maitred/internal/models"
	"maitred/internal/monitoring"
	"maitred/internal/store"
)

var (
	ErrNoItems       = errors.New("order has no items")
	ErrOrderNotFound = errors.New("order not found")
	ErrBadTransition = errors.New("invalid status transition")
)

// OrderService owns order creation and the status lifecycle.
type OrderService struct {
	store *store.Store
}

// NewOrderService creates the service on top of the record store.
func NewOrderService(s *store.Store) *OrderService {
	return &OrderService{store: s}
}

// LineInput is one requested line at checkout.
type LineInput struct {
	Name           string `json:"name" binding:"required"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unitPriceCents"`
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	CustomerName    string
	Items           []LineInput
	PaymentMethod   string
	Type            models.OrderType
	DeliveryAddress string
	Phone           string
	TableID         *uint
}

// Create places a new order. Zero-quantity lines are dropped entirely and
// item name/price are captured as immutable snapshots. When a table is
// given, the order insert and the table update share one transaction.
func (s *OrderService) Create(in CreateOrderInput) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(in.Items))
	total := 0
	for _, li := range in.Items {
		if li.Quantity <= 0 {
			continue
		}
		items = append(items, models.OrderItem{
			Name:           li.Name,
			Quantity:       li.Quantity,
			UnitPriceCents: li.UnitPriceCents,
		})
		total += li.Quantity * li.UnitPriceCents
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	now := time.Now()
	order := &models.Order{
		CustomerName:    in.CustomerName,
		Items:           items,
		Status:          models.OrderStatusWaiting,
		TotalCents:      total,
		PlacedAt:        now,
		TimeLabel:       now.Format("3:04 PM"),
		PaymentMethod:   in.PaymentMethod,
		Type:            in.Type,
		DeliveryAddress: in.DeliveryAddress,
		Phone:           in.Phone,
		TableID:         in.TableID,
	}

	collections := []string{store.Orders}
	if in.TableID != nil {
		collections = append(collections, store.Tables)
	}

	err := s.store.Write(func(tx *gorm.DB) error {
		var count int
		if err := tx.Model(&models.Order{}).Count(&count).Error; err != nil {
			return err
		}
		order.Number = fmt.Sprintf("K-%04d", count+1)

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if in.TableID != nil {
			var table models.Table
			if err := tx.First(&table, *in.TableID).Error; err != nil {
				return ErrTableNotFound
			}
			return tx.Model(&table).Updates(map[string]interface{}{
				"status":   models.TableStatusEating,
				"order_id": order.ID,
			}).Error
		}
		return nil
	}, collections...)
	if err != nil {
		return nil, err
	}

	monitoring.OrdersCreated.Inc()
	return order, nil
}

// StartCooking advances a Waiting order to Cooking and stamps the cooking
// start time used by the overdue display.
func (s *OrderService) StartCooking(orderID uint) (*models.Order, error) {
	return s.advance(orderID, models.OrderStatusCooking)
}

// MarkDone advances a Cooking order to Done.
func (s *OrderService) MarkDone(orderID uint) (*models.Order, error) {
	return s.advance(orderID, models.OrderStatusDone)
}

func (s *OrderService) advance(orderID uint, to models.OrderStatus) (*models.Order, error) {
	var order models.Order
	if err := s.store.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, ErrOrderNotFound
	}

	from := order.Status
	if !models.CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, from, to)
	}

	updates := map[string]interface{}{"status": to}
	if to == models.OrderStatusCooking {
		now := time.Now()
		updates["cooking_at"] = now
		order.CookingAt = &now
	}

	err := s.store.Write(func(tx *gorm.DB) error {
		return tx.Model(&order).Updates(updates).Error
	}, store.Orders)
	if err != nil {
		return nil, err
	}

	order.Status = to
	monitoring.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
	return &order, nil
}

// List returns all orders, oldest first, with their line items.
func (s *OrderService) List() ([]models.Order, error) {
	var orders []models.Order
	if err := s.store.DB.Preload("Items").Order("placed_at asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Active returns orders that have not reached Done.
func (s *OrderService) Active() ([]models.Order, error) {
	var orders []models.Order
	err := s.store.DB.Preload("Items").
		Where("status <> ?", models.OrderStatusDone).
		Order("placed_at asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// Get returns one order with its line items.
func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.store.DB.Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, ErrOrderNotFound
	}
	return &order, nil
}
