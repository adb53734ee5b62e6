package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"maitred/internal/kitchen"
	"maitred/internal/models"
	"maitred/internal/pos"
)

type createOrderRequest struct {
	CustomerName    string           `json:"customerName" binding:"required"`
	Items           []pos.LineInput  `json:"items" binding:"required,min=1,dive"`
	PaymentMethod   string           `json:"paymentMethod"`
	Type            models.OrderType `json:"type"`
	DeliveryAddress string           `json:"deliveryAddress"`
	Phone           string           `json:"phone"`
	TableID         *uint            `json:"tableId"`
}

// CreateOrder places a new order from the POS screen or the online
// ordering page. When a table id is given the table is linked in the same
// transaction.
func (s *Server) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := s.orders.Create(pos.CreateOrderInput{
		CustomerName:    req.CustomerName,
		Items:           req.Items,
		PaymentMethod:   req.PaymentMethod,
		Type:            req.Type,
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
		TableID:         req.TableID,
	})
	switch {
	case errors.Is(err, pos.ErrNoItems):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, pos.ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, kitchen.NewView(*order, time.Now()))
	}
}

// ListOrders returns every order decorated with elapsed/overdue display
// fields.
func (s *Server) ListOrders(c *gin.Context) {
	orders, err := s.orders.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, kitchen.Views(orders, time.Now()))
}

// GetOrder returns one order with display fields.
func (s *Server) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := s.orders.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, kitchen.NewView(*order, time.Now()))
}

// StartCooking advances a Waiting order to Cooking.
func (s *Server) StartCooking(c *gin.Context) {
	s.advanceOrder(c, s.orders.StartCooking)
}

// MarkDone advances a Cooking order to Done.
func (s *Server) MarkDone(c *gin.Context) {
	s.advanceOrder(c, s.orders.MarkDone)
}

func (s *Server) advanceOrder(c *gin.Context, advance func(uint) (*models.Order, error)) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := advance(id)
	switch {
	case errors.Is(err, pos.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, pos.ErrBadTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, kitchen.NewView(*order, time.Now()))
	}
}
