package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maitred/internal/pos"
)

// ListStock returns all stock items.
func (s *Server) ListStock(c *gin.Context) {
	items, err := s.stock.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateStockItem adds an ingredient.
func (s *Server) CreateStockItem(c *gin.Context) {
	s.saveStockItem(c, 0)
}

// UpdateStockItem edits an ingredient; the level is clamped server-side.
func (s *Server) UpdateStockItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.saveStockItem(c, id)
}

func (s *Server) saveStockItem(c *gin.Context, id uint) {
	var req pos.StockItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := s.stock.Save(id, req)
	switch {
	case errors.Is(err, pos.ErrStockItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case id == 0:
		c.JSON(http.StatusCreated, item)
	default:
		c.JSON(http.StatusOK, item)
	}
}

// DeleteStockItem removes an ingredient.
func (s *Server) DeleteStockItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.stock.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock item deleted"})
}
