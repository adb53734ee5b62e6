package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maitred/internal/pos"
)

// ListMenu returns the menu. Recipe data is never included here; it lives
// behind the separate recipe endpoint.
func (s *Server) ListMenu(c *gin.Context) {
	items, err := s.menu.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetMenuItem returns one item without recipe data.
func (s *Server) GetMenuItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	item, err := s.menu.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateMenuItem adds a dish, optionally with its recipe record.
func (s *Server) CreateMenuItem(c *gin.Context) {
	s.saveMenuItem(c, 0)
}

// UpdateMenuItem edits a dish and keeps its recipe record in step.
func (s *Server) UpdateMenuItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	s.saveMenuItem(c, id)
}

func (s *Server) saveMenuItem(c *gin.Context, id uint) {
	var req pos.MenuItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := s.menu.Save(id, req)
	switch {
	case errors.Is(err, pos.ErrMenuItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
	case errors.Is(err, pos.ErrBadCategory):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	case id == 0:
		c.JSON(http.StatusCreated, item)
	default:
		c.JSON(http.StatusOK, item)
	}
}

// DeleteMenuItem removes a dish and its recipe record, if any.
func (s *Server) DeleteMenuItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.menu.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}

// GetRecipe returns the ingredient mapping for one dish. Empty when the
// item has no recipe record.
func (s *Server) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entries, err := s.menu.Recipe(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"menuItemId": id, "entries": entries})
}
