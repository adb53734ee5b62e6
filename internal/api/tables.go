package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maitred/internal/pos"
)

// ListTables returns all tables with their occupancy state.
func (s *Server) ListTables(c *gin.Context) {
	tables, err := s.tables.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tables)
}

// GetTable returns one table.
func (s *Server) GetTable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	table, err := s.tables.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	c.JSON(http.StatusOK, table)
}

// CreateTable adds a table and generates its QR value.
func (s *Server) CreateTable(c *gin.Context) {
	var req pos.TableInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table, err := s.tables.Create(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, table)
}

// UpdateTable edits a table's name, shape, occupancy and guest count.
func (s *Server) UpdateTable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req pos.TableInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	table, err := s.tables.Update(id, req)
	switch {
	case errors.Is(err, pos.ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, table)
	}
}

// MarkTablePaid settles the bill and resets the table.
func (s *Server) MarkTablePaid(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	table, err := s.tables.MarkPaid(id)
	switch {
	case errors.Is(err, pos.ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, table)
	}
}

// DeleteTable removes a table.
func (s *Server) DeleteTable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.tables.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table deleted"})
}
