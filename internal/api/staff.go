package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maitred/internal/auth"
	"maitred/internal/models"
	"maitred/internal/pos"
)

// ListStaff returns all user accounts.
func (s *Server) ListStaff(c *gin.Context) {
	users, err := s.staff.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

type changeRoleRequest struct {
	Role models.Role `json:"role" binding:"required"`
}

// ChangeRole assigns a role to another user. A user can never change their
// own role; that request is rejected before any write happens.
func (s *Server) ChangeRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.staff.ChangeRole(auth.CurrentUserID(c), id, req.Role)
	switch {
	case errors.Is(err, pos.ErrSelfRoleChange):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, pos.ErrBadRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, pos.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, user)
	}
}
