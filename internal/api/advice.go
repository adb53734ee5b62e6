package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maitred/internal/advice"
)

type adviceRequest struct {
	Section advice.Section `json:"section" binding:"required"`
}

// Advice returns language-model-generated advice for one of the four fixed
// sections. Unavailable when no model is configured.
func (s *Server) Advice(c *gin.Context) {
	if s.advisor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advice is not configured"})
		return
	}

	var req adviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	text, err := s.advisor.Advise(c.Request.Context(), req.Section)
	switch {
	case errors.Is(err, advice.ErrUnknownSection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"section": req.Section, "advice": text})
	}
}
