package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maitred/internal/seed"
)

// Seed populates empty collections with starter data and upserts the demo
// users. Safe to call repeatedly: populated collections are left alone,
// user documents always reflect the latest seed values.
func (s *Server) Seed(c *gin.Context) {
	result, err := seed.Run(s.store, s.baseURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "seeded": result})
}
