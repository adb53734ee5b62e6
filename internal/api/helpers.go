package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses the numeric :id path parameter, writing a 400 itself when
// the value is malformed.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
