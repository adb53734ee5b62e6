package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"maitred/internal/models"
)

const (
	ctxUserID    = "auth.userID"
	ctxRole      = "auth.role"
	ctxSessionID = "auth.sessionID"
)

// Middleware authenticates requests with a bearer token and hangs the
// resolved identity on the gin context.
func Middleware(issuer *TokenIssuer, sessions SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		ok, err := sessions.Valid(c.Request.Context(), claims.SessionID)
		if err != nil || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, models.Role(claims.Role))
		c.Set(ctxSessionID, claims.SessionID)
		c.Next()
	}
}

// Require gates a handler behind one permission from the authorization
// table.
func Require(p Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Allowed(CurrentRole(c), p) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's record id.
func CurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ctxUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentRole returns the authenticated user's role.
func CurrentRole(c *gin.Context) models.Role {
	if v, ok := c.Get(ctxRole); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return ""
}

// CurrentSessionID returns the session id bound to the request's token.
func CurrentSessionID(c *gin.Context) string {
	if v, ok := c.Get(ctxSessionID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
