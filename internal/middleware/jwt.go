package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/talentbridge/backend/internal/auth"
	"github.com/talentbridge/backend/pkg/response"
)

const (
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserEmail is the key for user email in gin context.
	ContextUserEmail = "user_email"
)

// JWT returns a middleware that verifies the bearer session token and sets
// the request identity in context. Time-expired tokens are reported with a
// distinct code so clients can re-authenticate rather than retry.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		identity, err := jwtService.Verify(parts[1])
		if err != nil {
			if err == auth.ErrTokenExpired {
				response.TokenExpired(c, "session token expired")
			} else {
				response.Unauthorized(c, "invalid token")
			}
			c.Abort()
			return
		}
		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextUserEmail, identity.Email)
		c.Next()
	}
}
