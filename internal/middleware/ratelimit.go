package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/talentbridge/backend/internal/ratelimit"
	"github.com/talentbridge/backend/pkg/response"
)

// RateLimit returns a middleware that admits requests through the
// fixed-window limiter, keyed per client. A denied request gets 429 with
// code RATE_LIMIT_EXCEEDED and no further processing.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := limiter.Admit(clientKey(c))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			retryAfter := int(time.Until(res.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.RateLimited(c, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// clientKey identifies the caller for rate limiting: the first
// X-Forwarded-For hop when present, otherwise the connection's remote
// address. Unidentified clients never share a bucket.
func clientKey(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		if first := strings.TrimSpace(strings.Split(forwarded, ",")[0]); first != "" {
			return first
		}
	}
	return c.Request.RemoteAddr
}
