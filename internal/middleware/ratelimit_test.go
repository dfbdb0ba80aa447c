package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/talentbridge/backend/internal/ratelimit"
	"github.com/talentbridge/backend/pkg/response"
)

func newLimitedRouter(limit int) *gin.Engine {
	limiter := ratelimit.New(limit, time.Minute)
	r := gin.New()
	r.GET("/ping", RateLimit(limiter), func(c *gin.Context) {
		response.OK(c, gin.H{"pong": true})
	})
	return r
}

func doGet(r *gin.Engine, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitAllowsUpToLimit(t *testing.T) {
	r := newLimitedRouter(3)

	for i := 0; i < 3; i++ {
		w := doGet(r, "10.0.0.1:1234", "")
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, strconv.Itoa(2-i), w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimitDeniesOverLimit(t *testing.T) {
	r := newLimitedRouter(2)

	doGet(r, "10.0.0.1:1234", "")
	doGet(r, "10.0.0.1:1234", "")
	w := doGet(r, "10.0.0.1:1234", "")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, response.CodeRateLimited, errorCode(t, w.Body.Bytes()))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitKeysByForwardedFor(t *testing.T) {
	r := newLimitedRouter(1)

	// Same connection, distinct forwarded clients: separate budgets.
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1234", "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1234", "203.0.113.8").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "10.0.0.1:1234", "203.0.113.7").Code)
}

func TestRateLimitUsesFirstForwardedHop(t *testing.T) {
	r := newLimitedRouter(1)

	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1234", "203.0.113.7, 198.51.100.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "10.0.0.2:1234", "203.0.113.7").Code)
}

func TestRateLimitFallsBackToRemoteAddr(t *testing.T) {
	r := newLimitedRouter(1)

	// No forwarding header: each connection gets its own bucket.
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.1:1234", "").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "10.0.0.2:1234", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(r, "10.0.0.1:1234", "").Code)
}
