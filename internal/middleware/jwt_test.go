package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentbridge/backend/internal/auth"
	"github.com/talentbridge/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var parsed response.Body
	require.NoError(t, json.Unmarshal(body, &parsed))
	require.NotNil(t, parsed.Error)
	assert.False(t, parsed.Success)
	return parsed.Error.Code
}

func newAuthRouter(svc *auth.JWTService) *gin.Engine {
	r := gin.New()
	r.GET("/protected", JWT(svc), func(c *gin.Context) {
		userID := c.MustGet(ContextUserID).(uuid.UUID)
		response.OK(c, gin.H{"user_id": userID})
	})
	return r
}

func TestJWTMissingHeader(t *testing.T) {
	r := newAuthRouter(auth.NewJWTService("test-secret", 24))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.CodeUnauthenticated, errorCode(t, w.Body.Bytes()))
}

func TestJWTMalformedHeader(t *testing.T) {
	r := newAuthRouter(auth.NewJWTService("test-secret", 24))

	for _, header := range []string{"Basic abc", "Bearer", "sometoken"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.Equal(t, response.CodeUnauthenticated, errorCode(t, w.Body.Bytes()))
	}
}

func TestJWTInvalidToken(t *testing.T) {
	r := newAuthRouter(auth.NewJWTService("test-secret", 24))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.CodeUnauthenticated, errorCode(t, w.Body.Bytes()))
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := auth.NewJWTService("other-secret", 24).Generate(uuid.New(), "user@example.com")
	require.NoError(t, err)

	r := newAuthRouter(auth.NewJWTService("test-secret", 24))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.CodeUnauthenticated, errorCode(t, w.Body.Bytes()))
}

func TestJWTExpiredToken(t *testing.T) {
	// A negative expiry mints a token that is already expired.
	expired := auth.NewJWTService("test-secret", -1)
	token, err := expired.Generate(uuid.New(), "user@example.com")
	require.NoError(t, err)

	r := newAuthRouter(auth.NewJWTService("test-secret", 24))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.CodeTokenExpired, errorCode(t, w.Body.Bytes()))
}

func TestJWTValidToken(t *testing.T) {
	svc := auth.NewJWTService("test-secret", 24)
	userID := uuid.New()
	token, err := svc.Generate(userID, "user@example.com")
	require.NoError(t, err)

	r := newAuthRouter(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var parsed response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	assert.True(t, parsed.Success)
	data := parsed.Data.(map[string]interface{})
	assert.Equal(t, userID.String(), data["user_id"])
}
