package pages

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentbridge/backend/internal/middleware"
	"github.com/talentbridge/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter() *gin.Engine {
	h := NewHandler(nil, 30, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.New())
		c.Next()
	})
	r.GET("/pages", h.ListMyPages)
	r.GET("/pages/:id/members", h.ListMembers)
	r.POST("/pages/:id/members", h.AddMember)
	r.DELETE("/pages/:id/members/:userId", h.RemoveMember)
	return r
}

func assertInvalidInput(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var parsed response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	require.NotNil(t, parsed.Error)
	assert.Equal(t, response.CodeInvalidInput, parsed.Error.Code)
}

func TestListMyPagesRejectsBadPagination(t *testing.T) {
	r := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pages?page=0", nil)
	r.ServeHTTP(w, req)
	assertInvalidInput(t, w)
}

func TestMemberRoutesRejectBadIDs(t *testing.T) {
	r := newTestRouter()

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/pages/nope/members"},
		{http.MethodPost, "/pages/nope/members"},
		{http.MethodDelete, "/pages/nope/members/" + uuid.New().String()},
		{http.MethodDelete, "/pages/" + uuid.New().String() + "/members/nope"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, nil)
		r.ServeHTTP(w, req)
		assertInvalidInput(t, w)
	}
}
