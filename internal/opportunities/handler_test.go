package opportunities

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentbridge/backend/internal/middleware"
	"github.com/talentbridge/backend/internal/models"
	"github.com/talentbridge/backend/internal/notifications"
	"github.com/talentbridge/backend/pkg/pagination"
	"github.com/talentbridge/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStore struct {
	opportunity  *models.Opportunity
	applicant    *ApplicantDetail
	statusWrites []models.ApplicationStatus
	listCalls    int
}

func (s *stubStore) GetByID(_ context.Context, id uuid.UUID) (*models.Opportunity, error) {
	if s.opportunity != nil && s.opportunity.ID == id {
		return s.opportunity, nil
	}
	return nil, nil
}

func (s *stubStore) ListByPages(_ context.Context, _ []uuid.UUID, _ pagination.Params) ([]models.Opportunity, int, error) {
	s.listCalls++
	return nil, 0, nil
}

func (s *stubStore) GetApplicantByID(_ context.Context, id uuid.UUID) (*ApplicantDetail, error) {
	if s.applicant != nil && s.applicant.ID == id {
		return s.applicant, nil
	}
	return nil, nil
}

func (s *stubStore) UpdateApplicantStatus(_ context.Context, applicantID uuid.UUID, status models.ApplicationStatus) (bool, error) {
	if s.applicant == nil || s.applicant.ID != applicantID {
		return false, nil
	}
	s.statusWrites = append(s.statusWrites, status)
	return true, nil
}

func (s *stubStore) ListApplicants(_ context.Context, _ uuid.UUID, _ pagination.Params) ([]ApplicantDetail, int, error) {
	return nil, 0, nil
}

type stubOwnerships struct {
	owner  uuid.UUID
	pageID uuid.UUID
}

func (s *stubOwnerships) GetActiveOwnership(_ context.Context, pageID, userID uuid.UUID) (*models.PageOwnership, error) {
	if pageID == s.pageID && userID == s.owner {
		return &models.PageOwnership{ID: uuid.New(), PageID: pageID, UserID: userID, Role: models.PageRoleOwner, IsActive: true}, nil
	}
	return nil, nil
}

func (s *stubOwnerships) ListOwnedPageIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if userID == s.owner {
		return []uuid.UUID{s.pageID}, nil
	}
	return nil, nil
}

type stubNotifier struct {
	kinds  []notifications.Kind
	result bool
}

func (s *stubNotifier) Notify(_ context.Context, kind notifications.Kind, _ notifications.Recipient, _ notifications.Meta) bool {
	s.kinds = append(s.kinds, kind)
	return s.result
}

// fixture is an owner, a page, one opportunity on that page and one PENDING
// applicant.
type fixture struct {
	store       *stubStore
	notifier    *stubNotifier
	ownerID     uuid.UUID
	applicantID uuid.UUID
}

func newFixture() *fixture {
	f := &fixture{
		ownerID:     uuid.New(),
		applicantID: uuid.New(),
	}
	pageID := uuid.New()
	oppID := uuid.New()
	f.store = &stubStore{
		opportunity: &models.Opportunity{
			ID: oppID, PublishedBy: pageID, Title: "Backend Engineer",
			IsActive: true, RegEndDate: time.Now().Add(time.Hour),
		},
		applicant: &ApplicantDetail{
			OpportunityApplicant: models.OpportunityApplicant{
				ID:                f.applicantID,
				OpportunityID:     oppID,
				UserID:            uuid.New(),
				ApplicationStatus: models.ApplicationPending,
			},
			Email:    "applicant@example.com",
			FullName: "App Licant",
		},
	}
	f.notifier = &stubNotifier{result: true}
	return f
}

func (f *fixture) routerAs(userID uuid.UUID) *gin.Engine {
	h := NewHandler(f.store, &stubOwnerships{owner: f.ownerID, pageID: f.store.opportunity.PublishedBy}, f.notifier, 30, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Next()
	})
	r.GET("/opportunities", h.List)
	r.PUT("/opportunities/applicants/:applicantId/status", h.UpdateApplicantStatus)
	return r
}

func doPut(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var parsed response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	require.True(t, parsed.Success)
	data, ok := parsed.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestUpdateApplicantStatusReportsBeforeAfter(t *testing.T) {
	f := newFixture()
	r := f.routerAs(f.ownerID)

	w := doPut(r, "/opportunities/applicants/"+f.applicantID.String()+"/status",
		`{"status":"SHORTLISTED"}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "PENDING", data["from"])
	assert.Equal(t, "SHORTLISTED", data["to"])
	assert.Equal(t, true, data["emailSent"])
	require.Equal(t, []models.ApplicationStatus{models.ApplicationShortlisted}, f.store.statusWrites)
	assert.Equal(t, []notifications.Kind{notifications.KindShortlisted}, f.notifier.kinds)
}

func TestUpdateApplicantStatusRepeatIsIdempotent(t *testing.T) {
	f := newFixture()
	f.store.applicant.ApplicationStatus = models.ApplicationShortlisted
	r := f.routerAs(f.ownerID)

	w := doPut(r, "/opportunities/applicants/"+f.applicantID.String()+"/status",
		`{"status":"SHORTLISTED"}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "SHORTLISTED", data["from"])
	assert.Equal(t, "SHORTLISTED", data["to"], "re-setting the current value succeeds with from == to")
}

func TestUpdateApplicantStatusMaybeSendsNoEmail(t *testing.T) {
	f := newFixture()
	r := f.routerAs(f.ownerID)

	w := doPut(r, "/opportunities/applicants/"+f.applicantID.String()+"/status",
		`{"status":"MAYBE"}`)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, false, data["emailSent"])
	require.Equal(t, []models.ApplicationStatus{models.ApplicationMaybe}, f.store.statusWrites)
	assert.Empty(t, f.notifier.kinds)
}

func TestUpdateApplicantStatusRejectedNotifies(t *testing.T) {
	f := newFixture()
	r := f.routerAs(f.ownerID)

	w := doPut(r, "/opportunities/applicants/"+f.applicantID.String()+"/status",
		`{"status":"REJECTED"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []notifications.Kind{notifications.KindRejected}, f.notifier.kinds)
}

func TestUpdateApplicantStatusForbiddenForNonOwner(t *testing.T) {
	f := newFixture()
	r := f.routerAs(uuid.New())

	w := doPut(r, "/opportunities/applicants/"+f.applicantID.String()+"/status",
		`{"status":"SHORTLISTED"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, f.store.statusWrites)
	assert.Empty(t, f.notifier.kinds)
}

func TestUpdateApplicantStatusUnknownApplicantIs404(t *testing.T) {
	f := newFixture()
	r := f.routerAs(f.ownerID)

	w := doPut(r, "/opportunities/applicants/"+uuid.New().String()+"/status",
		`{"status":"SHORTLISTED"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, f.store.statusWrites)
}

func TestListZeroOwnedPagesSkipsQuery(t *testing.T) {
	f := newFixture()
	r := f.routerAs(uuid.New())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/opportunities", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Empty(t, data["opportunities"])
	meta := data["pagination"].(map[string]interface{})
	assert.Equal(t, float64(0), meta["total"])
	assert.Equal(t, false, meta["hasMore"])
	assert.Equal(t, 0, f.store.listCalls, "no query runs for an empty scope")
}

// Validation-only paths below run against nil repositories; they must fail
// before any repository access.

func newValidationRouter() *gin.Engine {
	h := NewHandler(nil, nil, nil, 30, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, uuid.New())
		c.Next()
	})
	r.GET("/opportunities", h.List)
	r.GET("/opportunities/:id/ownership", h.Ownership)
	r.GET("/opportunities/:id/applicants", h.ListApplicants)
	r.PUT("/opportunities/applicants/:applicantId/status", h.UpdateApplicantStatus)
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

func TestListRejectsBadPagination(t *testing.T) {
	r := newValidationRouter()

	for _, query := range []string{"page=0", "limit=0", "limit=101", "limit=-5"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/opportunities?"+query, nil)
		r.ServeHTTP(w, req)
		assertInvalidInput(t, w)
	}
}

func TestOwnershipRejectsBadID(t *testing.T) {
	r := newValidationRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/opportunities/nope/ownership", nil)
	r.ServeHTTP(w, req)
	assertInvalidInput(t, w)
}

func TestListApplicantsRejectsBadID(t *testing.T) {
	r := newValidationRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/opportunities/123/applicants", nil)
	r.ServeHTTP(w, req)
	assertInvalidInput(t, w)
}

func TestUpdateApplicantStatusRejectsBadID(t *testing.T) {
	r := newValidationRouter()

	w := doPut(r, "/opportunities/applicants/bad/status", `{"status":"SHORTLISTED"}`)
	assertInvalidInput(t, w)
}

func TestUpdateApplicantStatusRejectsUnknownStatus(t *testing.T) {
	r := newValidationRouter()
	path := "/opportunities/applicants/" + uuid.New().String() + "/status"

	for _, body := range []string{
		`{"status":"APPROVED"}`,
		`{"status":"shortlisted"}`,
		`{"status":""}`,
		`{}`,
	} {
		w := doPut(r, path, body)
		assertInvalidInput(t, w)
	}
}
