package opportunities

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentbridge/backend/internal/middleware"
	"github.com/talentbridge/backend/internal/models"
	"github.com/talentbridge/backend/internal/notifications"
	"github.com/talentbridge/backend/pkg/pagination"
	"github.com/talentbridge/backend/pkg/response"
)

// store is the opportunity persistence surface the handler needs.
type store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
	ListByPages(ctx context.Context, pageIDs []uuid.UUID, params pagination.Params) ([]models.Opportunity, int, error)
	GetApplicantByID(ctx context.Context, id uuid.UUID) (*ApplicantDetail, error)
	UpdateApplicantStatus(ctx context.Context, applicantID uuid.UUID, status models.ApplicationStatus) (bool, error)
	ListApplicants(ctx context.Context, opportunityID uuid.UUID, params pagination.Params) ([]ApplicantDetail, int, error)
}

// ownerships resolves the caller's page access.
type ownerships interface {
	GetActiveOwnership(ctx context.Context, pageID, userID uuid.UUID) (*models.PageOwnership, error)
	ListOwnedPageIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type emailLogs interface {
	ListByOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]*models.EmailLog, error)
}

// Handler handles opportunity HTTP endpoints.
type Handler struct {
	repo            store
	pageRepo        ownerships
	notifier        notifications.Dispatcher
	logger          *zap.Logger
	listCacheMaxAge int
}

// NewHandler creates an opportunities handler.
func NewHandler(repo store, pageRepo ownerships, notifier notifications.Dispatcher, listCacheMaxAge int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		repo:            repo,
		pageRepo:        pageRepo,
		notifier:        notifier,
		logger:          logger,
		listCacheMaxAge: listCacheMaxAge,
	}
}

type opportunityItem struct {
	models.Opportunity
	Status models.DerivedStatus `json:"status"`
}

// List handles GET /opportunities?pageId&page&limit. The result is scoped
// to the caller's active page ownerships; a pageId filter narrows within
// that scope. A caller owning no pages gets an empty result without a query.
func (h *Handler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		response.BadRequest(c, "page must be >= 1 and limit in [1, 100]")
		return
	}
	scope, ok := h.tenantScope(c, userID)
	if !ok {
		return
	}
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", h.listCacheMaxAge))
	if len(scope) == 0 {
		response.OK(c, gin.H{"opportunities": []opportunityItem{}, "pagination": params.NewMeta(0)})
		return
	}
	list, total, err := h.repo.ListByPages(c.Request.Context(), scope, params)
	if err != nil {
		h.logger.Error("list opportunities failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to load opportunities")
		return
	}
	now := time.Now()
	items := make([]opportunityItem, 0, len(list))
	for i := range list {
		items = append(items, opportunityItem{Opportunity: list[i], Status: list[i].Status(now)})
	}
	response.OK(c, gin.H{"opportunities": items, "pagination": params.NewMeta(total)})
}

// Ownership handles GET /opportunities/:id/ownership. Reports whether the
// caller controls the publishing page. Denial is a boolean, not an error.
func (h *Handler) Ownership(c *gin.Context) {
	opportunityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid opportunity id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	opp, err := h.repo.GetByID(c.Request.Context(), opportunityID)
	if err != nil {
		h.logger.Error("get opportunity failed", zap.Error(err), zap.String("opportunity_id", opportunityID.String()))
		response.Internal(c, "failed to load opportunity")
		return
	}
	if opp == nil {
		response.NotFound(c, "opportunity not found")
		return
	}
	ownership, err := h.pageRepo.GetActiveOwnership(c.Request.Context(), opp.PublishedBy, userID)
	if err != nil {
		h.logger.Error("ownership lookup failed", zap.Error(err), zap.String("opportunity_id", opportunityID.String()))
		response.Internal(c, "failed to check ownership")
		return
	}
	if ownership == nil {
		response.OK(c, gin.H{"is_owner": false})
		return
	}
	response.OK(c, gin.H{"is_owner": true, "ownership": ownership})
}

// ListApplicants handles GET /opportunities/:id/applicants. Page owners only.
func (h *Handler) ListApplicants(c *gin.Context) {
	opportunityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid opportunity id")
		return
	}
	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		response.BadRequest(c, "page must be >= 1 and limit in [1, 100]")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	opp, err := h.repo.GetByID(c.Request.Context(), opportunityID)
	if err != nil {
		h.logger.Error("get opportunity failed", zap.Error(err), zap.String("opportunity_id", opportunityID.String()))
		response.Internal(c, "failed to load opportunity")
		return
	}
	if opp == nil {
		response.NotFound(c, "opportunity not found")
		return
	}
	ownership, err := h.pageRepo.GetActiveOwnership(c.Request.Context(), opp.PublishedBy, userID)
	if err != nil {
		h.logger.Error("ownership lookup failed", zap.Error(err), zap.String("opportunity_id", opportunityID.String()))
		response.Internal(c, "failed to check ownership")
		return
	}
	if ownership == nil {
		response.Forbidden(c, "not authorized for this opportunity")
		return
	}
	list, total, err := h.repo.ListApplicants(c.Request.Context(), opportunityID, params)
	if err != nil {
		h.logger.Error("list applicants failed", zap.Error(err), zap.String("opportunity_id", opportunityID.String()))
		response.Internal(c, "failed to load applicants")
		return
	}
	if list == nil {
		list = []ApplicantDetail{}
	}
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", h.listCacheMaxAge))
	response.OK(c, gin.H{"applicants": list, "pagination": params.NewMeta(total)})
}

// UpdateApplicantStatusRequest is the body for
// PUT /opportunities/applicants/:applicantId/status.
type UpdateApplicantStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateApplicantStatus handles PUT /opportunities/applicants/:applicantId/status.
// Any valid status may be set regardless of the current one; setting the
// current value again succeeds and reports from == to. Transitions to
// SHORTLISTED or REJECTED dispatch a best-effort notification after the
// update commits.
func (h *Handler) UpdateApplicantStatus(c *gin.Context) {
	applicantID, err := uuid.Parse(c.Param("applicantId"))
	if err != nil {
		response.BadRequest(c, "invalid applicant id")
		return
	}
	var body UpdateApplicantStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "status required")
		return
	}
	status := models.ApplicationStatus(body.Status)
	if !status.Valid() {
		response.BadRequest(c, "invalid status")
		return
	}

	applicant, err := h.repo.GetApplicantByID(c.Request.Context(), applicantID)
	if err != nil {
		h.logger.Error("get applicant failed", zap.Error(err), zap.String("applicant_id", applicantID.String()))
		response.Internal(c, "failed to load applicant")
		return
	}
	if applicant == nil {
		response.NotFound(c, "applicant not found")
		return
	}
	opp, err := h.repo.GetByID(c.Request.Context(), applicant.OpportunityID)
	if err != nil {
		h.logger.Error("get opportunity failed", zap.Error(err), zap.String("opportunity_id", applicant.OpportunityID.String()))
		response.Internal(c, "failed to load opportunity")
		return
	}
	if opp == nil {
		response.NotFound(c, "opportunity not found")
		return
	}
	ownership, err := h.pageRepo.GetActiveOwnership(c.Request.Context(), opp.PublishedBy, userIDFrom(c))
	if err != nil {
		h.logger.Error("ownership lookup failed", zap.Error(err), zap.String("opportunity_id", opp.ID.String()))
		response.Internal(c, "failed to check ownership")
		return
	}
	if ownership == nil {
		response.Forbidden(c, "not authorized for this opportunity")
		return
	}

	updated, err := h.repo.UpdateApplicantStatus(c.Request.Context(), applicantID, status)
	if err != nil {
		h.logger.Error("update applicant status failed", zap.Error(err), zap.String("applicant_id", applicantID.String()))
		response.Internal(c, "failed to update status")
		return
	}
	if !updated {
		response.NotFound(c, "applicant not found")
		return
	}

	emailSent := false
	switch status {
	case models.ApplicationShortlisted:
		emailSent = h.notifier.Notify(c.Request.Context(), notifications.KindShortlisted,
			notifications.Recipient{Email: applicant.Email, FullName: applicant.FullName},
			notifications.Meta{OpportunityID: &opp.ID, Title: opp.Title})
	case models.ApplicationRejected:
		emailSent = h.notifier.Notify(c.Request.Context(), notifications.KindRejected,
			notifications.Recipient{Email: applicant.Email, FullName: applicant.FullName},
			notifications.Meta{OpportunityID: &opp.ID, Title: opp.Title})
	}

	response.OK(c, gin.H{
		"applicant_id": applicantID,
		"from":         applicant.ApplicationStatus,
		"to":           status,
		"emailSent":    emailSent,
	})
}

// ListEmails handles GET /opportunities/:id/emails for page owners, using
// the notifications audit log.
func (h *Handler) ListEmails(logRepo emailLogs) gin.HandlerFunc {
	return func(c *gin.Context) {
		opportunityID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid opportunity id")
			return
		}
		userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
		opp, err := h.repo.GetByID(c.Request.Context(), opportunityID)
		if err != nil {
			response.Internal(c, "failed to load opportunity")
			return
		}
		if opp == nil {
			response.NotFound(c, "opportunity not found")
			return
		}
		ownership, err := h.pageRepo.GetActiveOwnership(c.Request.Context(), opp.PublishedBy, userID)
		if err != nil {
			response.Internal(c, "failed to check ownership")
			return
		}
		if ownership == nil {
			response.Forbidden(c, "not authorized for this opportunity")
			return
		}
		logs, err := logRepo.ListByOpportunity(c.Request.Context(), opportunityID)
		if err != nil {
			h.logger.Error("list email logs failed", zap.Error(err), zap.String("opportunity_id", opportunityID.String()))
			response.Internal(c, "failed to load email logs")
			return
		}
		response.OK(c, logs)
	}
}

// tenantScope resolves the page IDs the list query may touch. Returns
// ok=false after writing an error response.
func (h *Handler) tenantScope(c *gin.Context, userID uuid.UUID) ([]uuid.UUID, bool) {
	var filter *uuid.UUID
	if s := c.Query("pageId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.BadRequest(c, "invalid pageId")
			return nil, false
		}
		filter = &id
	}
	owned, err := h.pageRepo.ListOwnedPageIDs(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list owned pages failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to resolve page access")
		return nil, false
	}
	if filter == nil {
		return owned, true
	}
	// A pageId outside the caller's scope yields the empty result, not 403.
	for _, id := range owned {
		if id == *filter {
			return []uuid.UUID{id}, true
		}
	}
	return nil, true
}

func userIDFrom(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.ContextUserID).(uuid.UUID)
}
