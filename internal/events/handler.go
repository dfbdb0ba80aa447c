package events

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

// store is the event persistence surface the handler needs.
type store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	ListByPages(ctx context.Context, pageIDs []uuid.UUID, params pagination.Params) ([]models.Event, int, error)
	GetRegistrant(ctx context.Context, eventID, registrantID uuid.UUID) (*RegistrantDetail, error)
	UpdateRegistrantStatus(ctx context.Context, eventID, registrantID uuid.UUID, status models.ApprovalStatus) (bool, error)
	UpdateBookingStatus(ctx context.Context, eventID, registrantID uuid.UUID, status models.BookingStatus) (bool, error)
	ListRegistrants(ctx context.Context, eventID uuid.UUID, params pagination.Params) ([]RegistrantDetail, int, error)
}

// ownerships resolves the caller's page access.
type ownerships interface {
	GetActiveOwnership(ctx context.Context, pageID, userID uuid.UUID) (*models.PageOwnership, error)
	ListOwnedPageIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type emailLogs interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.EmailLog, error)
}

// Handler handles event HTTP endpoints.
type Handler struct {
	repo            store
	pageRepo        ownerships
	notifier        notifications.Dispatcher
	logger          *zap.Logger
	listCacheMaxAge int
}

// NewHandler creates an events handler.
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

type eventItem struct {
	models.Event
	Status models.DerivedStatus `json:"status"`
}

// List handles GET /events?pageId&page&limit, scoped to the caller's active
// page ownerships with derived Live/Closed status per event.
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
		response.OK(c, gin.H{"events": []eventItem{}, "pagination": params.NewMeta(0)})
		return
	}
	list, total, err := h.repo.ListByPages(c.Request.Context(), scope, params)
	if err != nil {
		h.logger.Error("list events failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to load events")
		return
	}
	now := time.Now()
	items := make([]eventItem, 0, len(list))
	for i := range list {
		items = append(items, eventItem{Event: list[i], Status: list[i].Status(now)})
	}
	response.OK(c, gin.H{"events": items, "pagination": params.NewMeta(total)})
}

// Ownership handles GET /events/:id/ownership.
func (h *Handler) Ownership(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	event, err := h.repo.GetByID(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("get event failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to load event")
		return
	}
	if event == nil {
		response.NotFound(c, "event not found")
		return
	}
	ownership, err := h.pageRepo.GetActiveOwnership(c.Request.Context(), event.PublishedBy, userID)
	if err != nil {
		h.logger.Error("ownership lookup failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to check ownership")
		return
	}
	if ownership == nil {
		response.OK(c, gin.H{"is_owner": false})
		return
	}
	response.OK(c, gin.H{"is_owner": true, "ownership": ownership})
}

// requireOwnedEvent loads the event and verifies the caller controls its
// page. Returns nil after writing the error response.
func (h *Handler) requireOwnedEvent(c *gin.Context, eventID uuid.UUID) *models.Event {
	event, err := h.repo.GetByID(c.Request.Context(), eventID)
	if err != nil {
		h.logger.Error("get event failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to load event")
		return nil
	}
	if event == nil {
		response.NotFound(c, "event not found")
		return nil
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	ownership, err := h.pageRepo.GetActiveOwnership(c.Request.Context(), event.PublishedBy, userID)
	if err != nil {
		h.logger.Error("ownership lookup failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to check ownership")
		return nil
	}
	if ownership == nil {
		response.Forbidden(c, "not authorized for this event")
		return nil
	}
	return event
}

// ListRegistrants handles GET /events/:id/applicants. Page owners only.
func (h *Handler) ListRegistrants(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		response.BadRequest(c, "page must be >= 1 and limit in [1, 100]")
		return
	}
	if event := h.requireOwnedEvent(c, eventID); event == nil {
		return
	}
	list, total, err := h.repo.ListRegistrants(c.Request.Context(), eventID, params)
	if err != nil {
		h.logger.Error("list registrants failed", zap.Error(err), zap.String("event_id", eventID.String()))
		response.Internal(c, "failed to load registrants")
		return
	}
	if list == nil {
		list = []RegistrantDetail{}
	}
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", h.listCacheMaxAge))
	response.OK(c, gin.H{"applicants": list, "pagination": params.NewMeta(total)})
}

// UpdateStatusRequest is the body for
// PUT /events/:eventId/applicants/:applicantId/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateRegistrantStatus handles PUT /events/:eventId/applicants/:applicantId/status.
// The decision input maps APPROVED to SHORTLISTING, HOLD to HOLD and
// everything else to REJECTED; the response echoes the decision as sent
// while the row stores the mapped status. The row update matches both
// identifiers; a mismatch is not found, never a cross-parent write.
// APPROVED and REJECTED/DECLINED dispatch a best-effort notification after
// the update commits; HOLD dispatches nothing.
func (h *Handler) UpdateRegistrantStatus(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	registrantID, err := uuid.Parse(c.Param("applicantId"))
	if err != nil {
		response.BadRequest(c, "invalid applicant id")
		return
	}
	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "status required")
		return
	}

	event := h.requireOwnedEvent(c, eventID)
	if event == nil {
		return
	}
	registrant, err := h.repo.GetRegistrant(c.Request.Context(), eventID, registrantID)
	if err != nil {
		h.logger.Error("get registrant failed", zap.Error(err), zap.String("registrant_id", registrantID.String()))
		response.Internal(c, "failed to load applicant")
		return
	}
	if registrant == nil {
		response.NotFound(c, "applicant not found for this event")
		return
	}

	mapped := models.MapDecision(body.Status)
	updated, err := h.repo.UpdateRegistrantStatus(c.Request.Context(), eventID, registrantID, mapped)
	if err != nil {
		h.logger.Error("update registrant status failed", zap.Error(err), zap.String("registrant_id", registrantID.String()))
		response.Internal(c, "failed to update status")
		return
	}
	if !updated {
		response.NotFound(c, "applicant not found for this event")
		return
	}

	emailSent := false
	switch mapped {
	case models.ApprovalShortlisting:
		emailSent = h.notifier.Notify(c.Request.Context(), notifications.KindShortlisted,
			notifications.Recipient{Email: registrant.Email, FullName: registrant.FullName},
			notifications.Meta{EventID: &event.ID, Title: event.Title})
	case models.ApprovalRejected:
		emailSent = h.notifier.Notify(c.Request.Context(), notifications.KindRejected,
			notifications.Recipient{Email: registrant.Email, FullName: registrant.FullName},
			notifications.Meta{EventID: &event.ID, Title: event.Title})
	}

	response.OK(c, gin.H{"status": body.Status, "emailSent": emailSent})
}

// UpdateBookingStatusRequest is the body for
// PUT /events/:eventId/applicants/:applicantId/payment-status.
type UpdateBookingStatusRequest struct {
	BookingStatus string `json:"bookingStatus" binding:"required"`
}

// UpdateBookingStatus handles PUT /events/:eventId/applicants/:applicantId/payment-status.
// The booking track is independent of the approval track; the value is
// checked against the allow-list before any write.
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	registrantID, err := uuid.Parse(c.Param("applicantId"))
	if err != nil {
		response.BadRequest(c, "invalid applicant id")
		return
	}
	var body UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "bookingStatus required")
		return
	}
	status := models.BookingStatus(body.BookingStatus)
	if !status.Valid() {
		response.BadRequest(c, "bookingStatus must be PENDING, SUCCESS or FAILED")
		return
	}

	if event := h.requireOwnedEvent(c, eventID); event == nil {
		return
	}
	updated, err := h.repo.UpdateBookingStatus(c.Request.Context(), eventID, registrantID, status)
	if err != nil {
		h.logger.Error("update booking status failed", zap.Error(err), zap.String("registrant_id", registrantID.String()))
		response.Internal(c, "failed to update booking status")
		return
	}
	if !updated {
		response.NotFound(c, "applicant not found for this event")
		return
	}
	response.OK(c, gin.H{"bookingStatus": status})
}

// ListEmails handles GET /events/:id/emails for page owners, using the
// notifications audit log.
func (h *Handler) ListEmails(logRepo emailLogs) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			response.BadRequest(c, "invalid event id")
			return
		}
		if event := h.requireOwnedEvent(c, eventID); event == nil {
			return
		}
		logs, err := logRepo.ListByEvent(c.Request.Context(), eventID)
		if err != nil {
			h.logger.Error("list email logs failed", zap.Error(err), zap.String("event_id", eventID.String()))
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
	for _, id := range owned {
		if id == *filter {
			return []uuid.UUID{id}, true
		}
	}
	return nil, true
}
