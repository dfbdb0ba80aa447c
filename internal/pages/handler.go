package pages

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentbridge/backend/internal/middleware"
	"github.com/talentbridge/backend/internal/models"
	"github.com/talentbridge/backend/pkg/pagination"
	"github.com/talentbridge/backend/pkg/response"
)

// Handler handles page HTTP endpoints.
type Handler struct {
	repo            *Repository
	logger          *zap.Logger
	listCacheMaxAge int
}

// NewHandler creates a pages handler.
func NewHandler(repo *Repository, listCacheMaxAge int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger, listCacheMaxAge: listCacheMaxAge}
}

// ListMyPages handles GET /pages. Returns pages the caller actively owns.
func (h *Handler) ListMyPages(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	params, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		response.BadRequest(c, "page must be >= 1 and limit in [1, 100]")
		return
	}
	list, total, err := h.repo.ListPagesForUser(c.Request.Context(), userID, params)
	if err != nil {
		h.logger.Error("list pages failed", zap.Error(err), zap.String("user_id", userID.String()))
		response.Internal(c, "failed to load pages")
		return
	}
	if list == nil {
		list = []models.Page{}
	}
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", h.listCacheMaxAge))
	response.OK(c, gin.H{"pages": list, "pagination": params.NewMeta(total)})
}

// ListMembers handles GET /pages/:id/members. Requires an active ownership
// of the page.
func (h *Handler) ListMembers(c *gin.Context) {
	pageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid page id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	page, err := h.repo.GetByID(c.Request.Context(), pageID)
	if err != nil {
		h.logger.Error("get page failed", zap.Error(err), zap.String("page_id", pageID.String()))
		response.Internal(c, "failed to load page")
		return
	}
	if page == nil {
		response.NotFound(c, "page not found")
		return
	}
	ownership, err := h.repo.GetActiveOwnership(c.Request.Context(), pageID, userID)
	if err != nil {
		h.logger.Error("ownership lookup failed", zap.Error(err), zap.String("page_id", pageID.String()))
		response.Internal(c, "failed to check page access")
		return
	}
	if ownership == nil {
		response.Forbidden(c, "not authorized for this page")
		return
	}
	members, err := h.repo.ListMembers(c.Request.Context(), pageID)
	if err != nil {
		h.logger.Error("list members failed", zap.Error(err), zap.String("page_id", pageID.String()))
		response.Internal(c, "failed to load members")
		return
	}
	response.OK(c, members)
}

// AddMemberRequest is the body for POST /pages/:id/members.
type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Role   string `json:"role"`
}

// AddMember handles POST /pages/:id/members. Grants page access to a user;
// the caller must actively own the page.
func (h *Handler) AddMember(c *gin.Context) {
	pageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid page id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	ownership, err := h.repo.GetActiveOwnership(c.Request.Context(), pageID, userID)
	if err != nil {
		h.logger.Error("ownership lookup failed", zap.Error(err), zap.String("page_id", pageID.String()))
		response.Internal(c, "failed to check page access")
		return
	}
	if ownership == nil {
		response.Forbidden(c, "not authorized for this page")
		return
	}
	var body AddMemberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "user_id required")
		return
	}
	memberID, err := uuid.Parse(body.UserID)
	if err != nil {
		response.BadRequest(c, "invalid user_id")
		return
	}
	role := body.Role
	switch role {
	case "":
		role = models.PageRoleRecruiter
	case models.PageRoleOwner, models.PageRoleRecruiter, models.PageRoleCoordinator:
	default:
		response.BadRequest(c, "invalid role")
		return
	}
	if err := h.repo.GrantOwnership(c.Request.Context(), pageID, memberID, role); err != nil {
		h.logger.Error("grant ownership failed", zap.Error(err), zap.String("page_id", pageID.String()))
		response.Internal(c, "failed to add member")
		return
	}
	response.Created(c, gin.H{"page_id": pageID, "user_id": memberID, "role": role})
}

// RemoveMember handles DELETE /pages/:id/members/:userId. Deactivates the
// ownership row; the row is kept for audit.
func (h *Handler) RemoveMember(c *gin.Context) {
	pageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid page id")
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(uuid.UUID)
	ownership, err := h.repo.GetActiveOwnership(c.Request.Context(), pageID, userID)
	if err != nil {
		h.logger.Error("ownership lookup failed", zap.Error(err), zap.String("page_id", pageID.String()))
		response.Internal(c, "failed to check page access")
		return
	}
	if ownership == nil {
		response.Forbidden(c, "not authorized for this page")
		return
	}
	revoked, err := h.repo.RevokeOwnership(c.Request.Context(), pageID, memberID)
	if err != nil {
		h.logger.Error("revoke ownership failed", zap.Error(err), zap.String("page_id", pageID.String()))
		response.Internal(c, "failed to remove member")
		return
	}
	if !revoked {
		response.NotFound(c, "member not found")
		return
	}
	response.NoContent(c)
}
