package models

import (
	"time"

	"github.com/google/uuid"
)

// Page represents a tenant (organization/company) that publishes
// opportunities and events.
type Page struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	About       string    `json:"about,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PageRole is the role of a user on a page. Any active ownership grants
// full mutation rights over the page's opportunities and events; the role
// is informational.
const (
	PageRoleOwner       = "owner"
	PageRoleRecruiter   = "recruiter"
	PageRoleCoordinator = "coordinator"
)

// PageOwnership links a user to a page. Revocation deactivates the row
// rather than deleting it; at most one active row exists per (page, user).
type PageOwnership struct {
	ID        uuid.UUID `json:"id"`
	PageID    uuid.UUID `json:"page_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
