package models

import (
	"time"

	"github.com/google/uuid"
)

// DerivedStatus is the Live/Closed status computed from the registration
// window, never stored.
type DerivedStatus string

const (
	StatusLive   DerivedStatus = "Live"
	StatusClosed DerivedStatus = "Closed"
)

// Opportunity is a job/role listing published by a page.
type Opportunity struct {
	ID              uuid.UUID `json:"id"`
	PublishedBy     uuid.UUID `json:"published_by"` // page id
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	RegStartDate    time.Time `json:"reg_start_date"`
	RegEndDate      time.Time `json:"reg_end_date"`
	Vacancies       int       `json:"vacancies"`
	MaxParticipants int       `json:"max_participants"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Status reports Live while the opportunity is active and its registration
// window has not passed, Closed otherwise.
func (o *Opportunity) Status(now time.Time) DerivedStatus {
	if o.IsActive && !now.After(o.RegEndDate) {
		return StatusLive
	}
	return StatusClosed
}

// ApplicationStatus is the lifecycle state of an opportunity applicant.
type ApplicationStatus string

const (
	ApplicationPending     ApplicationStatus = "PENDING"
	ApplicationShortlisted ApplicationStatus = "SHORTLISTED"
	ApplicationMaybe       ApplicationStatus = "MAYBE"
	ApplicationRejected    ApplicationStatus = "REJECTED"
	ApplicationFinal       ApplicationStatus = "FINAL"
)

var applicationStatuses = map[ApplicationStatus]struct{}{
	ApplicationPending:     {},
	ApplicationShortlisted: {},
	ApplicationMaybe:       {},
	ApplicationRejected:    {},
	ApplicationFinal:       {},
}

// Valid reports whether s is a member of the applicant status enum.
func (s ApplicationStatus) Valid() bool {
	_, ok := applicationStatuses[s]
	return ok
}

// OpportunityApplicant is a user's application record against an
// opportunity. A (user, opportunity) pair appears at most once.
type OpportunityApplicant struct {
	ID                uuid.UUID         `json:"id"`
	OpportunityID     uuid.UUID         `json:"opportunity_id"`
	UserID            uuid.UUID         `json:"user_id"`
	ApplicationStatus ApplicationStatus `json:"application_status"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
