package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a registrable activity published by a page.
type Event struct {
	ID              uuid.UUID `json:"id"`
	PublishedBy     uuid.UUID `json:"published_by"` // page id
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	RegStartDate    time.Time `json:"reg_start_date"`
	RegEndDate      time.Time `json:"reg_end_date"`
	Vacancies       int       `json:"vacancies"`
	MaxParticipants int       `json:"max_participants"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Status reports Live while the event is verified and its registration
// window has not passed, Closed otherwise.
func (e *Event) Status(now time.Time) DerivedStatus {
	if e.IsVerified && !now.After(e.RegEndDate) {
		return StatusLive
	}
	return StatusClosed
}

// ApprovalStatus is the stored approval-pipeline state of a registrant.
type ApprovalStatus string

const (
	ApprovalPending      ApprovalStatus = "PENDING"
	ApprovalShortlisting ApprovalStatus = "SHORTLISTING"
	ApprovalRejected     ApprovalStatus = "REJECTED"
	ApprovalHold         ApprovalStatus = "HOLD"
	ApprovalFinal        ApprovalStatus = "FINAL"
)

// Registrant decision inputs accepted from page owners. Anything outside
// this set still maps to REJECTED.
const (
	DecisionApproved = "APPROVED"
	DecisionHold     = "HOLD"
	DecisionRejected = "REJECTED"
	DecisionDeclined = "DECLINED"
)

// MapDecision translates an externally-facing decision into the stored
// approval status. Unrecognized input maps to REJECTED as a safe default.
func MapDecision(decision string) ApprovalStatus {
	switch decision {
	case DecisionApproved:
		return ApprovalShortlisting
	case DecisionHold:
		return ApprovalHold
	default:
		return ApprovalRejected
	}
}

// BookingStatus is the payment-pipeline state of a registrant, independent
// of the approval track.
type BookingStatus string

const (
	BookingPending BookingStatus = "PENDING"
	BookingSuccess BookingStatus = "SUCCESS"
	BookingFailed  BookingStatus = "FAILED"
)

// Valid reports whether s is one of the three booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingSuccess, BookingFailed:
		return true
	}
	return false
}

// RegisteredEvent is a user's registration record against an event.
// Booking status only carries meaning once the approval track reaches
// FINAL; the data layer does not enforce that ordering.
type RegisteredEvent struct {
	ID            uuid.UUID      `json:"id"`
	EventID       uuid.UUID      `json:"event_id"`
	UserID        uuid.UUID      `json:"user_id"`
	Status        ApprovalStatus `json:"status"`
	BookingStatus BookingStatus  `json:"booking_status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
