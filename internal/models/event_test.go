package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapDecision(t *testing.T) {
	assert.Equal(t, ApprovalShortlisting, MapDecision(DecisionApproved))
	assert.Equal(t, ApprovalHold, MapDecision(DecisionHold))
	assert.Equal(t, ApprovalRejected, MapDecision(DecisionRejected))
	assert.Equal(t, ApprovalRejected, MapDecision(DecisionDeclined))

	// Unrecognized input never reaches the store unmapped.
	assert.Equal(t, ApprovalRejected, MapDecision(""))
	assert.Equal(t, ApprovalRejected, MapDecision("approved"))
	assert.Equal(t, ApprovalRejected, MapDecision("WHATEVER"))
}

func TestBookingStatusValid(t *testing.T) {
	assert.True(t, BookingPending.Valid())
	assert.True(t, BookingSuccess.Valid())
	assert.True(t, BookingFailed.Valid())

	assert.False(t, BookingStatus("").Valid())
	assert.False(t, BookingStatus("success").Valid())
	assert.False(t, BookingStatus("CANCELLED").Valid())
}

func TestEventStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	ev := &Event{IsVerified: true, RegEndDate: now.Add(time.Hour)}
	assert.Equal(t, StatusLive, ev.Status(now))

	ev.RegEndDate = now.Add(-time.Second)
	assert.Equal(t, StatusClosed, ev.Status(now))

	ev = &Event{IsVerified: false, RegEndDate: now.Add(time.Hour)}
	assert.Equal(t, StatusClosed, ev.Status(now), "unverified events are closed even inside the window")
}
