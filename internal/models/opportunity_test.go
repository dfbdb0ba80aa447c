package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplicationStatusValid(t *testing.T) {
	for _, s := range []ApplicationStatus{
		ApplicationPending, ApplicationShortlisted, ApplicationMaybe,
		ApplicationRejected, ApplicationFinal,
	} {
		assert.True(t, s.Valid(), "%s should be valid", s)
	}

	assert.False(t, ApplicationStatus("").Valid())
	assert.False(t, ApplicationStatus("APPROVED").Valid())
	assert.False(t, ApplicationStatus("pending").Valid(), "statuses are case sensitive")
}

func TestOpportunityStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	opp := &Opportunity{IsActive: true, RegEndDate: now.Add(time.Hour)}
	assert.Equal(t, StatusLive, opp.Status(now))

	// Exactly at the deadline is still live.
	opp.RegEndDate = now
	assert.Equal(t, StatusLive, opp.Status(now))

	opp.RegEndDate = now.Add(-time.Second)
	assert.Equal(t, StatusClosed, opp.Status(now))

	opp = &Opportunity{IsActive: false, RegEndDate: now.Add(time.Hour)}
	assert.Equal(t, StatusClosed, opp.Status(now), "inactive listings are closed even inside the window")
}
