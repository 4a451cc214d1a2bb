package tracking

import (
	"sync"
	"time"

	"volwatch/internal/models"
)

// ReferenceTracker latches calendar-anchored reference snapshots: one on
// each Friday (weekly) and one on each 1st of the month (monthly). At
// most one of each is live at a time; re-observing the same date is a
// no-op, so repeated snapshot refreshes within a day cannot move an
// already-latched reference.
type ReferenceTracker struct {
	mu      sync.RWMutex
	weekly  *models.ReferenceSnapshot
	monthly *models.ReferenceSnapshot
}

// NewReferenceTracker creates an empty reference tracker.
func NewReferenceTracker() *ReferenceTracker {
	return &ReferenceTracker{}
}

// OnNewSnapshot inspects a freshly built snapshot and latches weekly
// and/or monthly references when today sits on the corresponding
// calendar boundary. The two checks are independent and may both fire
// on the same call (a month starting on a Friday).
func (t *ReferenceTracker) OnNewSnapshot(snapshot *models.Snapshot, today time.Time) {
	today = today.UTC()

	t.mu.Lock()
	defer t.mu.Unlock()

	if today.Weekday() == time.Friday && (t.weekly == nil || t.weekly.Date != snapshot.Date) {
		t.weekly = referenceFrom(snapshot)
	}
	if today.Day() == 1 && (t.monthly == nil || t.monthly.Date != snapshot.Date) {
		t.monthly = referenceFrom(snapshot)
	}
}

// References returns copies of the latched weekly and monthly reference
// snapshots; either may be nil before its first boundary.
func (t *ReferenceTracker) References() (weekly, monthly *models.ReferenceSnapshot) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.weekly != nil {
		w := *t.weekly
		weekly = &w
	}
	if t.monthly != nil {
		m := *t.monthly
		monthly = &m
	}
	return weekly, monthly
}

func referenceFrom(snapshot *models.Snapshot) *models.ReferenceSnapshot {
	return &models.ReferenceSnapshot{
		Date:                snapshot.Date,
		WeeklyImpliedDaily:  snapshot.WeeklyOption.ImpliedDailyMove,
		MonthlyImpliedDaily: snapshot.MonthlyOption.ImpliedDailyMove,
		ReferencePrice:      snapshot.SpotPrice,
	}
}
