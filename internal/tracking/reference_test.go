package tracking

import (
	"testing"
	"time"

	"volwatch/internal/models"
)

func snapshotFor(date string, spot float64) *models.Snapshot {
	return &models.Snapshot{
		Date:          date,
		SpotPrice:     spot,
		WeeklyOption:  models.OptionMetrics{ImpliedDailyMove: spot * 0.025},
		MonthlyOption: models.OptionMetrics{ImpliedDailyMove: spot * 0.028},
	}
}

func TestWeeklyLatchOnFriday(t *testing.T) {
	tracker := NewReferenceTracker()
	friday := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tracker.OnNewSnapshot(snapshotFor("2024-03-15", 42000), friday)

	weekly, monthly := tracker.References()
	if weekly == nil {
		t.Fatal("weekly reference not latched on Friday")
	}
	if weekly.Date != "2024-03-15" || weekly.ReferencePrice != 42000 {
		t.Errorf("weekly reference = %+v", weekly)
	}
	if monthly != nil {
		t.Errorf("monthly reference latched on a mid-month Friday: %+v", monthly)
	}
}

func TestWeeklyLatchIdempotentWithinDate(t *testing.T) {
	tracker := NewReferenceTracker()
	friday := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	tracker.OnNewSnapshot(snapshotFor("2024-03-15", 42000), friday)
	// Later refresh the same day carries a different spot; the latched
	// reference must not move.
	tracker.OnNewSnapshot(snapshotFor("2024-03-15", 43500), friday.Add(6*time.Hour))

	weekly, _ := tracker.References()
	if weekly.ReferencePrice != 42000 {
		t.Errorf("reference price = %v, want the first latch (42000)", weekly.ReferencePrice)
	}
}

func TestWeeklyLatchMovesOnNewFriday(t *testing.T) {
	tracker := NewReferenceTracker()

	tracker.OnNewSnapshot(snapshotFor("2024-03-15", 42000), time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	tracker.OnNewSnapshot(snapshotFor("2024-03-22", 44000), time.Date(2024, 3, 22, 10, 0, 0, 0, time.UTC))

	weekly, _ := tracker.References()
	if weekly.Date != "2024-03-22" || weekly.ReferencePrice != 44000 {
		t.Errorf("weekly reference = %+v, want the new Friday's latch", weekly)
	}
}

func TestMonthlyLatchOnFirstOfMonth(t *testing.T) {
	tracker := NewReferenceTracker()
	firstOfApril := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC) // a Monday

	tracker.OnNewSnapshot(snapshotFor("2024-04-01", 43000), firstOfApril)

	weekly, monthly := tracker.References()
	if monthly == nil || monthly.Date != "2024-04-01" {
		t.Fatalf("monthly reference = %+v, want latch on the 1st", monthly)
	}
	if weekly != nil {
		t.Errorf("weekly reference latched on a Monday: %+v", weekly)
	}
}

func TestBothLatchesFireWhenMonthStartsOnFriday(t *testing.T) {
	tracker := NewReferenceTracker()
	// 2024-11-01 is a Friday.
	day := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)

	tracker.OnNewSnapshot(snapshotFor("2024-11-01", 45000), day)

	weekly, monthly := tracker.References()
	if weekly == nil || monthly == nil {
		t.Fatalf("weekly=%v monthly=%v, want both latched", weekly, monthly)
	}
	if weekly.Date != monthly.Date {
		t.Errorf("latch dates differ: %s vs %s", weekly.Date, monthly.Date)
	}
}
