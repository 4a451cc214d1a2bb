package expiry

import (
	"testing"
	"time"
)

func TestNextWeeklyExpiry(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "midweek rolls to coming Friday",
			now:  time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC), // Tuesday
			want: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "Friday before cutover keeps today",
			now:  time.Date(2024, 3, 15, 7, 59, 0, 0, time.UTC),
			want: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "Friday at cutover rolls a week",
			now:  time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 22, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "Friday after cutover rolls a week",
			now:  time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 22, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "Saturday rolls to next Friday",
			now:  time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 22, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextWeeklyExpiry(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextWeeklyExpiry(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestLastFridayOfMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  time.Time
	}{
		{2024, time.March, time.Date(2024, 3, 29, 8, 0, 0, 0, time.UTC)},
		{2024, time.February, time.Date(2024, 2, 23, 8, 0, 0, 0, time.UTC)},
		{2024, time.May, time.Date(2024, 5, 31, 8, 0, 0, 0, time.UTC)}, // month ends on Friday
		{2023, time.December, time.Date(2023, 12, 29, 8, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := LastFridayOfMonth(tt.year, tt.month)
		if !got.Equal(tt.want) {
			t.Errorf("LastFridayOfMonth(%d, %v) = %v, want %v", tt.year, tt.month, got, tt.want)
		}
	}
}

func TestLastFridayOfMonthNormalizesOverflow(t *testing.T) {
	// Month 13 of 2023 is January 2024.
	got := LastFridayOfMonth(2023, time.December+1)
	want := time.Date(2024, 1, 26, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("LastFridayOfMonth(2023, 13) = %v, want %v", got, want)
	}
}

func TestNextMonthlyExpiry(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "current month still ahead",
			now:  time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 3, 29, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "current month passed rolls to next",
			now:  time.Date(2024, 3, 29, 9, 0, 0, 0, time.UTC),
			want: time.Date(2024, 4, 26, 8, 0, 0, 0, time.UTC),
		},
		{
			name: "December rolls into January",
			now:  time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC),
			want: time.Date(2024, 1, 26, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextMonthlyExpiry(tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("NextMonthlyExpiry(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestResolveExpiriesCollision(t *testing.T) {
	// 2024-03-25 is the Monday before 2024-03-29, which is both the next
	// weekly Friday and March's last Friday.
	now := time.Date(2024, 3, 25, 10, 0, 0, 0, time.UTC)

	weekly, monthly := ResolveExpiries(now)

	wantWeekly := time.Date(2024, 3, 29, 8, 0, 0, 0, time.UTC)
	wantMonthly := time.Date(2024, 4, 26, 8, 0, 0, 0, time.UTC)

	if !weekly.Equal(wantWeekly) {
		t.Errorf("weekly = %v, want %v", weekly, wantWeekly)
	}
	if !monthly.Equal(wantMonthly) {
		t.Errorf("monthly = %v, want %v", monthly, wantMonthly)
	}
	if monthly.Sub(weekly) < 14*24*time.Hour {
		t.Errorf("corrected monthly %v is less than 14 days after weekly %v", monthly, weekly)
	}
}

func TestResolveExpiriesNoCollision(t *testing.T) {
	// Mid-month: the coming Friday is not the month's last Friday.
	now := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)

	weekly, monthly := ResolveExpiries(now)

	if !weekly.Equal(time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("weekly = %v", weekly)
	}
	if !monthly.Equal(time.Date(2024, 3, 29, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("monthly = %v", monthly)
	}
}
