// Package expiry provides option expiry date calculations.
//
// All arithmetic is done in UTC. Options settle at a fixed intraday
// cutover (08:00 UTC), not at midnight, so "next Friday" is relative to
// that cutover.
package expiry

import "time"

// SettlementHourUTC is the hour of day (UTC) at which contracts settle.
const SettlementHourUTC = 8

// NextWeeklyExpiry returns the next Friday 08:00 UTC strictly after now.
// On a Friday before the cutover the same day's expiry is still live; at
// or after the cutover it rolls to the following week.
func NextWeeklyExpiry(now time.Time) time.Time {
	now = now.UTC()
	days := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	candidate := time.Date(now.Year(), now.Month(), now.Day()+days, SettlementHourUTC, 0, 0, 0, time.UTC)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}

// LastFridayOfMonth returns the last Friday of the given month at
// 08:00 UTC, found by walking backward from the month's final day.
// Month values outside 1..12 are normalized the way time.Date does.
func LastFridayOfMonth(year int, month time.Month) time.Time {
	day := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for day.Weekday() != time.Friday {
		day = day.AddDate(0, 0, -1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), SettlementHourUTC, 0, 0, 0, time.UTC)
}

// NextMonthlyExpiry returns the current month's last Friday if it is
// still in the future relative to now, otherwise the next month's.
func NextMonthlyExpiry(now time.Time) time.Time {
	now = now.UTC()
	monthly := LastFridayOfMonth(now.Year(), now.Month())
	if !monthly.After(now) {
		monthly = LastFridayOfMonth(now.Year(), now.Month()+1)
	}
	return monthly
}

// ResolveExpiries returns the weekly and monthly target expiries for now,
// with collision correction applied: when the week's Friday is also the
// month's last Friday, the monthly leg rolls to the following month so
// the two horizons never reference the identical contract.
func ResolveExpiries(now time.Time) (weekly, monthly time.Time) {
	weekly = NextWeeklyExpiry(now)
	monthly = NextMonthlyExpiry(now)
	if weekly.Equal(monthly) {
		monthly = LastFridayOfMonth(monthly.Year(), monthly.Month()+1)
	}
	return weekly, monthly
}
