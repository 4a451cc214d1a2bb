package options

import (
	"math"
	"time"

	"volwatch/internal/models"
)

const (
	millisPerHour = 3_600_000
	hoursPerDay   = 24
	daysPerYear   = 365
)

// sqrt365 normalizes annualized volatility to a single trading day.
var sqrt365 = math.Sqrt(daysPerYear)

// ImpliedMove returns the expected absolute price move over the given
// horizon, via the square-root-of-time rule. atmIV is an annualized
// percentage.
func ImpliedMove(spot, atmIV, horizonYears float64) float64 {
	if horizonYears <= 0 {
		return 0
	}
	return spot * (atmIV / 100) * math.Sqrt(horizonYears)
}

// ImpliedDailyMove returns the 1-day-equivalent expected move, normalized
// directly from annualized IV. It is independent of any contract's own
// time to expiry; deriving it by rescaling a contract's implied move by
// sqrt(1/daysToExpiry) is a superseded variant that produced
// horizon-dependent instability.
func ImpliedDailyMove(spot, atmIV float64) float64 {
	return spot * (atmIV / 100) / sqrt365
}

// ComputeMetrics derives the per-contract metrics for a snapshot leg.
// If the contract's expiry has already passed, the horizon figures go to
// zero or negative; callers exclude expired contracts before this point
// via the upstream expired=false filter.
func ComputeMetrics(quote models.OptionQuote, ticker models.TickerQuote, spot float64, now time.Time) models.OptionMetrics {
	atmIV := ticker.ATMIV()

	hoursToExpiry := float64(quote.ExpiryTimestamp-now.UTC().UnixMilli()) / millisPerHour
	daysToExpiry := hoursToExpiry / hoursPerDay
	yearsToExpiry := daysToExpiry / daysPerYear

	impliedMove := ImpliedMove(spot, atmIV, yearsToExpiry)
	impliedDaily := ImpliedDailyMove(spot, atmIV)

	return models.OptionMetrics{
		InstrumentID:            quote.InstrumentID,
		Strike:                  quote.Strike,
		ExpiryTimestamp:         quote.ExpiryTimestamp,
		ATMIV:                   atmIV,
		HoursToExpiry:           hoursToExpiry,
		DaysToExpiry:            daysToExpiry,
		ImpliedMove:             impliedMove,
		ImpliedMovePercent:      impliedMove / spot * 100,
		ImpliedDailyMove:        impliedDaily,
		ImpliedDailyMovePercent: impliedDaily / spot * 100,
	}
}
