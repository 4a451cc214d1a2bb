// Package models defines the core entities of the volatility tracker.
package models

// VolStatus classifies a realized range against the implied daily move.
type VolStatus string

const (
	StatusHighVol VolStatus = "HIGH_VOL"
	StatusNormal  VolStatus = "NORMAL"
	StatusLowVol  VolStatus = "LOW_VOL"
)

// Trend represents the direction of the surprise-ratio history.
type Trend string

const (
	TrendUp   Trend = "UP"
	TrendDown Trend = "DOWN"
	TrendFlat Trend = "FLAT"
)

// Snapshot is the reference point for one trading day. It is built as a
// whole and replaced as a whole; fields are never mutated after build.
type Snapshot struct {
	Date          string        `json:"date"`      // YYYY-MM-DD, UTC
	Timestamp     int64         `json:"timestamp"` // 00:00 UTC of Date, epoch millis
	SpotPrice     float64       `json:"spot_price"`
	WeeklyOption  OptionMetrics `json:"weekly_option"`
	MonthlyOption OptionMetrics `json:"monthly_option"`
}

// HorizonComparison holds the per-horizon result of a comparison.
type HorizonComparison struct {
	SurpriseRatio float64   `json:"surprise_ratio"`
	Status        VolStatus `json:"status"`
	Signal        string    `json:"signal"`
}

// Comparison is a point-in-time evaluation of a Snapshot against the
// day's observed price action. It is recomputed on every query and never
// stored standalone.
type Comparison struct {
	Timestamp          int64             `json:"timestamp"`
	CurrentPrice       float64           `json:"current_price"`
	DayHigh            float64           `json:"day_high"`
	DayLow             float64           `json:"day_low"`
	ActualRange        float64           `json:"actual_range"`
	ActualRangePercent float64           `json:"actual_range_percent"`
	Weekly             HorizonComparison `json:"weekly"`
	Monthly            HorizonComparison `json:"monthly"`
	TimeElapsedHours   float64           `json:"time_elapsed_hours"`
}

// HistoryRecord is one row of surprise-ratio history per calendar date.
type HistoryRecord struct {
	Date            string  `json:"date"`
	WeeklySurprise  float64 `json:"weekly_surprise"`
	MonthlySurprise float64 `json:"monthly_surprise"`
	ReferencePrice  float64 `json:"reference_price"`
}

// HistoricalStats summarizes the retained history. DaysTracked == 0 is the
// "not enough data" sentinel, not an error.
type HistoricalStats struct {
	DaysTracked        int     `json:"days_tracked"`
	AvgWeeklySurprise  float64 `json:"avg_weekly_surprise"`
	AvgMonthlySurprise float64 `json:"avg_monthly_surprise"`
	WeeklyTrend        Trend   `json:"weekly_trend"`
	MonthlyTrend       Trend   `json:"monthly_trend"`
}

// ReferenceSnapshot is a calendar-anchored latch of implied-daily figures,
// taken on Fridays (weekly) and on the 1st of each month (monthly).
type ReferenceSnapshot struct {
	Date                string  `json:"date"`
	WeeklyImpliedDaily  float64 `json:"weekly_implied_daily"`
	MonthlyImpliedDaily float64 `json:"monthly_implied_daily"`
	ReferencePrice      float64 `json:"reference_price"`
}

// Kline holds the current UTC day's high/low/open as reported by the
// price source.
type Kline struct {
	High float64 `json:"high"`
	Low  float64 `json:"low"`
	Open float64 `json:"open"`
}
