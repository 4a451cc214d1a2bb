package tracking

import (
	"fmt"
	"time"

	"volwatch/internal/models"
)

// Classification thresholds for the surprise ratio. Fixed constants, not
// configurable.
const (
	highVolThreshold = 1.3
	lowVolThreshold  = 0.7
)

const millisPerHour = 3_600_000

// Compare evaluates a snapshot against the day's observed price action.
// It is a pure function of its inputs and safe to call concurrently.
// Percentages are always relative to the snapshot's reference spot, so
// the denominator stays fixed across the day.
func Compare(snapshot *models.Snapshot, currentPrice, dayHigh, dayLow float64, now time.Time) models.Comparison {
	actualRange := dayHigh - dayLow

	return models.Comparison{
		Timestamp:          now.UTC().UnixMilli(),
		CurrentPrice:       currentPrice,
		DayHigh:            dayHigh,
		DayLow:             dayLow,
		ActualRange:        actualRange,
		ActualRangePercent: actualRange / snapshot.SpotPrice * 100,
		Weekly:             compareHorizon("weekly", actualRange, snapshot.WeeklyOption.ImpliedDailyMove),
		Monthly:            compareHorizon("monthly", actualRange, snapshot.MonthlyOption.ImpliedDailyMove),
		TimeElapsedHours:   float64(now.UTC().UnixMilli()-snapshot.Timestamp) / millisPerHour,
	}
}

func compareHorizon(horizon string, actualRange, impliedDaily float64) models.HorizonComparison {
	ratio := actualRange / impliedDaily
	status := classify(ratio)

	return models.HorizonComparison{
		SurpriseRatio: ratio,
		Status:        status,
		Signal:        signal(horizon, ratio, status),
	}
}

func classify(ratio float64) models.VolStatus {
	switch {
	case ratio > highVolThreshold:
		return models.StatusHighVol
	case ratio < lowVolThreshold:
		return models.StatusLowVol
	default:
		return models.StatusNormal
	}
}

func signal(horizon string, ratio float64, status models.VolStatus) string {
	switch status {
	case models.StatusHighVol:
		return fmt.Sprintf("Realized range is %.2fx the %s implied daily move: volatility above expectations", ratio, horizon)
	case models.StatusLowVol:
		return fmt.Sprintf("Realized range is %.2fx the %s implied daily move: volatility below expectations", ratio, horizon)
	default:
		return fmt.Sprintf("Realized range is %.2fx the %s implied daily move: in line with expectations", ratio, horizon)
	}
}
