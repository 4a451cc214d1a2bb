package tracking

import (
	"sync"

	"volwatch/internal/models"
)

const (
	// maxHistoryRecords bounds the in-memory surprise-ratio history.
	maxHistoryRecords = 30
	// minRecordsForStats is the minimum history needed before Stats
	// reports anything but the sentinel.
	minRecordsForStats = 3
	// trendWindow is the size of each half of the trend comparison:
	// the mean of the most recent trendWindow records against the mean
	// of the trendWindow before them.
	trendWindow = 3
	// trendThreshold is the mean difference beyond which the trend is
	// reported as UP or DOWN. The 3-vs-3 window and 0.15 threshold are
	// kept for compatibility; they are not tuned to any particular
	// instrument's volatility scale.
	trendThreshold = 0.15
)

// HistoryStore is a bounded, date-keyed store of daily surprise-ratio
// records. Same-date writes replace in place (the day's figures firm up
// as it progresses); once full, the oldest record is evicted.
type HistoryStore struct {
	mu      sync.RWMutex
	records []models.HistoryRecord
}

// NewHistoryStore creates an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Upsert replaces any existing record for date, else appends one. When
// the append pushes the store past its bound, the single oldest record
// (by insertion order) is evicted.
func (h *HistoryStore) Upsert(date string, weeklySurprise, monthlySurprise, price float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	record := models.HistoryRecord{
		Date:            date,
		WeeklySurprise:  weeklySurprise,
		MonthlySurprise: monthlySurprise,
		ReferencePrice:  price,
	}

	for i := range h.records {
		if h.records[i].Date == date {
			h.records[i] = record
			return
		}
	}

	h.records = append(h.records, record)
	if len(h.records) > maxHistoryRecords {
		h.records = h.records[1:]
	}
}

// Len returns the number of retained records.
func (h *HistoryStore) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Records returns a copy of the retained records, oldest first.
func (h *HistoryStore) Records() []models.HistoryRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.HistoryRecord, len(h.records))
	copy(out, h.records)
	return out
}

// Stats derives averages and trends from the retained history. With
// fewer than three records it returns the sentinel result (DaysTracked
// zero, FLAT trends, zero averages); callers treat that as "suppress
// display", not as an error.
func (h *HistoryStore) Stats() models.HistoricalStats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.records) < minRecordsForStats {
		return models.HistoricalStats{
			WeeklyTrend:  models.TrendFlat,
			MonthlyTrend: models.TrendFlat,
		}
	}

	var weeklySum, monthlySum float64
	for _, r := range h.records {
		weeklySum += r.WeeklySurprise
		monthlySum += r.MonthlySurprise
	}
	n := float64(len(h.records))

	return models.HistoricalStats{
		DaysTracked:        len(h.records),
		AvgWeeklySurprise:  weeklySum / n,
		AvgMonthlySurprise: monthlySum / n,
		WeeklyTrend:        h.trend(func(r models.HistoryRecord) float64 { return r.WeeklySurprise }),
		MonthlyTrend:       h.trend(func(r models.HistoryRecord) float64 { return r.MonthlySurprise }),
	}
}

// trend compares the mean of the most recent trendWindow records against
// the mean of the trendWindow records preceding them. With fewer than
// 2*trendWindow records it always reports FLAT.
func (h *HistoryStore) trend(value func(models.HistoryRecord) float64) models.Trend {
	if len(h.records) < 2*trendWindow {
		return models.TrendFlat
	}

	recent := h.records[len(h.records)-trendWindow:]
	previous := h.records[len(h.records)-2*trendWindow : len(h.records)-trendWindow]

	var recentSum, previousSum float64
	for _, r := range recent {
		recentSum += value(r)
	}
	for _, r := range previous {
		previousSum += value(r)
	}

	diff := recentSum/trendWindow - previousSum/trendWindow
	switch {
	case diff > trendThreshold:
		return models.TrendUp
	case diff < -trendThreshold:
		return models.TrendDown
	default:
		return models.TrendFlat
	}
}
