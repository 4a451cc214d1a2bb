// Package tracking implements the volatility-reference engine: snapshot
// construction, realized-vs-implied comparison, surprise-ratio history
// and calendar-anchored reference latching.
package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"volwatch/internal/errors"
	"volwatch/internal/expiry"
	"volwatch/internal/logging"
	"volwatch/internal/market"
	"volwatch/internal/models"
	"volwatch/internal/options"
)

// Builder constructs daily snapshots from live market data.
type Builder struct {
	provider market.OptionsProvider
	asset    string
	logger   zerolog.Logger
}

// NewBuilder creates a new snapshot builder.
func NewBuilder(provider market.OptionsProvider, asset string, logger zerolog.Logger) *Builder {
	return &Builder{
		provider: provider,
		asset:    asset,
		logger:   logging.WithComponent(logger, "builder"),
	}
}

// Build produces a complete snapshot for the current calendar day, or a
// BuildError if any leg cannot be resolved. A partial snapshot is never
// returned. The snapshot's timestamp is pinned to 00:00 UTC of the build
// date so downstream elapsed-time figures measure the day fraction, not
// time since the last refresh.
func (b *Builder) Build(ctx context.Context, now time.Time) (*models.Snapshot, error) {
	now = now.UTC()

	spot, err := b.provider.IndexPrice(ctx, b.asset)
	if err != nil {
		return nil, errors.NewBuildError("spot", err)
	}

	chain, err := b.provider.Instruments(ctx, b.asset)
	if err != nil {
		return nil, errors.NewBuildError("chain", err)
	}

	weeklyExpiry, monthlyExpiry := expiry.ResolveExpiries(now)

	weeklyQuote, err := options.SelectATM(chain, weeklyExpiry, spot)
	if err != nil {
		return nil, errors.NewBuildError("weekly", err)
	}
	monthlyQuote, err := options.SelectATM(chain, monthlyExpiry, spot)
	if err != nil {
		return nil, errors.NewBuildError("monthly", err)
	}

	// Ticker fetches for the two legs are independent; issue them
	// concurrently to cut build latency.
	var (
		wg            sync.WaitGroup
		weeklyTicker  *models.TickerQuote
		monthlyTicker *models.TickerQuote
		weeklyErr     error
		monthlyErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		weeklyTicker, weeklyErr = b.provider.Ticker(ctx, weeklyQuote.InstrumentID)
	}()
	go func() {
		defer wg.Done()
		monthlyTicker, monthlyErr = b.provider.Ticker(ctx, monthlyQuote.InstrumentID)
	}()
	wg.Wait()

	if weeklyErr != nil {
		return nil, errors.NewBuildError("weekly", weeklyErr)
	}
	if monthlyErr != nil {
		return nil, errors.NewBuildError("monthly", monthlyErr)
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	snapshot := &models.Snapshot{
		Date:          dayStart.Format("2006-01-02"),
		Timestamp:     dayStart.UnixMilli(),
		SpotPrice:     spot,
		WeeklyOption:  options.ComputeMetrics(weeklyQuote, *weeklyTicker, spot, now),
		MonthlyOption: options.ComputeMetrics(monthlyQuote, *monthlyTicker, spot, now),
	}

	logging.LogSnapshot(b.logger, snapshot.Date, spot,
		snapshot.WeeklyOption.ImpliedDailyMove, snapshot.MonthlyOption.ImpliedDailyMove)

	return snapshot, nil
}
