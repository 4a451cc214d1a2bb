package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"volwatch/internal/errors"
	"volwatch/internal/logging"
	"volwatch/internal/market"
	"volwatch/internal/models"
)

// Service is the context object owning all tracker state for one
// instrument: the published snapshot, the surprise-ratio history and the
// two reference slots. All state is process-lifetime, in-memory only.
type Service struct {
	asset   string
	builder *Builder
	price   market.PriceProvider
	options market.OptionsProvider
	history *HistoryStore
	refs    *ReferenceTracker
	logger  zerolog.Logger

	// now is swappable for tests.
	now func() time.Time

	mu       sync.RWMutex
	snapshot *models.Snapshot
}

// NewService creates a new tracking service for a single asset.
func NewService(optionsProvider market.OptionsProvider, priceProvider market.PriceProvider, asset string, logger zerolog.Logger) *Service {
	return &Service{
		asset:   asset,
		builder: NewBuilder(optionsProvider, asset, logger),
		price:   priceProvider,
		options: optionsProvider,
		history: NewHistoryStore(),
		refs:    NewReferenceTracker(),
		logger:  logging.WithComponent(logger, "tracking"),
		now:     time.Now,
	}
}

// CurrentSnapshot returns the published snapshot, or ErrNotReady before
// the first successful build. "Not yet initialized" is a distinct state
// from "failed to initialize": a failed refresh leaves the previous
// snapshot in effect.
func (s *Service) CurrentSnapshot() (*models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, errors.ErrNotReady
	}
	return s.snapshot, nil
}

// Refresh rebuilds the snapshot from live data and publishes it with a
// single pointer swap, so readers never observe a snapshot with legs
// from different builds. On failure the previously published snapshot
// remains in effect. Each call is a clean rebuild; retry policy belongs
// to the caller.
func (s *Service) Refresh(ctx context.Context) (*models.Snapshot, error) {
	now := s.now()

	snapshot, err := s.builder.Build(ctx, now)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Snapshot refresh failed; keeping previous snapshot")
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.refs.OnNewSnapshot(snapshot, now)
	return snapshot, nil
}

// Compare fetches the day's kline and current price and evaluates them
// against the published snapshot.
func (s *Service) Compare(ctx context.Context) (*models.Comparison, error) {
	snapshot, err := s.CurrentSnapshot()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	dayStart := time.UnixMilli(snapshot.Timestamp).UTC()

	kline, err := s.price.DailyKline(ctx, s.asset, dayStart)
	if err != nil {
		return nil, err
	}
	currentPrice, err := s.options.IndexPrice(ctx, s.asset)
	if err != nil {
		return nil, err
	}

	comparison := Compare(snapshot, currentPrice, kline.High, kline.Low, now)
	logging.LogComparison(s.logger,
		comparison.Weekly.SurpriseRatio, comparison.Monthly.SurpriseRatio,
		string(comparison.Weekly.Status), string(comparison.Monthly.Status))

	return &comparison, nil
}

// RecordToday folds a comparison into the history, keyed by the
// published snapshot's date. Safe to call repeatedly within the same
// day; later calls overwrite the day's record.
func (s *Service) RecordToday(comparison *models.Comparison) error {
	snapshot, err := s.CurrentSnapshot()
	if err != nil {
		return err
	}

	s.history.Upsert(snapshot.Date,
		comparison.Weekly.SurpriseRatio,
		comparison.Monthly.SurpriseRatio,
		snapshot.SpotPrice)
	return nil
}

// HistoricalStats returns averages and trends over the retained history.
func (s *Service) HistoricalStats() models.HistoricalStats {
	return s.history.Stats()
}

// History returns the retained surprise-ratio records, oldest first.
func (s *Service) History() []models.HistoryRecord {
	return s.history.Records()
}

// References returns the latched weekly/monthly reference snapshots.
func (s *Service) References() (weekly, monthly *models.ReferenceSnapshot) {
	return s.refs.References()
}
