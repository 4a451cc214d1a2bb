// Package market provides the external market-data collaborators: the
// options-market source and the spot/kline price source. Upstream
// payloads are decoded into typed schemas at this boundary; untyped JSON
// never crosses into the core.
package market

import (
	"context"
	"time"

	"volwatch/internal/models"
)

// OptionsProvider supplies spot index prices, the unexpired option chain
// and per-contract IV quotes.
type OptionsProvider interface {
	// IndexPrice returns the current index (spot) price for the asset.
	IndexPrice(ctx context.Context, asset string) (float64, error)
	// Instruments returns the full unexpired option chain for the asset.
	Instruments(ctx context.Context, asset string) ([]models.OptionQuote, error)
	// Ticker returns the IV quotes for a single contract.
	Ticker(ctx context.Context, instrumentID string) (*models.TickerQuote, error)
}

// PriceProvider supplies the current UTC day's observed price range.
type PriceProvider interface {
	// DailyKline returns high/low/open for the UTC calendar day starting
	// at dayStart.
	DailyKline(ctx context.Context, asset string, dayStart time.Time) (*models.Kline, error)
}
