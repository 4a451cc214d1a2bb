package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"volwatch/internal/errors"
	"volwatch/internal/logging"
	"volwatch/internal/models"
	"volwatch/internal/resilience"
)

const deribitSource = "options"

// DeribitConfig holds Deribit client configuration.
type DeribitConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	RequestsPerSec float64
	Burst          int
}

// DefaultDeribitConfig returns the default Deribit client configuration.
func DefaultDeribitConfig() DeribitConfig {
	return DeribitConfig{
		BaseURL:        "https://www.deribit.com/api/v2",
		RequestTimeout: 5 * time.Second,
		RequestsPerSec: 10,
		Burst:          5,
	}
}

// DeribitClient implements OptionsProvider against the Deribit public
// REST API.
type DeribitClient struct {
	config  DeribitConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  zerolog.Logger
}

// NewDeribitClient creates a new Deribit client.
func NewDeribitClient(cfg DeribitConfig, logger zerolog.Logger) *DeribitClient {
	return &DeribitClient{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		breaker: resilience.NewBreaker(deribitSource, resilience.DefaultBreakerConfig()),
		logger:  logging.WithComponent(logger, "deribit"),
	}
}

// envelope is the outer JSON-RPC-style wrapper on every Deribit response.
type envelope struct {
	Result json.RawMessage `json:"result"`
}

type indexPriceResult struct {
	IndexPrice float64 `json:"index_price"`
}

type instrumentPayload struct {
	InstrumentName      string  `json:"instrument_name"`
	Strike              float64 `json:"strike"`
	ExpirationTimestamp int64   `json:"expiration_timestamp"`
}

type tickerResult struct {
	BidIV  float64 `json:"bid_iv"`
	AskIV  float64 `json:"ask_iv"`
	MarkIV float64 `json:"mark_iv"`
}

// IndexPrice implements OptionsProvider.
func (c *DeribitClient) IndexPrice(ctx context.Context, asset string) (float64, error) {
	query := url.Values{}
	query.Set("index_name", strings.ToLower(asset)+"_usd")

	var result indexPriceResult
	if err := c.get(ctx, "/public/get_index_price", query, &result); err != nil {
		return 0, err
	}
	return result.IndexPrice, nil
}

// Instruments implements OptionsProvider. Only unexpired option
// contracts are requested.
func (c *DeribitClient) Instruments(ctx context.Context, asset string) ([]models.OptionQuote, error) {
	query := url.Values{}
	query.Set("currency", strings.ToUpper(asset))
	query.Set("kind", "option")
	query.Set("expired", "false")

	var payload []instrumentPayload
	if err := c.get(ctx, "/public/get_instruments", query, &payload); err != nil {
		return nil, err
	}

	quotes := make([]models.OptionQuote, 0, len(payload))
	for _, inst := range payload {
		quotes = append(quotes, models.OptionQuote{
			InstrumentID:    inst.InstrumentName,
			Strike:          inst.Strike,
			ExpiryTimestamp: inst.ExpirationTimestamp,
		})
	}
	return quotes, nil
}

// Ticker implements OptionsProvider.
func (c *DeribitClient) Ticker(ctx context.Context, instrumentID string) (*models.TickerQuote, error) {
	query := url.Values{}
	query.Set("instrument_name", instrumentID)

	var result tickerResult
	if err := c.get(ctx, "/public/ticker", query, &result); err != nil {
		return nil, err
	}
	return &models.TickerQuote{
		BidIV:  result.BidIV,
		AskIV:  result.AskIV,
		MarkIV: result.MarkIV,
	}, nil
}

// get performs a rate-limited, breaker-guarded GET and decodes the
// envelope's result field into out.
func (c *DeribitClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.NewUpstreamError(deribitSource, path, 0, err)
	}

	start := time.Now()
	err := c.breaker.Do(func() error {
		return c.fetch(ctx, path, query, out)
	})
	logging.LogUpstreamCall(c.logger, deribitSource, path, time.Since(start), err)

	if err != nil {
		if errors.Is(err, resilience.ErrBreakerOpen) {
			return errors.NewUpstreamError(deribitSource, path, 0, err)
		}
		return err
	}
	return nil
}

func (c *DeribitClient) fetch(ctx context.Context, path string, query url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", c.config.BaseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.NewUpstreamError(deribitSource, path, 0, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.NewUpstreamError(deribitSource, path, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewUpstreamError(deribitSource, path, resp.StatusCode, nil)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.NewUpstreamError(deribitSource, path, 0, err)
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return errors.NewUpstreamError(deribitSource, path, 0, err)
	}
	return nil
}
