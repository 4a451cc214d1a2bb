package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"volwatch/internal/errors"
	"volwatch/internal/logging"
	"volwatch/internal/models"
	"volwatch/internal/resilience"
)

const binanceSource = "price"

// BinanceConfig holds Binance kline client configuration.
type BinanceConfig struct {
	BaseURL        string
	QuoteCurrency  string
	RequestTimeout time.Duration
	RequestsPerSec float64
	Burst          int
}

// DefaultBinanceConfig returns the default Binance client configuration.
func DefaultBinanceConfig() BinanceConfig {
	return BinanceConfig{
		BaseURL:        "https://api.binance.com",
		QuoteCurrency:  "USDT",
		RequestTimeout: 5 * time.Second,
		RequestsPerSec: 5,
		Burst:          2,
	}
}

// BinanceClient implements PriceProvider against the Binance public
// klines endpoint.
type BinanceClient struct {
	config  BinanceConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  zerolog.Logger
}

// NewBinanceClient creates a new Binance kline client.
func NewBinanceClient(cfg BinanceConfig, logger zerolog.Logger) *BinanceClient {
	return &BinanceClient{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		breaker: resilience.NewBreaker(binanceSource, resilience.DefaultBreakerConfig()),
		logger:  logging.WithComponent(logger, "binance"),
	}
}

// DailyKline implements PriceProvider. It requests the single 1d candle
// opening at dayStart (UTC midnight).
func (c *BinanceClient) DailyKline(ctx context.Context, asset string, dayStart time.Time) (*models.Kline, error) {
	const path = "/api/v3/klines"

	query := url.Values{}
	query.Set("symbol", strings.ToUpper(asset)+c.config.QuoteCurrency)
	query.Set("interval", "1d")
	query.Set("startTime", strconv.FormatInt(dayStart.UTC().UnixMilli(), 10))
	query.Set("limit", "1")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.NewUpstreamError(binanceSource, path, 0, err)
	}

	var kline *models.Kline
	start := time.Now()
	err := c.breaker.Do(func() error {
		var fetchErr error
		kline, fetchErr = c.fetch(ctx, path, query)
		return fetchErr
	})
	logging.LogUpstreamCall(c.logger, binanceSource, path, time.Since(start), err)

	if err != nil {
		if errors.Is(err, resilience.ErrBreakerOpen) {
			return nil, errors.NewUpstreamError(binanceSource, path, 0, err)
		}
		return nil, err
	}
	return kline, nil
}

func (c *BinanceClient) fetch(ctx context.Context, path string, query url.Values) (*models.Kline, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.config.BaseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.NewUpstreamError(binanceSource, path, 0, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewUpstreamError(binanceSource, path, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewUpstreamError(binanceSource, path, resp.StatusCode, nil)
	}

	// Each kline row is a heterogeneous array; prices arrive as quoted
	// decimal strings at fixed positions.
	var rows [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, errors.NewUpstreamError(binanceSource, path, 0, err)
	}
	if len(rows) == 0 || len(rows[0]) < 4 {
		return nil, errors.NewUpstreamError(binanceSource, path, 0,
			fmt.Errorf("empty kline response"))
	}

	open, err := decodePrice(rows[0][1])
	if err != nil {
		return nil, errors.NewUpstreamError(binanceSource, path, 0, err)
	}
	high, err := decodePrice(rows[0][2])
	if err != nil {
		return nil, errors.NewUpstreamError(binanceSource, path, 0, err)
	}
	low, err := decodePrice(rows[0][3])
	if err != nil {
		return nil, errors.NewUpstreamError(binanceSource, path, 0, err)
	}

	return &models.Kline{High: high, Low: low, Open: open}, nil
}

func decodePrice(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("decoding kline price: %w", err)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing kline price %q: %w", s, err)
	}
	return v, nil
}
