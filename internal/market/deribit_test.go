package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volwatch/internal/errors"
)

func newTestDeribit(t *testing.T, handler http.HandlerFunc) *DeribitClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultDeribitConfig()
	cfg.BaseURL = server.URL
	cfg.RequestsPerSec = 1000
	cfg.Burst = 1000
	return NewDeribitClient(cfg, zerolog.Nop())
}

func TestDeribitIndexPrice(t *testing.T) {
	client := newTestDeribit(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/get_index_price", r.URL.Path)
		assert.Equal(t, "btc_usd", r.URL.Query().Get("index_name"))
		w.Write([]byte(`{"result": {"index_price": 42123.5}}`))
	})

	price, err := client.IndexPrice(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, 42123.5, price)
}

func TestDeribitInstruments(t *testing.T) {
	client := newTestDeribit(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/get_instruments", r.URL.Path)
		assert.Equal(t, "BTC", r.URL.Query().Get("currency"))
		assert.Equal(t, "option", r.URL.Query().Get("kind"))
		assert.Equal(t, "false", r.URL.Query().Get("expired"))
		w.Write([]byte(`{"result": [
			{"instrument_name": "BTC-29MAR24-42000-C", "strike": 42000, "expiration_timestamp": 1711699200000},
			{"instrument_name": "BTC-29MAR24-44000-C", "strike": 44000, "expiration_timestamp": 1711699200000}
		]}`))
	})

	quotes, err := client.Instruments(context.Background(), "BTC")
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "BTC-29MAR24-42000-C", quotes[0].InstrumentID)
	assert.Equal(t, 42000.0, quotes[0].Strike)
	assert.Equal(t, int64(1711699200000), quotes[0].ExpiryTimestamp)
}

func TestDeribitTicker(t *testing.T) {
	client := newTestDeribit(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/public/ticker", r.URL.Path)
		assert.Equal(t, "BTC-29MAR24-42000-C", r.URL.Query().Get("instrument_name"))
		w.Write([]byte(`{"result": {"bid_iv": 48.2, "ask_iv": 51.8, "mark_iv": 50.1}}`))
	})

	ticker, err := client.Ticker(context.Background(), "BTC-29MAR24-42000-C")
	require.NoError(t, err)
	assert.Equal(t, 48.2, ticker.BidIV)
	assert.Equal(t, 51.8, ticker.AskIV)
	assert.Equal(t, 50.1, ticker.MarkIV)
	assert.InDelta(t, 50.0, ticker.ATMIV(), 1e-9)
}

func TestDeribitNon2xxIsUpstreamUnavailable(t *testing.T) {
	client := newTestDeribit(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.IndexPrice(context.Background(), "BTC")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUpstreamUnavailable)

	var upstreamErr *errors.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.Equal(t, http.StatusBadGateway, upstreamErr.Status)
}

func TestDeribitTimeoutIsUpstreamUnavailable(t *testing.T) {
	client := newTestDeribit(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{"result": {"index_price": 42000}}`))
	})
	client.client.Timeout = 10 * time.Millisecond

	_, err := client.IndexPrice(context.Background(), "BTC")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUpstreamUnavailable)
}
