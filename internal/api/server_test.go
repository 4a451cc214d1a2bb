package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"volwatch/internal/config"
	"volwatch/internal/errors"
	"volwatch/internal/expiry"
	"volwatch/internal/models"
	"volwatch/internal/tracking"
)

type stubOptions struct {
	spot    float64
	chain   []models.OptionQuote
	tickers map[string]models.TickerQuote
	err     error
}

func (s *stubOptions) IndexPrice(ctx context.Context, asset string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.spot, nil
}

func (s *stubOptions) Instruments(ctx context.Context, asset string) ([]models.OptionQuote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.chain, nil
}

func (s *stubOptions) Ticker(ctx context.Context, instrumentID string) (*models.TickerQuote, error) {
	ticker := s.tickers[instrumentID]
	return &ticker, nil
}

type stubPrice struct {
	kline models.Kline
}

func (s *stubPrice) DailyKline(ctx context.Context, asset string, dayStart time.Time) (*models.Kline, error) {
	k := s.kline
	return &k, nil
}

func newTestServer(opts *stubOptions) *Server {
	service := tracking.NewService(opts, &stubPrice{kline: models.Kline{High: 43000, Low: 41500, Open: 42100}}, "BTC", zerolog.Nop())
	return NewServer(config.ServerConfig{Addr: ":0"}, service, zerolog.Nop())
}

func healthyOptions() *stubOptions {
	weeklyExpiry, monthlyExpiry := expiry.ResolveExpiries(time.Now().UTC())
	return &stubOptions{
		spot: 42000,
		chain: []models.OptionQuote{
			{InstrumentID: "BTC-W", Strike: 42000, ExpiryTimestamp: weeklyExpiry.UnixMilli()},
			{InstrumentID: "BTC-M", Strike: 41000, ExpiryTimestamp: monthlyExpiry.UnixMilli()},
		},
		tickers: map[string]models.TickerQuote{
			"BTC-W": {BidIV: 48, AskIV: 52},
			"BTC-M": {BidIV: 54, AskIV: 58},
		},
	}
}

func doRequest(server *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) Response {
	t.Helper()
	var body Response
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&body))
	return body
}

func TestSnapshotBeforeFirstBuildIs503(t *testing.T) {
	server := newTestServer(healthyOptions())

	recorder := doRequest(server, http.MethodGet, "/api/v1/snapshot")

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	body := decodeResponse(t, recorder)
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}

func TestRefreshThenSnapshot(t *testing.T) {
	server := newTestServer(healthyOptions())

	recorder := doRequest(server, http.MethodPost, "/api/v1/snapshot/refresh")
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doRequest(server, http.MethodGet, "/api/v1/snapshot")
	assert.Equal(t, http.StatusOK, recorder.Code)

	body := decodeResponse(t, recorder)
	assert.True(t, body.Success)

	data := body.Data.(map[string]interface{})
	assert.Equal(t, 42000.0, data["spot_price"])
}

func TestRefreshUpstreamFailureIs502(t *testing.T) {
	opts := healthyOptions()
	opts.err = errors.NewUpstreamError("options", "/public/get_index_price", 503, nil)
	server := newTestServer(opts)

	recorder := doRequest(server, http.MethodPost, "/api/v1/snapshot/refresh")
	assert.Equal(t, http.StatusBadGateway, recorder.Code)
}

func TestRefreshMissingContractIs404(t *testing.T) {
	opts := healthyOptions()
	opts.chain = opts.chain[:1] // drop the monthly leg
	server := newTestServer(opts)

	recorder := doRequest(server, http.MethodPost, "/api/v1/snapshot/refresh")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestComparisonRecordsHistory(t *testing.T) {
	server := newTestServer(healthyOptions())

	require.Equal(t, http.StatusOK, doRequest(server, http.MethodPost, "/api/v1/snapshot/refresh").Code)

	recorder := doRequest(server, http.MethodGet, "/api/v1/comparison")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeResponse(t, recorder)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, 1500.0, data["actual_range"])

	recorder = doRequest(server, http.MethodGet, "/api/v1/history")
	require.Equal(t, http.StatusOK, recorder.Code)
	histBody := decodeResponse(t, recorder)
	histData := histBody.Data.(map[string]interface{})
	records := histData["records"].([]interface{})
	assert.Len(t, records, 1)
}

func TestHealthReflectsReadiness(t *testing.T) {
	server := newTestServer(healthyOptions())

	body := decodeResponse(t, doRequest(server, http.MethodGet, "/health"))
	data := body.Data.(map[string]interface{})
	assert.Equal(t, true, data["alive"])
	assert.Equal(t, false, data["ready"])

	doRequest(server, http.MethodPost, "/api/v1/snapshot/refresh")

	body = decodeResponse(t, doRequest(server, http.MethodGet, "/health"))
	data = body.Data.(map[string]interface{})
	assert.Equal(t, true, data["ready"])
}

func TestCORSHeadersPresent(t *testing.T) {
	server := newTestServer(healthyOptions())

	recorder := doRequest(server, http.MethodGet, "/api/v1/history")
	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))

	recorder = doRequest(server, http.MethodOptions, "/api/v1/snapshot")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestReferencesEndpoint(t *testing.T) {
	server := newTestServer(healthyOptions())

	recorder := doRequest(server, http.MethodGet, "/api/v1/references")
	require.Equal(t, http.StatusOK, recorder.Code)

	body := decodeResponse(t, recorder)
	assert.True(t, body.Success)
}
