package models

// OptionQuote is an observed option contract at a point in time, as
// reported by the options-market source.
type OptionQuote struct {
	InstrumentID    string  `json:"instrument_id"`
	Strike          float64 `json:"strike"`
	ExpiryTimestamp int64   `json:"expiry_timestamp"` // UTC epoch millis
}

// TickerQuote holds the implied-volatility quotes for one contract.
// All IV values are annualized percentages.
type TickerQuote struct {
	BidIV  float64 `json:"bid_iv"`
	AskIV  float64 `json:"ask_iv"`
	MarkIV float64 `json:"mark_iv"`
}

// ATMIV returns the at-the-money IV: the bid/ask midpoint when both sides
// are quoted, otherwise the mark IV.
func (t TickerQuote) ATMIV() float64 {
	if t.BidIV > 0 && t.AskIV > 0 {
		return (t.BidIV + t.AskIV) / 2
	}
	return t.MarkIV
}

// OptionMetrics is derived from an OptionQuote plus a spot price and an
// as-of time. Computed once per snapshot build, immutable thereafter.
type OptionMetrics struct {
	InstrumentID            string  `json:"instrument_id"`
	Strike                  float64 `json:"strike"`
	ExpiryTimestamp         int64   `json:"expiry_timestamp"`
	ATMIV                   float64 `json:"atm_iv"`
	HoursToExpiry           float64 `json:"hours_to_expiry"`
	DaysToExpiry            float64 `json:"days_to_expiry"`
	ImpliedMove             float64 `json:"implied_move"`
	ImpliedMovePercent      float64 `json:"implied_move_percent"`
	ImpliedDailyMove        float64 `json:"implied_daily_move"`
	ImpliedDailyMovePercent float64 `json:"implied_daily_move_percent"`
}
