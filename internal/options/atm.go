// Package options provides at-the-money contract selection and
// implied-move calculations.
package options

import (
	"math"
	"time"

	"volwatch/internal/errors"
	"volwatch/internal/models"
)

// SelectATM picks, among quotes expiring exactly at targetExpiry, the one
// whose strike is closest to spot. Ties keep the first-encountered quote;
// the tie-break depends on input order but the minimal distance does not.
// Returns ErrNoContract when no quote matches the target expiry.
func SelectATM(chain []models.OptionQuote, targetExpiry time.Time, spot float64) (models.OptionQuote, error) {
	targetMillis := targetExpiry.UTC().UnixMilli()

	var best models.OptionQuote
	bestDist := math.Inf(1)
	found := false

	for _, quote := range chain {
		if quote.ExpiryTimestamp != targetMillis {
			continue
		}
		dist := math.Abs(quote.Strike - spot)
		if dist < bestDist {
			best = quote
			bestDist = dist
			found = true
		}
	}

	if !found {
		return models.OptionQuote{}, errors.ErrNoContract
	}
	return best, nil
}
