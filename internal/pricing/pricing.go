package pricing

import (
	"fmt"
	"math"
	"math/rand/v2"

	"fabworks-backend/internal/model"
)

// Delivery windows quoted per service category.
const (
	Delivery3DPrinting   = "2-3 days"
	DeliveryLaserCutting = "1-2 days"
)

const quoteIDPrefix = "QT"
const orderIDPrefix = "FI"

const quoteIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Estimate computes the quoted price for a job: the catalog base price times
// quantity, scaled by a uniform random factor in [1, 6) and floored to a
// whole amount. The factor is a placeholder heuristic, so re-quoting the
// same request yields a different price.
func Estimate(basePrice float64, quantity int) float64 {
	factor := 1 + rand.Float64()*5
	return math.Floor(basePrice * float64(quantity) * factor)
}

// DeliveryTime returns the quoted delivery window for a service category.
func DeliveryTime(serviceType string) string {
	if serviceType == model.Category3DPrinting {
		return Delivery3DPrinting
	}
	return DeliveryLaserCutting
}

// NewQuoteID generates a candidate human-readable quote code. Uniqueness is
// enforced at insert time by the quote_id unique index, with the caller
// retrying on conflict.
func NewQuoteID() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = quoteIDAlphabet[rand.IntN(len(quoteIDAlphabet))]
	}
	return quoteIDPrefix + string(b)
}

// FormatOrderID renders an allocated order sequence number as the
// human-readable order code.
func FormatOrderID(n int64) string {
	return fmt.Sprintf("%s%03d", orderIDPrefix, n)
}
