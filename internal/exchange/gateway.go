// Package exchange provides conversion rates between supported currencies
package exchange

import (
	"context"
	"fmt"

	"tally/internal/models"

	"github.com/shopspring/decimal"
)

// Gateway resolves a conversion rate between two currencies
type Gateway interface {
	// Rate returns the multiplier that converts an amount in the from
	// currency to the to currency. A failure to resolve the pair is
	// reported as a *RateError naming the source currency.
	Rate(ctx context.Context, from, to models.Currency) (decimal.Decimal, error)
}

// RateError reports that no rate could be obtained for a currency
type RateError struct {
	Currency models.Currency
	Err      error
}

func (e *RateError) Error() string {
	return fmt.Sprintf("rate unavailable for %s: %v", e.Currency, e.Err)
}

func (e *RateError) Unwrap() error {
	return e.Err
}
