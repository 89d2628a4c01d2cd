package accounting

import (
	"context"
	"fmt"

	"tally/internal/models"

	"github.com/shopspring/decimal"
)

// ChartData converts every stored entry into the target currency for the
// aggregate chart. Each non-target currency present in the ledger is
// resolved through the gateway exactly once per call; the resulting rate
// map lives only for this invocation, since rates may change between
// requests. If any required rate cannot be obtained the whole call fails,
// so the chart never mixes converted and unconverted magnitudes.
func (s *Service) ChartData(ctx context.Context, target models.Currency) ([]models.ConvertedEntry, error) {
	if target == "" {
		target = models.DefaultCurrency
	}

	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	if len(entries) == 0 {
		return []models.ConvertedEntry{}, nil
	}

	rates := map[models.Currency]decimal.Decimal{
		target: decimal.NewFromInt(1),
	}
	for _, e := range entries {
		if _, ok := rates[e.Currency]; ok {
			continue
		}
		rate, err := s.gateway.Rate(ctx, e.Currency, target)
		if err != nil {
			return nil, err
		}
		rates[e.Currency] = rate
	}

	converted := make([]models.ConvertedEntry, len(entries))
	for i, e := range entries {
		converted[i] = models.ConvertedEntry{
			ID:     e.ID,
			Date:   e.Date,
			Type:   e.Type,
			Amount: e.Amount.Mul(rates[e.Currency]),
		}
	}
	return converted, nil
}
