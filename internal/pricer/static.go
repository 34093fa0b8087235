package pricer

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

// Static serves fixed prices, keyed by Pair.Symbol(). Used in tests and dry
// runs.
type Static struct {
	Prices map[string]decimal.Decimal
}

func NewStatic(prices map[string]decimal.Decimal) *Static {
	return &Static{Prices: prices}
}

func (s *Static) FetchTickers(_ context.Context, pairs []entity.Pair) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(pairs))
	for _, pair := range pairs {
		if last, ok := s.Prices[pair.Symbol()]; ok {
			out[pair.Symbol()] = last
		}
	}
	return out, nil
}
