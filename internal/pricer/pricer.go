// Package pricer adapts exchange market-data APIs to the quote-source
// contract used by the price refresher.
package pricer

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

// Pricer fetches last-trade prices for a set of pairs on one exchange. The
// result is keyed by Pair.Symbol(); pairs the exchange does not know are
// simply absent from the map.
type Pricer interface {
	FetchTickers(ctx context.Context, pairs []entity.Pair) (map[string]decimal.Decimal, error)
}
