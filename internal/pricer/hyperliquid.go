package pricer

import (
	"context"

	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

// HyperliquidPricer fetches mid prices from the Hyperliquid public Info API.
// Mids are keyed by base coin, so every quote of one base maps to the same
// price.
type HyperliquidPricer struct {
	info *hyperliquid.Info
}

func NewHyperliquidPricer(info *hyperliquid.Info) *HyperliquidPricer {
	return &HyperliquidPricer{info: info}
}

func (p *HyperliquidPricer) FetchTickers(ctx context.Context, pairs []entity.Pair) (map[string]decimal.Decimal, error) {
	mids, err := p.info.AllMids(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(pairs))
	for _, pair := range pairs {
		mid, ok := mids[pair.Base]
		if !ok || mid == "" {
			continue
		}
		last, err := decimal.NewFromString(mid)
		if err != nil {
			continue
		}
		out[pair.Symbol()] = last
	}
	return out, nil
}
