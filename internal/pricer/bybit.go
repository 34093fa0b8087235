package pricer

import (
	"context"
	"fmt"

	"github.com/hirokisan/bybit/v2"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

type BybitPricer struct {
	client *bybit.Client
}

func NewBybitPricer(client *bybit.Client) *BybitPricer {
	return &BybitPricer{client: client}
}

func (p *BybitPricer) FetchTickers(_ context.Context, pairs []entity.Pair) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(pairs))
	for _, pair := range pairs {
		symbol := bybit.SymbolV5(pair.Symbol())

		result, err := p.client.V5().Market().GetTickers(bybit.V5GetTickersParam{
			Category: bybit.CategoryV5Spot,
			Symbol:   &symbol,
		})
		if err != nil {
			return nil, err
		}
		if len(result.Result.Spot.List) == 0 {
			return nil, fmt.Errorf("bybit API returned empty prices for %s", pair.String())
		}

		last, err := decimal.NewFromString(result.Result.Spot.List[0].LastPrice)
		if err != nil {
			return nil, err
		}
		out[pair.Symbol()] = last
	}
	return out, nil
}
