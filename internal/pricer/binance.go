package pricer

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

type BinancePricer struct {
	client *binance.Client
}

func NewBinancePricer(client *binance.Client) *BinancePricer {
	return &BinancePricer{client: client}
}

func (p *BinancePricer) FetchTickers(ctx context.Context, pairs []entity.Pair) (map[string]decimal.Decimal, error) {
	symbols := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		symbols = append(symbols, pair.Symbol())
	}

	prices, err := p.client.NewListPricesService().Symbols(symbols).Do(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]decimal.Decimal, len(prices))
	for _, sp := range prices {
		last, err := decimal.NewFromString(sp.Price)
		if err != nil {
			continue
		}
		out[sp.Symbol] = last
	}
	return out, nil
}
