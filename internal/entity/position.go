package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the open-position projection for one (exchange, pair).
// NetAmount and AvgEntryPrice are owned by the ledger writer,
// CurrentPrice and UnrealizedPnl by the price refresher.
type Position struct {
	Row int

	Exchange      string
	Pair          Pair
	NetAmount     decimal.Decimal
	AvgEntryPrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	UnrealizedPnl decimal.Decimal
	LastUpdated   time.Time
}

// PositionKey identifies a position row.
type PositionKey struct {
	Exchange string
	Symbol   string
}

func (p Position) Key() PositionKey {
	return PositionKey{Exchange: p.Exchange, Symbol: p.Pair.String()}
}

// Pnl calculates unrealized profit for the given market price.
func (p Position) Pnl(currentPrice decimal.Decimal) decimal.Decimal {
	return currentPrice.Sub(p.AvgEntryPrice).Mul(p.NetAmount)
}
