package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeType string

const (
	TradeTypeBuy  TradeType = "BUY"
	TradeTypeSell TradeType = "SELL"
)

func (t TradeType) Valid() bool {
	return t == TradeTypeBuy || t == TradeTypeSell
}

// Epsilon is the quantity below which a position is considered flat.
var Epsilon = decimal.New(1, -8)

// Trade is a single fill recorded in the event log. Amount is in base-asset
// units, Price in quote per base. FifoConsumedQty and FifoSellProcessed are
// projection fields owned by the FIFO matcher.
type Trade struct {
	Row int

	ID              string
	Timestamp       time.Time
	Exchange        string
	Pair            Pair
	Type            TradeType
	Amount          decimal.Decimal
	Price           decimal.Decimal
	TotalQuote      decimal.Decimal
	Commission      decimal.Decimal
	CommissionAsset string
	OrderID         string
	Notes           string
	StopLoss        decimal.Decimal
	TakeProfit1     decimal.Decimal
	TakeProfit2     decimal.Decimal
	TakeProfit3     decimal.Decimal

	FifoConsumedQty   decimal.Decimal
	FifoSellProcessed bool
}

// AvailableLot returns the unconsumed quantity of a BUY trade.
func (t Trade) AvailableLot() decimal.Decimal {
	return t.Amount.Sub(t.FifoConsumedQty)
}
