package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FifoLog is one closed lot: a SELL fill matched against a prior BUY fill.
// Append-only.
type FifoLog struct {
	Row int

	Pair            Pair
	BuyTradeID      string
	SellTradeID     string
	MatchedQty      decimal.Decimal
	BuyPrice        decimal.Decimal
	SellPrice       decimal.Decimal
	Pnl             decimal.Decimal
	TimestampClosed time.Time
	BuyTimestamp    time.Time
	Exchange        string
}
