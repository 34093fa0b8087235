package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProfitFactorInfinity is stored when there are closed lots but no losses.
const ProfitFactorInfinity = "Infinity"

// AnalyticsSnapshot is one dated row of portfolio-wide derived metrics.
type AnalyticsSnapshot struct {
	Row int

	RealizedPnl      decimal.Decimal
	UnrealizedPnl    decimal.Decimal
	NetPnl           decimal.Decimal
	ClosedTrades     int
	WinningTrades    int
	LosingTrades     int
	WinRate          decimal.Decimal
	AvgWin           decimal.Decimal
	AvgLoss          decimal.Decimal
	ProfitFactor     string
	TotalCommissions decimal.Decimal
	NetInvested      decimal.Decimal
	PortfolioValue   decimal.Decimal
	TotalEquity      decimal.Decimal
	DateGenerated    time.Time
}
