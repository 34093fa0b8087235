// Package analytics recomputes portfolio-wide metrics from the authoritative
// event tables and appends a dated snapshot.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/fifo"
	"github.com/vadiminshakov/tradebook/internal/store"
)

// lotMatcher runs the FIFO matcher so the closed-lot history is current
// before metrics are computed.
type lotMatcher interface {
	Run(ctx context.Context) (fifo.Result, error)
}

type Engine struct {
	store   *store.Store
	matcher lotMatcher
	log     *zap.Logger
	zone    *time.Location
}

// NewEngine creates an analytics engine. tzOffsetHours is the fixed UTC
// offset used for snapshot timestamps.
func NewEngine(st *store.Store, matcher lotMatcher, log *zap.Logger, tzOffsetHours int) *Engine {
	return &Engine{
		store:   st,
		matcher: matcher,
		log:     log,
		zone:    time.FixedZone(fmt.Sprintf("UTC%+d", tzOffsetHours), tzOffsetHours*3600),
	}
}

var hundred = decimal.NewFromInt(100)

// Run recomputes every metric and appends one snapshot row. It is
// deterministic for fixed input tables apart from the generation timestamp.
func (e *Engine) Run(ctx context.Context) (entity.AnalyticsSnapshot, error) {
	trades, _, err := e.store.Trades(ctx)
	if err != nil {
		return entity.AnalyticsSnapshot{}, err
	}
	positions, _, err := e.store.Positions(ctx)
	if err != nil {
		return entity.AnalyticsSnapshot{}, err
	}
	movements, _, err := e.store.Movements(ctx)
	if err != nil {
		return entity.AnalyticsSnapshot{}, err
	}

	if _, err := e.matcher.Run(ctx); err != nil {
		return entity.AnalyticsSnapshot{}, err
	}

	lots, _, err := e.store.FifoLogs(ctx)
	if err != nil {
		return entity.AnalyticsSnapshot{}, err
	}

	snap := entity.AnalyticsSnapshot{DateGenerated: time.Now().In(e.zone)}

	var sumWins, sumLosses decimal.Decimal
	for _, lot := range lots {
		snap.ClosedTrades++
		snap.RealizedPnl = snap.RealizedPnl.Add(lot.Pnl)
		switch {
		case lot.Pnl.IsPositive():
			snap.WinningTrades++
			sumWins = sumWins.Add(lot.Pnl)
		case lot.Pnl.IsNegative():
			snap.LosingTrades++
			sumLosses = sumLosses.Add(lot.Pnl)
		}
	}

	if snap.ClosedTrades > 0 {
		snap.WinRate = decimal.NewFromInt(int64(snap.WinningTrades)).
			Div(decimal.NewFromInt(int64(snap.ClosedTrades))).Mul(hundred)
	}
	if snap.WinningTrades > 0 {
		snap.AvgWin = sumWins.Div(decimal.NewFromInt(int64(snap.WinningTrades)))
	}
	if snap.LosingTrades > 0 {
		snap.AvgLoss = sumLosses.Div(decimal.NewFromInt(int64(snap.LosingTrades)))
	}
	if sumLosses.IsZero() {
		snap.ProfitFactor = entity.ProfitFactorInfinity
	} else {
		snap.ProfitFactor = sumWins.Div(sumLosses.Abs()).String()
	}

	for _, p := range positions {
		snap.UnrealizedPnl = snap.UnrealizedPnl.Add(p.UnrealizedPnl)
		snap.PortfolioValue = snap.PortfolioValue.Add(p.NetAmount.Mul(p.CurrentPrice))
	}
	snap.NetPnl = snap.RealizedPnl.Add(snap.UnrealizedPnl)

	for _, t := range trades {
		snap.TotalCommissions = snap.TotalCommissions.Add(t.Commission)
	}

	for _, m := range movements {
		switch m.Type {
		case entity.MovementTypeDeposit:
			snap.NetInvested = snap.NetInvested.Add(m.Amount)
		case entity.MovementTypeWithdrawal:
			snap.NetInvested = snap.NetInvested.Sub(m.Amount)
		}
	}

	snap.TotalEquity = snap.NetInvested.Add(snap.NetPnl)

	if err := e.store.AppendAnalytics(ctx, snap); err != nil {
		return entity.AnalyticsSnapshot{}, err
	}

	e.log.Info("analytics snapshot written",
		zap.String("realized_pnl", snap.RealizedPnl.String()),
		zap.String("net_pnl", snap.NetPnl.String()),
		zap.Int("closed_trades", snap.ClosedTrades),
		zap.String("total_equity", snap.TotalEquity.String()))
	return snap, nil
}
