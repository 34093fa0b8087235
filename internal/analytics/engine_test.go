package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/fifo"
	"github.com/vadiminshakov/tradebook/internal/ledger"
	"github.com/vadiminshakov/tradebook/internal/store"
)

func newTestEngine(t *testing.T, tzOffsetHours int) (*Engine, *ledger.Ledger, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemory(), store.DefaultTables(), zap.NewNop())
	require.NoError(t, st.Bootstrap(context.Background()))
	matcher := fifo.NewMatcher(st, zap.NewNop())
	return NewEngine(st, matcher, zap.NewNop(), tzOffsetHours), ledger.New(st, nil, zap.NewNop()), st
}

func TestEngineDepositBuySell(t *testing.T) {
	e, l, st := newTestEngine(t, 0)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := l.LogMovement(ctx, ledger.MovementRequest{
		Type:        entity.MovementTypeDeposit,
		Asset:       "USDT",
		Amount:      decimal.NewFromInt(1000),
		Source:      entity.ExternalAccount,
		Destination: "binance",
		Timestamp:   t0,
	})
	require.NoError(t, err)

	_, err = l.LogTrade(ctx, ledger.TradeRequest{
		Type: entity.TradeTypeBuy, Exchange: "binance", Symbol: "BTC/USDT",
		Amount: decimal.RequireFromString("0.5"), Price: decimal.NewFromInt(1000),
		Timestamp: t0.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = l.LogTrade(ctx, ledger.TradeRequest{
		Type: entity.TradeTypeSell, Exchange: "binance", Symbol: "BTC/USDT",
		Amount: decimal.RequireFromString("0.5"), Price: decimal.NewFromInt(1400),
		Timestamp: t0.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	snap, err := e.Run(ctx)
	require.NoError(t, err)

	require.True(t, decimal.NewFromInt(200).Equal(snap.RealizedPnl), "(1400-1000)*0.5")
	require.True(t, snap.UnrealizedPnl.IsZero())
	require.True(t, decimal.NewFromInt(200).Equal(snap.NetPnl))
	require.Equal(t, 1, snap.ClosedTrades)
	require.Equal(t, 1, snap.WinningTrades)
	require.Zero(t, snap.LosingTrades)
	require.True(t, decimal.NewFromInt(100).Equal(snap.WinRate))
	require.True(t, decimal.NewFromInt(200).Equal(snap.AvgWin))
	require.True(t, snap.AvgLoss.IsZero())
	require.Equal(t, entity.ProfitFactorInfinity, snap.ProfitFactor)
	require.True(t, decimal.NewFromInt(1000).Equal(snap.NetInvested))
	require.True(t, decimal.NewFromInt(1200).Equal(snap.TotalEquity))

	// the run must not disturb the event log
	rows, parseErrs, err := st.Trades(ctx)
	require.NoError(t, err)
	require.Empty(t, parseErrs)
	require.Len(t, rows, 2)
}

func TestEngineMixedWinsAndLosses(t *testing.T) {
	e, l, _ := newTestEngine(t, 0)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := l.LogMovement(ctx, ledger.MovementRequest{
		Type: entity.MovementTypeDeposit, Asset: "USDT",
		Amount: decimal.NewFromInt(10000), Destination: "binance", Timestamp: t0,
	})
	require.NoError(t, err)

	steps := []struct {
		tradeType entity.TradeType
		amount    string
		price     int64
	}{
		{entity.TradeTypeBuy, "1", 1000},
		{entity.TradeTypeSell, "1", 1300}, // +300
		{entity.TradeTypeBuy, "1", 2000},
		{entity.TradeTypeSell, "1", 1900}, // -100
	}
	for i, s := range steps {
		_, err := l.LogTrade(ctx, ledger.TradeRequest{
			Type: s.tradeType, Exchange: "binance", Symbol: "ETH/USDT",
			Amount: decimal.RequireFromString(s.amount), Price: decimal.NewFromInt(s.price),
			Timestamp: t0.Add(time.Duration(i+1) * time.Hour),
		})
		require.NoError(t, err)
	}

	snap, err := e.Run(ctx)
	require.NoError(t, err)

	require.Equal(t, 2, snap.ClosedTrades)
	require.Equal(t, 1, snap.WinningTrades)
	require.Equal(t, 1, snap.LosingTrades)
	require.True(t, decimal.NewFromInt(200).Equal(snap.RealizedPnl))
	require.True(t, decimal.NewFromInt(50).Equal(snap.WinRate))
	require.True(t, decimal.NewFromInt(300).Equal(snap.AvgWin))
	require.True(t, decimal.NewFromInt(-100).Equal(snap.AvgLoss))
	require.Equal(t, "3", snap.ProfitFactor, "300/|-100|")
}

func TestEngineOpenPositionContributes(t *testing.T) {
	e, l, st := newTestEngine(t, 0)
	ctx := context.Background()
	t0 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	_, err := l.LogMovement(ctx, ledger.MovementRequest{
		Type: entity.MovementTypeDeposit, Asset: "USDT",
		Amount: decimal.NewFromInt(1000), Destination: "binance", Timestamp: t0,
	})
	require.NoError(t, err)

	_, err = l.LogTrade(ctx, ledger.TradeRequest{
		Type: entity.TradeTypeBuy, Exchange: "binance", Symbol: "BTC/USDT",
		Amount: decimal.NewFromInt(1), Price: decimal.NewFromInt(500),
		Timestamp: t0.Add(time.Hour),
	})
	require.NoError(t, err)

	// simulate a refresher pass that marked the position up
	positions, _, err := st.Positions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	positions[0].CurrentPrice = decimal.NewFromInt(600)
	positions[0].UnrealizedPnl = positions[0].Pnl(positions[0].CurrentPrice)
	require.NoError(t, st.UpdatePosition(ctx, positions[0]))

	snap, err := e.Run(ctx)
	require.NoError(t, err)

	require.True(t, snap.RealizedPnl.IsZero())
	require.True(t, decimal.NewFromInt(100).Equal(snap.UnrealizedPnl))
	require.True(t, decimal.NewFromInt(600).Equal(snap.PortfolioValue))
	require.True(t, decimal.NewFromInt(1100).Equal(snap.TotalEquity))
	require.Equal(t, entity.ProfitFactorInfinity, snap.ProfitFactor, "no closed lots, no losses")
}

func TestEngineSnapshotTimezone(t *testing.T) {
	e, _, _ := newTestEngine(t, 3)
	snap, err := e.Run(context.Background())
	require.NoError(t, err)

	_, offset := snap.DateGenerated.Zone()
	require.Equal(t, 3*3600, offset)
}
