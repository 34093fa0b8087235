package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

func newTestStore(t *testing.T, opts ...Option) (*Store, *Memory) {
	t.Helper()
	drv := NewMemory()
	st := New(drv, DefaultTables(), zap.NewNop(), opts...)
	require.NoError(t, st.Bootstrap(context.Background()))
	return st, drv
}

func testTrade(id string, tradeType entity.TradeType, amount, price string, at time.Time) entity.Trade {
	pair, _ := entity.ParsePair("BTC/USDT")
	return entity.Trade{
		ID:        id,
		Timestamp: at,
		Exchange:  "binance",
		Pair:      pair,
		Type:      tradeType,
		Amount:    decimal.RequireFromString(amount),
		Price:     decimal.RequireFromString(price),
	}
}

func TestStoreTradeRoundTrip(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	in := testTrade("t-1", entity.TradeTypeBuy, "0.5", "40000", at)
	in.Commission = decimal.RequireFromString("0.0005")
	in.CommissionAsset = "BTC"
	in.Notes = "first buy"
	require.NoError(t, st.AppendTrade(ctx, in))

	trades, parseErrs, err := st.Trades(ctx)
	require.NoError(t, err)
	require.Empty(t, parseErrs)
	require.Len(t, trades, 1)

	got := trades[0]
	require.Equal(t, 2, got.Row, "first data row sits under the header")
	require.Equal(t, "t-1", got.ID)
	require.True(t, at.Equal(got.Timestamp))
	require.Equal(t, "BTC/USDT", got.Pair.String())
	require.True(t, in.Amount.Equal(got.Amount))
	require.True(t, in.Price.Equal(got.Price))
	require.True(t, in.Amount.Mul(in.Price).Equal(got.TotalQuote), "total defaults to amount*price")
	require.True(t, in.Commission.Equal(got.Commission))
	require.Equal(t, "first buy", got.Notes)
	require.False(t, got.FifoSellProcessed)
}

func TestStoreSkipsUnparsableRows(t *testing.T) {
	st, drv := newTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.AppendTrade(ctx, testTrade("t-1", entity.TradeTypeBuy, "1", "100", at)))

	// a row with a broken amount and a fully empty row
	broken := make([]string, len(tradeCanonicalHeader))
	broken[0], broken[1], broken[2], broken[3], broken[4] = "t-bad", "2026-01-10 12:00:00", "binance", "BTC/USDT", "BUY"
	broken[5], broken[6] = "not-a-number", "100"
	require.NoError(t, drv.Append(ctx, DefaultTables().Trades, broken))
	require.NoError(t, drv.Append(ctx, DefaultTables().Trades, make([]string, len(tradeCanonicalHeader))))
	st.Invalidate(DefaultTables().Trades)

	trades, parseErrs, err := st.Trades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 1, "only the valid row survives")
	require.Len(t, parseErrs, 1, "the empty row is skipped silently")
}

func TestStoreHeaderAliases(t *testing.T) {
	drv := NewMemory()
	tables := DefaultTables()
	ctx := context.Background()

	// legacy sheet with alias column labels in a shuffled order
	require.NoError(t, drv.EnsureTable(ctx, tables.Trades, []string{
		"Date", "ID", "Side", "Pair", "Qty", "Entry_Price", "Venue",
	}))
	require.NoError(t, drv.Append(ctx, tables.Trades, []string{
		"2026-01-10 12:00:00", "t-1", "BUY", "ETH/USDT", "2,5", "1800,50", "bybit",
	}))

	st := New(drv, tables, zap.NewNop())
	trades, parseErrs, err := st.Trades(ctx)
	require.NoError(t, err)
	require.Empty(t, parseErrs)
	require.Len(t, trades, 1)
	require.Equal(t, "ETH/USDT", trades[0].Pair.String())
	require.Equal(t, "bybit", trades[0].Exchange)
	require.True(t, decimal.RequireFromString("2.5").Equal(trades[0].Amount))
	require.True(t, decimal.RequireFromString("1800.5").Equal(trades[0].Price))
}

func TestStoreMissingRequiredColumn(t *testing.T) {
	drv := NewMemory()
	tables := DefaultTables()
	ctx := context.Background()

	require.NoError(t, drv.EnsureTable(ctx, tables.Trades, []string{"trade_id", "timestamp", "exchange"}))

	st := New(drv, tables, zap.NewNop())
	_, _, err := st.Trades(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "symbol")
}

func TestStoreCacheTTLAndInvalidation(t *testing.T) {
	st, drv := newTestStore(t, WithCacheTTL(time.Hour))
	ctx := context.Background()
	tables := DefaultTables()

	trades, _, err := st.Trades(ctx)
	require.NoError(t, err)
	require.Empty(t, trades)

	// an out-of-band write is invisible while the cache is warm
	at := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	h, err := buildHeader(tradeCanonicalHeader, tradeAliases, tradeRequired)
	require.NoError(t, err)
	require.NoError(t, drv.Append(ctx, tables.Trades, encodeTrade(h, testTrade("t-hidden", entity.TradeTypeBuy, "1", "10", at))))

	trades, _, err = st.Trades(ctx)
	require.NoError(t, err)
	require.Empty(t, trades, "cached read does not see the out-of-band write")

	// a write through the store invalidates and the next read is fresh
	require.NoError(t, st.AppendTrade(ctx, testTrade("t-own", entity.TradeTypeSell, "1", "20", at)))
	trades, _, err = st.Trades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 2, "own write is immediately visible and drags the hidden row in")

	st.Invalidate(tables.Trades)
	trades, _, err = st.Trades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 2)
}

func TestStoreBatchUpdateTrades(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	at := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.AppendTrade(ctx, testTrade("t-1", entity.TradeTypeBuy, "1", "100", at)))
	require.NoError(t, st.AppendTrade(ctx, testTrade("t-2", entity.TradeTypeBuy, "2", "110", at.Add(time.Minute))))

	trades, _, err := st.Trades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, 2)

	trades[0].FifoConsumedQty = decimal.RequireFromString("0.4")
	trades[1].FifoConsumedQty = decimal.RequireFromString("2")
	require.NoError(t, st.BatchUpdateTrades(ctx, trades))

	got, _, err := st.Trades(ctx)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("0.4").Equal(got[0].FifoConsumedQty))
	require.True(t, decimal.RequireFromString("0.6").Equal(got[0].AvailableLot()))
	require.True(t, got[1].AvailableLot().IsZero())
}

func TestStorePositionLifecycle(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()
	pair, _ := entity.ParsePair("BTC/USDT")

	pos := entity.Position{
		Exchange:      "binance",
		Pair:          pair,
		NetAmount:     decimal.RequireFromString("0.5"),
		AvgEntryPrice: decimal.RequireFromString("40000"),
		LastUpdated:   time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.AppendPosition(ctx, pos))

	positions, _, err := st.Positions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	require.Equal(t, 2, positions[0].Row)

	positions[0].NetAmount = decimal.RequireFromString("0.75")
	require.NoError(t, st.UpdatePosition(ctx, positions[0]))

	positions, _, err = st.Positions(ctx)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("0.75").Equal(positions[0].NetAmount))

	require.NoError(t, st.DeletePosition(ctx, positions[0].Row))
	positions, _, err = st.Positions(ctx)
	require.NoError(t, err)
	require.Empty(t, positions)
}

func TestStoreSystemStatusUpsert(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	status, err := st.SystemStatus(ctx)
	require.NoError(t, err)
	require.Zero(t, status.Row, "no status recorded yet")

	at := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.WriteSystemStatus(ctx, entity.SystemStatus{Status: entity.StatusOK, LastRun: at}))

	status, err = st.SystemStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.StatusOK, status.Status)
	require.Equal(t, 2, status.Row)

	require.NoError(t, st.WriteSystemStatus(ctx, entity.SystemStatus{
		Row: status.Row, Status: entity.StatusError, LastRun: at.Add(time.Minute), Message: "boom",
	}))

	status, err = st.SystemStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, entity.StatusError, status.Status)
	require.Equal(t, "boom", status.Message)
	require.Equal(t, 2, status.Row, "status stays a single row")
}
