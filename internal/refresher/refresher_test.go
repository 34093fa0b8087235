package refresher

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/pricer"
	"github.com/vadiminshakov/tradebook/internal/store"
	"github.com/vadiminshakov/tradebook/pkg/retry"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(store.NewMemory(), store.DefaultTables(), zap.NewNop())
	require.NoError(t, st.Bootstrap(context.Background()))
	return st
}

func seedPosition(t *testing.T, st *store.Store, exchange, symbol, net, avg string) {
	t.Helper()
	pair, err := entity.ParsePair(symbol)
	require.NoError(t, err)
	require.NoError(t, st.AppendPosition(context.Background(), entity.Position{
		Exchange:      exchange,
		Pair:          pair,
		NetAmount:     decimal.RequireFromString(net),
		AvgEntryPrice: decimal.RequireFromString(avg),
		LastUpdated:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
}

type failingPricer struct{}

func (failingPricer) FetchTickers(context.Context, []entity.Pair) (map[string]decimal.Decimal, error) {
	return nil, errors.New("exchange unreachable")
}

func TestRefresherUpdatesPriceFields(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedPosition(t, st, "binance", "BTC/USDT", "0.5", "40000")

	r := New(st, map[string]pricer.Pricer{
		"Binance": pricer.NewStatic(map[string]decimal.Decimal{
			"BTCUSDT": decimal.NewFromInt(42000),
		}),
	}, zap.NewNop())
	require.NoError(t, r.Run(ctx))

	positions, _, err := st.Positions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	require.True(t, decimal.NewFromInt(42000).Equal(p.CurrentPrice))
	require.True(t, decimal.NewFromInt(1000).Equal(p.UnrealizedPnl), "(42000-40000)*0.5")
	require.True(t, decimal.RequireFromString("0.5").Equal(p.NetAmount), "ledger-owned fields untouched")
	require.True(t, decimal.NewFromInt(40000).Equal(p.AvgEntryPrice))
}

func TestRefresherIsolatesFailingExchange(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedPosition(t, st, "binance", "BTC/USDT", "1", "100")
	seedPosition(t, st, "bybit", "ETH/USDT", "1", "50")

	r := New(st, map[string]pricer.Pricer{
		"binance": failingPricer{},
		"bybit": pricer.NewStatic(map[string]decimal.Decimal{
			"ETHUSDT": decimal.NewFromInt(60),
		}),
	}, zap.NewNop(), WithBackoff(retry.New(retry.WithAttempts(1))))
	require.NoError(t, r.Run(ctx), "one failing exchange does not abort the run")

	positions, _, err := st.Positions(ctx)
	require.NoError(t, err)
	for _, p := range positions {
		switch p.Exchange {
		case "binance":
			require.True(t, p.CurrentPrice.IsZero(), "failed exchange leaves its rows alone")
		case "bybit":
			require.True(t, decimal.NewFromInt(60).Equal(p.CurrentPrice))
			require.True(t, decimal.NewFromInt(10).Equal(p.UnrealizedPnl))
		}
	}
}

func TestRefresherSkipsUnknownExchangeAndMissingSymbol(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	seedPosition(t, st, "kraken", "BTC/USDT", "1", "100")
	seedPosition(t, st, "binance", "DOGE/USDT", "1", "100")

	r := New(st, map[string]pricer.Pricer{
		"binance": pricer.NewStatic(nil),
	}, zap.NewNop())
	require.NoError(t, r.Run(ctx))

	positions, _, err := st.Positions(ctx)
	require.NoError(t, err)
	for _, p := range positions {
		require.True(t, p.CurrentPrice.IsZero())
	}
}
