package ledger

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

func TestLogMovementValidation(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  MovementRequest
	}{
		{"unknown type", MovementRequest{Type: "LOAN", Asset: "USDT", Amount: decimal.NewFromInt(1)}},
		{"zero amount", MovementRequest{Type: entity.MovementTypeDeposit, Asset: "USDT", Destination: "binance"}},
		{"empty asset", MovementRequest{Type: entity.MovementTypeDeposit, Amount: decimal.NewFromInt(1), Destination: "binance"}},
		{"deposit without destination", MovementRequest{Type: entity.MovementTypeDeposit, Asset: "USDT", Amount: decimal.NewFromInt(1)}},
		{"withdrawal without source", MovementRequest{Type: entity.MovementTypeWithdrawal, Asset: "USDT", Amount: decimal.NewFromInt(1)}},
		{"transfer without endpoints", MovementRequest{Type: entity.MovementTypeTransfer, Asset: "USDT", Amount: decimal.NewFromInt(1), Source: "binance"}},
		{"transfer to itself", MovementRequest{Type: entity.MovementTypeTransfer, Asset: "USDT", Amount: decimal.NewFromInt(1), Source: "binance", Destination: "binance"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := l.LogMovement(ctx, tc.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLogMovementDepositAndWithdrawal(t *testing.T) {
	l, st := newTestLedger(t)
	ctx := context.Background()

	deposit(t, l, "binance", "USDT", "1000")
	require.True(t, decimal.NewFromInt(1000).Equal(balanceOf(t, st, "binance", "USDT")))

	_, err := l.LogMovement(ctx, MovementRequest{
		Type:        entity.MovementTypeWithdrawal,
		Asset:       "USDT",
		Amount:      decimal.NewFromInt(300),
		Source:      "binance",
		Destination: entity.ExternalAccount,
	})
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(700).Equal(balanceOf(t, st, "binance", "USDT")))

	_, err = l.LogMovement(ctx, MovementRequest{
		Type:   entity.MovementTypeWithdrawal,
		Asset:  "USDT",
		Amount: decimal.NewFromInt(701),
		Source: "binance",
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.True(t, decimal.NewFromInt(700).Equal(balanceOf(t, st, "binance", "USDT")),
		"rejected withdrawal leaves the balance untouched")

	movements, _, err := st.Movements(ctx)
	require.NoError(t, err)
	require.Len(t, movements, 2)
}

func TestLogMovementTransferConservation(t *testing.T) {
	l, st := newTestLedger(t)
	ctx := context.Background()

	deposit(t, l, "binance", "USDT", "1000")

	_, err := l.LogMovement(ctx, MovementRequest{
		Type:        entity.MovementTypeTransfer,
		Asset:       "USDT",
		Amount:      decimal.NewFromInt(400),
		Source:      "binance",
		Destination: "bybit",
	})
	require.NoError(t, err)

	src := balanceOf(t, st, "binance", "USDT")
	dst := balanceOf(t, st, "bybit", "USDT")
	require.True(t, decimal.NewFromInt(600).Equal(src))
	require.True(t, decimal.NewFromInt(400).Equal(dst))
	require.True(t, decimal.NewFromInt(1000).Equal(src.Add(dst)), "transfer conserves total funds")
}

func TestLogMovementFeeDebitsSource(t *testing.T) {
	l, st := newTestLedger(t)
	ctx := context.Background()

	deposit(t, l, "binance", "USDT", "1000")
	deposit(t, l, "binance", "BNB", "1")

	_, err := l.LogMovement(ctx, MovementRequest{
		Type:        entity.MovementTypeTransfer,
		Asset:       "USDT",
		Amount:      decimal.NewFromInt(100),
		Source:      "binance",
		Destination: "cold-wallet",
		FeeAmount:   decimal.RequireFromString("0.01"),
		FeeAsset:    "BNB",
	})
	require.NoError(t, err)

	require.True(t, decimal.NewFromInt(900).Equal(balanceOf(t, st, "binance", "USDT")))
	require.True(t, decimal.RequireFromString("0.99").Equal(balanceOf(t, st, "binance", "BNB")))
	require.True(t, decimal.NewFromInt(100).Equal(balanceOf(t, st, "cold-wallet", "USDT")))

	// fee without an explicit asset is taken in the moved asset
	_, err = l.LogMovement(ctx, MovementRequest{
		Type:      entity.MovementTypeWithdrawal,
		Asset:     "USDT",
		Amount:    decimal.NewFromInt(100),
		Source:    "binance",
		FeeAmount: decimal.NewFromInt(5),
	})
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(795).Equal(balanceOf(t, st, "binance", "USDT")))
}

func TestLogMovementExternalEndpointsAreNotTracked(t *testing.T) {
	l, st := newTestLedger(t)
	ctx := context.Background()

	// a deposit from EXTERNAL creates funds, it does not drive anything negative
	deposit(t, l, "binance", "USDT", "50")

	balances, _, err := st.Balances(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 1, "only the tracked endpoint gets a balance row")
	require.Equal(t, "binance", balances[0].Account)
}
