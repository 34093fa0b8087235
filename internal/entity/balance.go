package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance is the amount of one asset held on one account. A committed
// operation must never leave it negative.
type Balance struct {
	Row int

	Account     string
	Asset       string
	Balance     decimal.Decimal
	LastUpdated time.Time
}

// BalanceKey identifies a balance row.
type BalanceKey struct {
	Account string
	Asset   string
}

func (b Balance) Key() BalanceKey {
	return BalanceKey{Account: b.Account, Asset: b.Asset}
}
