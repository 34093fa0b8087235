package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementTypeDeposit    MovementType = "DEPOSIT"
	MovementTypeWithdrawal MovementType = "WITHDRAWAL"
	MovementTypeTransfer   MovementType = "TRANSFER"
)

func (m MovementType) Valid() bool {
	switch m {
	case MovementTypeDeposit, MovementTypeWithdrawal, MovementTypeTransfer:
		return true
	}
	return false
}

// ExternalAccount is the sentinel for endpoints outside tracked balances.
const ExternalAccount = "EXTERNAL"

// Movement is a fund deposit, withdrawal or transfer between accounts.
type Movement struct {
	Row int

	ID           string
	Timestamp    time.Time
	Type         MovementType
	Asset        string
	Amount       decimal.Decimal
	Source       string
	Destination  string
	FeeAmount    decimal.Decimal
	FeeAsset     string
	TxIDOnChain  string
	Notes        string
}
