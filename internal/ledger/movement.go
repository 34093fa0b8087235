package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
)

// MovementRequest carries a user-supplied fund movement.
type MovementRequest struct {
	Type        entity.MovementType
	Asset       string
	Amount      decimal.Decimal
	Timestamp   time.Time
	Source      string
	Destination string
	FeeAmount   decimal.Decimal
	FeeAsset    string
	TxIDOnChain string
	Notes       string
}

// LogMovement validates and appends a fund movement, then applies balance
// deltas. EXTERNAL endpoints are not tracked in balances; fees debit the fee
// asset on the source account.
func (l *Ledger) LogMovement(ctx context.Context, req MovementRequest) (entity.Movement, error) {
	if !req.Type.Valid() {
		return entity.Movement{}, errors.Wrapf(ErrValidation, "unknown movement type %q", req.Type)
	}
	if !req.Amount.IsPositive() {
		return entity.Movement{}, errors.Wrap(ErrValidation, "amount must be positive")
	}
	if req.Asset == "" {
		return entity.Movement{}, errors.Wrap(ErrValidation, "asset is required")
	}
	switch req.Type {
	case entity.MovementTypeDeposit:
		if req.Destination == "" {
			return entity.Movement{}, errors.Wrap(ErrValidation, "deposit requires a destination account")
		}
	case entity.MovementTypeWithdrawal:
		if req.Source == "" {
			return entity.Movement{}, errors.Wrap(ErrValidation, "withdrawal requires a source account")
		}
	case entity.MovementTypeTransfer:
		if req.Source == "" || req.Destination == "" {
			return entity.Movement{}, errors.Wrap(ErrValidation, "transfer requires source and destination accounts")
		}
		if req.Source == req.Destination {
			return entity.Movement{}, errors.Wrap(ErrValidation, "transfer source and destination must differ")
		}
	}

	now := req.Timestamp
	if now.IsZero() {
		now = time.Now().UTC()
	}

	balances, _, err := l.store.Balances(ctx)
	if err != nil {
		return entity.Movement{}, err
	}
	book := newBalanceBook(balances)

	tracked := func(account string) bool {
		return account != "" && account != entity.ExternalAccount
	}

	switch req.Type {
	case entity.MovementTypeDeposit:
		if tracked(req.Destination) {
			book.add(req.Destination, req.Asset, req.Amount, now)
		}
	case entity.MovementTypeWithdrawal:
		if tracked(req.Source) {
			book.add(req.Source, req.Asset, req.Amount.Neg(), now)
		}
	case entity.MovementTypeTransfer:
		if tracked(req.Source) {
			book.add(req.Source, req.Asset, req.Amount.Neg(), now)
		}
		if tracked(req.Destination) {
			book.add(req.Destination, req.Asset, req.Amount, now)
		}
	}
	if req.FeeAmount.IsPositive() && tracked(req.Source) {
		feeAsset := req.FeeAsset
		if feeAsset == "" {
			feeAsset = req.Asset
		}
		book.add(req.Source, feeAsset, req.FeeAmount.Neg(), now)
	}

	if b, bad := book.negative(); bad {
		return entity.Movement{}, errors.Wrapf(ErrInsufficientFunds,
			"%s balance on %s would become %s", b.Asset, b.Account, b.Balance)
	}

	movement := entity.Movement{
		ID:          entity.NewID(),
		Timestamp:   now,
		Type:        req.Type,
		Asset:       req.Asset,
		Amount:      req.Amount,
		Source:      req.Source,
		Destination: req.Destination,
		FeeAmount:   req.FeeAmount,
		FeeAsset:    req.FeeAsset,
		TxIDOnChain: req.TxIDOnChain,
		Notes:       req.Notes,
	}

	if err := l.store.AppendMovement(ctx, movement); err != nil {
		return entity.Movement{}, err
	}

	if err := book.flush(ctx, l.store); err != nil {
		incErr := &InconsistencyError{Stage: "balance update", Err: err}
		l.log.Error("movement appended but balance update failed",
			zap.Bool("critical", true),
			zap.String("movement_id", movement.ID),
			zap.Error(err))
		return movement, incErr
	}

	if l.journal != nil {
		if err := l.journal.MovementLogged(movement); err != nil {
			l.log.Warn("event journal write failed", zap.String("movement_id", movement.ID), zap.Error(err))
		}
	}

	l.log.Info("movement committed",
		zap.String("movement_id", movement.ID),
		zap.String("type", string(movement.Type)),
		zap.String("asset", movement.Asset),
		zap.String("amount", movement.Amount.String()))
	return movement, nil
}
