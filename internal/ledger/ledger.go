// Package ledger implements the transactional write path: pre-trade
// validation, double-entry balance mutation and the open-position projection.
package ledger

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/store"
)

// eventJournal receives a durable copy of every committed event. Failures are
// never fatal to the ledger operation.
type eventJournal interface {
	TradeLogged(t entity.Trade) error
	MovementLogged(m entity.Movement) error
}

type Ledger struct {
	store   *store.Store
	journal eventJournal
	log     *zap.Logger
}

// New creates a ledger writer. journal may be nil.
func New(st *store.Store, journal eventJournal, log *zap.Logger) *Ledger {
	return &Ledger{store: st, journal: journal, log: log}
}

// TradeRequest carries a user-supplied trade. Symbol is BASE/QUOTE.
type TradeRequest struct {
	Type            entity.TradeType
	Exchange        string
	Symbol          string
	Amount          decimal.Decimal
	Price           decimal.Decimal
	Timestamp       time.Time
	Commission      decimal.Decimal
	CommissionAsset string
	OrderID         string
	Notes           string
	StopLoss        decimal.Decimal
	TakeProfit1     decimal.Decimal
	TakeProfit2     decimal.Decimal
	TakeProfit3     decimal.Decimal
}

// LogTrade validates a trade, appends it to the event log, applies balance
// deltas as one batch and resynchronizes the open-position projection from
// the in-memory updated balances. On success the committed trade is returned
// with its generated id.
func (l *Ledger) LogTrade(ctx context.Context, req TradeRequest) (entity.Trade, error) {
	if !req.Type.Valid() {
		return entity.Trade{}, errors.Wrapf(ErrValidation, "unknown trade type %q", req.Type)
	}
	if !req.Amount.IsPositive() {
		return entity.Trade{}, errors.Wrap(ErrValidation, "amount must be positive")
	}
	if !req.Price.IsPositive() {
		return entity.Trade{}, errors.Wrap(ErrValidation, "price must be positive")
	}
	pair, err := entity.ParsePair(req.Symbol)
	if err != nil {
		return entity.Trade{}, errors.Wrap(ErrValidation, err.Error())
	}
	if req.Exchange == "" {
		return entity.Trade{}, errors.Wrap(ErrValidation, "exchange is required")
	}

	now := req.Timestamp
	if now.IsZero() {
		now = time.Now().UTC()
	}

	balances, _, err := l.store.Balances(ctx)
	if err != nil {
		return entity.Trade{}, err
	}
	positions, _, err := l.store.Positions(ctx)
	if err != nil {
		return entity.Trade{}, err
	}
	book := newBalanceBook(balances)

	total := req.Amount.Mul(req.Price)

	switch req.Type {
	case entity.TradeTypeBuy:
		need := total
		if req.CommissionAsset == pair.Quote {
			need = need.Add(req.Commission)
		}
		if book.get(req.Exchange, pair.Quote).LessThan(need) {
			return entity.Trade{}, errors.Wrapf(ErrInsufficientFunds,
				"%s balance on %s is %s, need %s",
				pair.Quote, req.Exchange, book.get(req.Exchange, pair.Quote), need)
		}
	case entity.TradeTypeSell:
		if book.get(req.Exchange, pair.Base).LessThan(req.Amount) {
			return entity.Trade{}, errors.Wrapf(ErrInsufficientFunds,
				"%s balance on %s is %s, need %s",
				pair.Base, req.Exchange, book.get(req.Exchange, pair.Base), req.Amount)
		}
	}

	prior := findPosition(positions, req.Exchange, pair)
	if req.Type == entity.TradeTypeSell && prior != nil {
		// informational only; the FIFO matcher produces the
		// authoritative realized PnL
		tradePnl := req.Price.Sub(prior.AvgEntryPrice).Mul(req.Amount)
		l.log.Info("sell against open position",
			zap.String("exchange", req.Exchange),
			zap.String("symbol", pair.String()),
			zap.String("avg_entry", prior.AvgEntryPrice.String()),
			zap.String("trade_pnl", tradePnl.String()))
	}

	trade := entity.Trade{
		ID:              entity.NewID(),
		Timestamp:       now,
		Exchange:        req.Exchange,
		Pair:            pair,
		Type:            req.Type,
		Amount:          req.Amount,
		Price:           req.Price,
		TotalQuote:      total,
		Commission:      req.Commission,
		CommissionAsset: req.CommissionAsset,
		OrderID:         req.OrderID,
		Notes:           req.Notes,
		StopLoss:        req.StopLoss,
		TakeProfit1:     req.TakeProfit1,
		TakeProfit2:     req.TakeProfit2,
		TakeProfit3:     req.TakeProfit3,
		FifoConsumedQty: decimal.Zero,
	}

	// apply deltas to the in-memory book first so the full post-state can
	// be checked before anything is written
	switch req.Type {
	case entity.TradeTypeBuy:
		book.add(req.Exchange, pair.Quote, total.Neg(), now)
		book.add(req.Exchange, pair.Base, req.Amount, now)
	case entity.TradeTypeSell:
		book.add(req.Exchange, pair.Base, req.Amount.Neg(), now)
		book.add(req.Exchange, pair.Quote, total, now)
	}
	if req.Commission.IsPositive() && req.CommissionAsset != "" {
		book.add(req.Exchange, req.CommissionAsset, req.Commission.Neg(), now)
	}
	if b, bad := book.negative(); bad {
		return entity.Trade{}, errors.Wrapf(ErrInsufficientFunds,
			"%s balance on %s would become %s", b.Asset, b.Account, b.Balance)
	}

	// step 1: append the event
	if err := l.store.AppendTrade(ctx, trade); err != nil {
		return entity.Trade{}, err
	}

	// step 2: persist balance deltas; the trade row is already durable, so
	// a failure here is a critical inconsistency
	if err := book.flush(ctx, l.store); err != nil {
		incErr := &InconsistencyError{Stage: "balance update", Err: err}
		l.log.Error("trade appended but balance update failed",
			zap.Bool("critical", true),
			zap.String("trade_id", trade.ID),
			zap.Error(err))
		return trade, incErr
	}

	// step 3: projection resync is best effort, the next trade or refresh
	// cycle corrects it
	if err := l.syncPosition(ctx, book, prior, trade); err != nil {
		l.log.Warn("position sync failed after trade",
			zap.String("trade_id", trade.ID), zap.Error(err))
	}

	l.journalTrade(trade)

	l.log.Info("trade committed",
		zap.String("trade_id", trade.ID),
		zap.String("type", string(trade.Type)),
		zap.String("exchange", trade.Exchange),
		zap.String("symbol", pair.String()),
		zap.String("amount", trade.Amount.String()),
		zap.String("price", trade.Price.String()))
	return trade, nil
}

// syncPosition rebuilds the (exchange, symbol) position row from the balance
// book updated by this operation, never from a fresh store read.
func (l *Ledger) syncPosition(ctx context.Context, book *balanceBook, prior *entity.Position, trade entity.Trade) error {
	netAmount := book.get(trade.Exchange, trade.Pair.Base)

	if netAmount.LessThanOrEqual(entity.Epsilon) {
		if prior != nil {
			return l.store.DeletePosition(ctx, prior.Row)
		}
		return nil
	}

	pos := entity.Position{
		Exchange:    trade.Exchange,
		Pair:        trade.Pair,
		NetAmount:   netAmount,
		LastUpdated: trade.Timestamp,
	}

	switch {
	case trade.Type == entity.TradeTypeBuy && prior != nil && prior.NetAmount.IsPositive():
		pos.AvgEntryPrice = prior.NetAmount.Mul(prior.AvgEntryPrice).
			Add(trade.Amount.Mul(trade.Price)).Div(netAmount)
	case trade.Type == entity.TradeTypeBuy:
		pos.AvgEntryPrice = trade.Price
	case prior != nil:
		pos.AvgEntryPrice = prior.AvgEntryPrice
	default:
		// sell with no recorded position: the entry basis is unknown,
		// fall back to the fill price
		pos.AvgEntryPrice = trade.Price
	}

	if prior != nil {
		pos.Row = prior.Row
		pos.CurrentPrice = prior.CurrentPrice
		if pos.CurrentPrice.IsPositive() {
			pos.UnrealizedPnl = pos.Pnl(pos.CurrentPrice)
		}
		return l.store.UpdatePosition(ctx, pos)
	}
	return l.store.AppendPosition(ctx, pos)
}

func (l *Ledger) journalTrade(t entity.Trade) {
	if l.journal == nil {
		return
	}
	if err := l.journal.TradeLogged(t); err != nil {
		l.log.Warn("event journal write failed", zap.String("trade_id", t.ID), zap.Error(err))
	}
}

func findPosition(positions []entity.Position, exchange string, pair entity.Pair) *entity.Position {
	for i := range positions {
		if positions[i].Exchange == exchange && positions[i].Pair == pair {
			return &positions[i]
		}
	}
	return nil
}
