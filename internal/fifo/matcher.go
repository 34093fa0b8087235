// Package fifo pairs SELL fills against prior BUY fills in time order and
// persists closed-lot records. The matcher is resumable: all of its state is
// re-derived from the persisted consumption markers, so re-running it with no
// new trades is a no-op.
package fifo

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/store"
)

type Matcher struct {
	store *store.Store
	log   *zap.Logger
}

func NewMatcher(st *store.Store, log *zap.Logger) *Matcher {
	return &Matcher{store: st, log: log}
}

// Result summarises one matcher run.
type Result struct {
	NewLots        int
	SellsProcessed int
	PartialSells   int
}

// Run matches every pending sell against available buy inventory. Matching
// ignores the exchange dimension: a sell on one exchange may consume a buy of
// the same symbol on another. Persist order is lots, then buy consumption,
// then sell completion markers, and each stage is written only after the
// previous one succeeded.
func (m *Matcher) Run(ctx context.Context) (Result, error) {
	trades, _, err := m.store.Trades(ctx)
	if err != nil {
		return Result{}, err
	}
	lots, _, err := m.store.FifoLogs(ctx)
	if err != nil {
		return Result{}, err
	}

	sort.Slice(trades, func(i, j int) bool {
		if trades[i].Timestamp.Equal(trades[j].Timestamp) {
			return trades[i].ID < trades[j].ID
		}
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})

	// the append-only lot log is the recovery source of truth for both
	// sides of a match: a run interrupted after writing lots but before
	// the trade-marker updates must not re-book those quantities
	matchedBefore := make(map[string]decimal.Decimal, len(lots))
	lotConsumed := make(map[string]decimal.Decimal, len(lots))
	for _, lot := range lots {
		matchedBefore[lot.SellTradeID] = matchedBefore[lot.SellTradeID].Add(lot.MatchedQty)
		lotConsumed[lot.BuyTradeID] = lotConsumed[lot.BuyTradeID].Add(lot.MatchedQty)
	}

	var buys []*entity.Trade
	var pendingSells []*entity.Trade
	consumed := make(map[string]decimal.Decimal)
	for i := range trades {
		t := &trades[i]
		switch t.Type {
		case entity.TradeTypeBuy:
			buys = append(buys, t)
			consumed[t.ID] = decimal.Max(t.FifoConsumedQty, lotConsumed[t.ID])
		case entity.TradeTypeSell:
			if !t.FifoSellProcessed {
				pendingSells = append(pendingSells, t)
			}
		}
	}

	var (
		res       Result
		newLots   []entity.FifoLog
		dirtyBuys = make(map[string]*entity.Trade)
		doneSells []*entity.Trade
	)

	for _, sell := range pendingSells {
		remaining := sell.Amount.Sub(matchedBefore[sell.ID])

		for _, buy := range buys {
			if remaining.LessThanOrEqual(entity.Epsilon) {
				break
			}
			if buy.Pair != sell.Pair || buy.Timestamp.After(sell.Timestamp) {
				continue
			}
			available := buy.Amount.Sub(consumed[buy.ID])
			if !available.IsPositive() {
				continue
			}

			matched := decimal.Min(remaining, available)
			newLots = append(newLots, entity.FifoLog{
				Pair:            sell.Pair,
				BuyTradeID:      buy.ID,
				SellTradeID:     sell.ID,
				MatchedQty:      matched,
				BuyPrice:        buy.Price,
				SellPrice:       sell.Price,
				Pnl:             sell.Price.Sub(buy.Price).Mul(matched),
				TimestampClosed: sell.Timestamp,
				BuyTimestamp:    buy.Timestamp,
				Exchange:        sell.Exchange,
			})
			consumed[buy.ID] = consumed[buy.ID].Add(matched)
			dirtyBuys[buy.ID] = buy
			remaining = remaining.Sub(matched)
		}

		if remaining.LessThanOrEqual(entity.Epsilon) {
			sell.FifoSellProcessed = true
			doneSells = append(doneSells, sell)
		} else {
			res.PartialSells++
			m.log.Warn("sell not fully matched, left pending",
				zap.String("sell_trade_id", sell.ID),
				zap.String("symbol", sell.Pair.String()),
				zap.String("unmatched", remaining.String()))
		}
	}

	// repair consumption markers that lag the lot log after an
	// interrupted run
	for _, buy := range buys {
		if !consumed[buy.ID].Equal(buy.FifoConsumedQty) {
			dirtyBuys[buy.ID] = buy
		}
	}

	for _, lot := range newLots {
		if err := m.store.AppendFifoLog(ctx, lot); err != nil {
			return res, err
		}
		res.NewLots++
	}

	var buyUpdates []entity.Trade
	for _, buy := range dirtyBuys {
		buy.FifoConsumedQty = consumed[buy.ID]
		buyUpdates = append(buyUpdates, *buy)
	}
	sort.Slice(buyUpdates, func(i, j int) bool { return buyUpdates[i].Row < buyUpdates[j].Row })
	if err := m.store.BatchUpdateTrades(ctx, buyUpdates); err != nil {
		return res, err
	}

	var sellUpdates []entity.Trade
	for _, sell := range doneSells {
		sellUpdates = append(sellUpdates, *sell)
	}
	if err := m.store.BatchUpdateTrades(ctx, sellUpdates); err != nil {
		return res, err
	}
	res.SellsProcessed = len(sellUpdates)

	if res.NewLots > 0 || res.SellsProcessed > 0 {
		m.log.Info("fifo matcher run finished",
			zap.Int("new_lots", res.NewLots),
			zap.Int("sells_processed", res.SellsProcessed),
			zap.Int("partial_sells", res.PartialSells))
	}
	return res, nil
}
