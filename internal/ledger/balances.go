package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/store"
)

// balanceBook is the in-memory working copy of the balances table for one
// ledger operation. Deltas are applied here first, checked for
// non-negativity, then flushed as a batch; the position resync reads this
// book rather than the store so it never races a write that the backing
// store has not observed yet.
type balanceBook struct {
	byKey map[entity.BalanceKey]*entity.Balance
	dirty map[entity.BalanceKey]struct{}
}

func newBalanceBook(balances []entity.Balance) *balanceBook {
	book := &balanceBook{
		byKey: make(map[entity.BalanceKey]*entity.Balance, len(balances)),
		dirty: make(map[entity.BalanceKey]struct{}),
	}
	for i := range balances {
		b := balances[i]
		book.byKey[b.Key()] = &b
	}
	return book
}

func (bb *balanceBook) get(account, asset string) decimal.Decimal {
	if b, ok := bb.byKey[entity.BalanceKey{Account: account, Asset: asset}]; ok {
		return b.Balance
	}
	return decimal.Zero
}

func (bb *balanceBook) add(account, asset string, delta decimal.Decimal, now time.Time) {
	key := entity.BalanceKey{Account: account, Asset: asset}
	b, ok := bb.byKey[key]
	if !ok {
		b = &entity.Balance{Account: account, Asset: asset}
		bb.byKey[key] = b
	}
	b.Balance = b.Balance.Add(delta)
	b.LastUpdated = now
	bb.dirty[key] = struct{}{}
}

// negative returns the first touched balance that went below zero.
func (bb *balanceBook) negative() (entity.Balance, bool) {
	for key := range bb.dirty {
		if b := bb.byKey[key]; b.Balance.IsNegative() {
			return *b, true
		}
	}
	return entity.Balance{}, false
}

// flush persists every touched balance: existing rows in one batch update,
// rows created by this operation as appends.
func (bb *balanceBook) flush(ctx context.Context, st *store.Store) error {
	var updates []entity.Balance
	var appends []entity.Balance
	for key := range bb.dirty {
		b := bb.byKey[key]
		if b.Row > 0 {
			updates = append(updates, *b)
		} else {
			appends = append(appends, *b)
		}
	}
	if err := st.BatchUpdateBalances(ctx, updates); err != nil {
		return err
	}
	for _, b := range appends {
		if err := st.AppendBalance(ctx, b); err != nil {
			return err
		}
	}
	return nil
}
