// Package refresher rewrites current prices and unrealized PnL on open
// positions from the external quote sources.
package refresher

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/pricer"
	"github.com/vadiminshakov/tradebook/internal/store"
	"github.com/vadiminshakov/tradebook/pkg/retry"
)

type Refresher struct {
	store   *store.Store
	quotes  map[string]pricer.Pricer // keyed by lower-case exchange name
	backoff *retry.Backoff
	log     *zap.Logger
}

type Option func(*Refresher)

// WithBackoff overrides the retry policy for ticker fetches.
func WithBackoff(b *retry.Backoff) Option {
	return func(r *Refresher) { r.backoff = b }
}

func New(st *store.Store, quotes map[string]pricer.Pricer, log *zap.Logger, opts ...Option) *Refresher {
	normalized := make(map[string]pricer.Pricer, len(quotes))
	for name, p := range quotes {
		normalized[strings.ToLower(name)] = p
	}
	r := &Refresher{
		store:   st,
		quotes:  normalized,
		backoff: retry.New(),
		log:     log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run refreshes every open position once. Exchanges are queried
// independently: a failing or unknown exchange is logged and skipped, the
// rest still update. Only the price-owned fields are written; net_amount and
// avg_entry_price stay untouched.
func (r *Refresher) Run(ctx context.Context) error {
	positions, _, err := r.store.Positions(ctx)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		return nil
	}

	byExchange := make(map[string][]*entity.Position)
	for i := range positions {
		p := &positions[i]
		byExchange[strings.ToLower(p.Exchange)] = append(byExchange[strings.ToLower(p.Exchange)], p)
	}

	now := time.Now().UTC()
	var updated []entity.Position

	for exchange, group := range byExchange {
		quote, ok := r.quotes[exchange]
		if !ok {
			r.log.Warn("no quote source for exchange, skipping positions",
				zap.String("exchange", exchange), zap.Int("positions", len(group)))
			continue
		}

		pairs := make([]entity.Pair, 0, len(group))
		for _, p := range group {
			pairs = append(pairs, p.Pair)
		}

		prices, err := retry.DoWithData(r.backoff, ctx, func(ctx context.Context) (map[string]decimal.Decimal, error) {
			return quote.FetchTickers(ctx, pairs)
		})
		if err != nil {
			r.log.Error("ticker fetch failed, skipping exchange",
				zap.String("exchange", exchange), zap.Error(err))
			continue
		}

		for _, p := range group {
			last, ok := prices[p.Pair.Symbol()]
			if !ok {
				r.log.Warn("no price returned for symbol",
					zap.String("exchange", exchange), zap.String("symbol", p.Pair.String()))
				continue
			}
			p.CurrentPrice = last
			p.UnrealizedPnl = p.Pnl(last)
			p.LastUpdated = now
			updated = append(updated, *p)
		}
	}

	if err := r.store.BatchUpdatePositions(ctx, updated); err != nil {
		return err
	}
	if len(updated) > 0 {
		r.log.Info("position prices refreshed", zap.Int("positions", len(updated)))
	}
	return nil
}
