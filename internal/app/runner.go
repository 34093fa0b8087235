// Package app wires the periodic background work: analytics snapshots and
// open-position price refreshes.
package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/store"
)

type analyticsEngine interface {
	Run(ctx context.Context) (entity.AnalyticsSnapshot, error)
}

type priceRefresher interface {
	Run(ctx context.Context) error
}

type Runner struct {
	store     *store.Store
	engine    analyticsEngine
	refresher priceRefresher
	interval  time.Duration
	log       *zap.Logger
}

func NewRunner(st *store.Store, engine analyticsEngine, refresher priceRefresher, interval time.Duration, log *zap.Logger) *Runner {
	return &Runner{store: st, engine: engine, refresher: refresher, interval: interval, log: log}
}

// Run drives both loops until the context is cancelled. A failing iteration
// is recorded in System_Status and the loop keeps going.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.loop(ctx, "analytics", func(ctx context.Context) error {
			_, err := r.engine.Run(ctx)
			return err
		})
	})
	g.Go(func() error {
		return r.loop(ctx, "price refresh", r.refresher.Run)
	})

	return g.Wait()
}

func (r *Runner) loop(ctx context.Context, name string, fn func(context.Context) error) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.runOnce(ctx, name, fn)
	for {
		select {
		case <-ctx.Done():
			r.log.Info("background loop stopped", zap.String("loop", name))
			return nil
		case <-ticker.C:
			r.runOnce(ctx, name, fn)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context, name string, fn func(context.Context) error) {
	status := entity.SystemStatus{Status: entity.StatusOK, LastRun: time.Now().UTC()}

	if err := r.safeRun(ctx, fn); err != nil {
		r.log.Error("background iteration failed", zap.String("loop", name), zap.Error(err))
		status.Status = entity.StatusError
		status.Message = name + ": " + err.Error()
	}

	if err := r.store.WriteSystemStatus(ctx, status); err != nil {
		r.log.Error("failed to write system status", zap.String("loop", name), zap.Error(err))
	}
}

// safeRun turns a panicking iteration into an error so one bad SDK call
// cannot take down both loops.
func (r *Runner) safeRun(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("panic: %v", p)
		}
	}()
	return fn(ctx)
}
