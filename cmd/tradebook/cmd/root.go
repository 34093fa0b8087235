package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/config"
	"github.com/vadiminshakov/tradebook/internal/analytics"
	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/fifo"
	"github.com/vadiminshakov/tradebook/internal/journal"
	"github.com/vadiminshakov/tradebook/internal/ledger"
	"github.com/vadiminshakov/tradebook/internal/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "tradebook",
	Short: "Personal crypto trade journal with a double-entry ledger core",
	Long: `Tradebook keeps a personal crypto trade journal: every trade and fund
movement goes through a validated double-entry ledger that maintains
per-account balances, open positions with weighted-average cost basis,
FIFO-matched closed lots with realized PnL, and periodic analytics
snapshots.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to yaml config (defaults apply when omitted)")
}

// appContext carries the wired services shared by every command.
type appContext struct {
	cfg     config.Config
	log     *zap.Logger
	store   *store.Store
	ledger  *ledger.Ledger
	matcher *fifo.Matcher
	engine  *analytics.Engine
	journal *journal.Journal
}

func newApp(ctx context.Context) (*appContext, func(), error) {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return nil, nil, err
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, nil, err
	}

	drv, err := store.NewCSVDir(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	st := store.New(drv, cfg.Tables(), logger)
	if err := st.Bootstrap(ctx); err != nil {
		return nil, nil, err
	}

	jrnl, err := journal.Open(cfg.WalDir)
	if err != nil {
		return nil, nil, err
	}

	matcher := fifo.NewMatcher(st, logger)
	app := &appContext{
		cfg:     cfg,
		log:     logger,
		store:   st,
		ledger:  ledger.New(st, jrnl, logger),
		matcher: matcher,
		engine:  analytics.NewEngine(st, matcher, logger, cfg.TZOffsetHours),
		journal: jrnl,
	}
	cleanup := func() {
		_ = jrnl.Close()
		_ = logger.Sync()
	}
	return app, cleanup, nil
}

// recordCritical flags a ledger inconsistency in System_Status so the status
// command surfaces it until an operator resolves it.
func (a *appContext) recordCritical(ctx context.Context, err error) {
	var incErr *ledger.InconsistencyError
	if !errors.As(err, &incErr) {
		return
	}
	writeErr := a.store.WriteSystemStatus(ctx, entity.SystemStatus{
		Status:  entity.StatusCriticalError,
		LastRun: time.Now().UTC(),
		Message: incErr.Error(),
	})
	if writeErr != nil {
		a.log.Error("failed to record critical status", zap.Error(writeErr))
	}
}
