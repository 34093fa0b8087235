package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vadiminshakov/tradebook/internal/app"
	"github.com/vadiminshakov/tradebook/internal/clients"
	"github.com/vadiminshakov/tradebook/internal/refresher"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the background updater (price refresh + analytics snapshots)",
	Args:  cobra.NoArgs,
	RunE:  runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(c *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(c.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	creds := make([]clients.ExchangeCredentials, 0, len(a.cfg.Exchanges))
	for _, ex := range a.cfg.Exchanges {
		creds = append(creds, clients.ExchangeCredentials{
			Name:    ex.Name,
			APIKey:  ex.APIKey,
			Secret:  ex.Secret,
			BaseURL: ex.BaseURL,
		})
	}
	quotes, err := clients.BuildQuoteSources(creds)
	if err != nil {
		return err
	}

	refr := refresher.New(a.store, quotes, a.log)
	runner := app.NewRunner(a.store, a.engine, refr, a.cfg.UpdateInterval(), a.log)

	a.log.Info("background updater started",
		zap.Duration("interval", a.cfg.UpdateInterval()),
		zap.Int("quote_sources", len(quotes)))
	return runner.Run(ctx)
}
