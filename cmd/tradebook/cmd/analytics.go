package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vadiminshakov/tradebook/internal/store"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Recompute portfolio metrics and append a snapshot",
	Args:  cobra.NoArgs,
	RunE:  runAnalytics,
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
}

func runAnalytics(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	app, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := app.engine.Run(ctx)
	if err != nil {
		return err
	}

	pp := app.cfg.PricePrecision
	rows := [][]string{
		{"realized pnl", fmtAmount(snap.RealizedPnl, pp)},
		{"unrealized pnl", fmtAmount(snap.UnrealizedPnl, pp)},
		{"net pnl", fmtAmount(snap.NetPnl, pp)},
		{"closed trades", fmt.Sprintf("%d", snap.ClosedTrades)},
		{"winning / losing", fmt.Sprintf("%d / %d", snap.WinningTrades, snap.LosingTrades)},
		{"win rate", fmtAmount(snap.WinRate, 2) + "%"},
		{"avg win", fmtAmount(snap.AvgWin, pp)},
		{"avg loss", fmtAmount(snap.AvgLoss, pp)},
		{"profit factor", snap.ProfitFactor},
		{"total commissions", fmtAmount(snap.TotalCommissions, pp)},
		{"net invested", fmtAmount(snap.NetInvested, pp)},
		{"portfolio value", fmtAmount(snap.PortfolioValue, pp)},
		{"total equity", fmtAmount(snap.TotalEquity, pp)},
	}

	fmt.Print(renderTable("Analytics "+store.FormatTime(snap.DateGenerated),
		[]string{"METRIC", "VALUE"}, rows))
	return nil
}
