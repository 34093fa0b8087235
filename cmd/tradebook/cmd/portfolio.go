package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vadiminshakov/tradebook/internal/store"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show open positions",
	Args:  cobra.NoArgs,
	RunE:  runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	app, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	positions, _, err := app.store.Positions(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, []string{
			p.Exchange,
			p.Pair.String(),
			fmtAmount(p.NetAmount, app.cfg.AmountPrecision),
			fmtAmount(p.AvgEntryPrice, app.cfg.PricePrecision),
			fmtAmount(p.CurrentPrice, app.cfg.PricePrecision),
			fmtAmount(p.UnrealizedPnl, app.cfg.PricePrecision),
			store.FormatTime(p.LastUpdated),
		})
	}

	fmt.Print(renderTable("Open positions",
		[]string{"EXCHANGE", "SYMBOL", "NET", "AVG ENTRY", "PRICE", "UPNL", "UPDATED"}, rows))
	return nil
}
