package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vadiminshakov/tradebook/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [SYMBOL]",
	Short: "Show closed lots with realized PnL",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(c *cobra.Command, args []string) error {
	ctx := c.Context()
	app, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	// Run the matcher so freshly recorded sells show up.
	if _, err := app.matcher.Run(ctx); err != nil {
		return err
	}

	lots, _, err := app.store.FifoLogs(ctx)
	if err != nil {
		return err
	}

	filter := ""
	if len(args) == 1 {
		filter = strings.ToUpper(args[0])
	}

	rows := make([][]string, 0, len(lots))
	for _, lot := range lots {
		if filter != "" && lot.Pair.String() != filter && lot.Pair.Symbol() != filter {
			continue
		}
		rows = append(rows, []string{
			store.FormatTime(lot.TimestampClosed),
			lot.Exchange,
			lot.Pair.String(),
			fmtAmount(lot.MatchedQty, app.cfg.AmountPrecision),
			fmtAmount(lot.BuyPrice, app.cfg.PricePrecision),
			fmtAmount(lot.SellPrice, app.cfg.PricePrecision),
			fmtAmount(lot.Pnl, app.cfg.PricePrecision),
		})
	}

	fmt.Print(renderTable("Closed lots",
		[]string{"CLOSED", "EXCHANGE", "SYMBOL", "QTY", "BUY", "SELL", "PNL"}, rows))
	return nil
}
