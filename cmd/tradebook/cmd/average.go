package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var averageCmd = &cobra.Command{
	Use:   "average SYMBOL",
	Short: "Show the weighted-average entry price for an open position",
	Args:  cobra.ExactArgs(1),
	RunE:  runAverage,
}

func init() {
	rootCmd.AddCommand(averageCmd)
}

func runAverage(c *cobra.Command, args []string) error {
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

	symbol := strings.ToUpper(args[0])
	var totalNet, totalCost decimal.Decimal
	rows := make([][]string, 0, 2)
	for _, p := range positions {
		if p.Pair.String() != symbol && p.Pair.Symbol() != symbol {
			continue
		}
		totalNet = totalNet.Add(p.NetAmount)
		totalCost = totalCost.Add(p.NetAmount.Mul(p.AvgEntryPrice))
		rows = append(rows, []string{
			p.Exchange,
			fmtAmount(p.NetAmount, app.cfg.AmountPrecision),
			fmtAmount(p.AvgEntryPrice, app.cfg.PricePrecision),
		})
	}

	if len(rows) == 0 {
		fmt.Printf("no open position for %s\n", symbol)
		return nil
	}

	fmt.Print(renderTable(symbol, []string{"EXCHANGE", "NET", "AVG ENTRY"}, rows))
	if len(rows) > 1 && totalNet.IsPositive() {
		fmt.Printf("combined: %s @ %s\n",
			fmtAmount(totalNet, app.cfg.AmountPrecision),
			fmtAmount(totalCost.Div(totalNet), app.cfg.PricePrecision))
	}
	return nil
}
