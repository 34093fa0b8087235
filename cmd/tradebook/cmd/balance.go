package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vadiminshakov/tradebook/internal/store"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show account balances",
	Args:  cobra.NoArgs,
	RunE:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	app, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	balances, _, err := app.store.Balances(ctx)
	if err != nil {
		return err
	}
	sort.Slice(balances, func(i, j int) bool {
		if balances[i].Account == balances[j].Account {
			return balances[i].Asset < balances[j].Asset
		}
		return balances[i].Account < balances[j].Account
	})

	rows := make([][]string, 0, len(balances))
	for _, b := range balances {
		rows = append(rows, []string{
			b.Account,
			b.Asset,
			fmtAmount(b.Balance, app.cfg.AmountPrecision),
			store.FormatTime(b.LastUpdated),
		})
	}

	fmt.Print(renderTable("Account balances",
		[]string{"ACCOUNT", "ASSET", "BALANCE", "UPDATED"}, rows))
	return nil
}
