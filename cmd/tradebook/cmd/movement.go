package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/ledger"
	"github.com/vadiminshakov/tradebook/internal/store"
)

var (
	movementFrom     string
	movementTo       string
	movementFee      string
	movementFeeAsset string
	movementTxID     string
	movementNotes    string
	movementTime     string
)

var depositCmd = &cobra.Command{
	Use:   "deposit AMOUNT [ASSET]",
	Short: "Record a deposit to an account",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(c *cobra.Command, args []string) error {
		return runMovement(c, entity.MovementTypeDeposit, args)
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw AMOUNT [ASSET]",
	Short: "Record a withdrawal from an account",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(c *cobra.Command, args []string) error {
		return runMovement(c, entity.MovementTypeWithdrawal, args)
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer AMOUNT [ASSET]",
	Short: "Record a transfer between accounts",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(c *cobra.Command, args []string) error {
		return runMovement(c, entity.MovementTypeTransfer, args)
	},
}

func init() {
	for _, c := range []*cobra.Command{depositCmd, withdrawCmd, transferCmd} {
		c.Flags().StringVar(&movementFrom, "from", "", "source account (EXTERNAL for untracked)")
		c.Flags().StringVar(&movementTo, "to", "", "destination account (EXTERNAL for untracked)")
		c.Flags().StringVar(&movementFee, "fee", "", "fee amount, debited from the source account")
		c.Flags().StringVar(&movementFeeAsset, "fee-asset", "", "asset the fee was paid in (default the moved asset)")
		c.Flags().StringVar(&movementTxID, "txid", "", "blockchain transaction id")
		c.Flags().StringVar(&movementNotes, "notes", "", "free-text notes")
		c.Flags().StringVar(&movementTime, "time", "", "movement time, YYYY-MM-DD HH:MM:SS (default now)")
		rootCmd.AddCommand(c)
	}
}

func runMovement(c *cobra.Command, movementType entity.MovementType, args []string) error {
	ctx := c.Context()
	app, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	amount, err := store.ParseDecimal(args[0])
	if err != nil {
		return err
	}
	asset := app.cfg.BaseCurrency
	if len(args) == 2 {
		asset = args[1]
	}

	req := ledger.MovementRequest{
		Type:        movementType,
		Asset:       asset,
		Amount:      amount,
		Source:      movementFrom,
		Destination: movementTo,
		FeeAsset:    movementFeeAsset,
		TxIDOnChain: movementTxID,
		Notes:       movementNotes,
	}
	if req.FeeAmount, err = optionalDecimal(movementFee); err != nil {
		return err
	}
	if req.Timestamp, err = optionalTime(movementTime); err != nil {
		return err
	}

	movement, err := app.ledger.LogMovement(ctx, req)
	if err != nil {
		app.recordCritical(ctx, err)
		return err
	}

	fmt.Printf("%s recorded: %s %s (id %s)\n",
		movement.Type, movement.Amount, movement.Asset, movement.ID)
	return nil
}
