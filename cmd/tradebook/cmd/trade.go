package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vadiminshakov/tradebook/internal/entity"
	"github.com/vadiminshakov/tradebook/internal/ledger"
	"github.com/vadiminshakov/tradebook/internal/store"
)

var (
	tradeCommission      string
	tradeCommissionAsset string
	tradeOrderID         string
	tradeNotes           string
	tradeStopLoss        string
	tradeTakeProfit1     string
	tradeTakeProfit2     string
	tradeTakeProfit3     string
	tradeTime            string
)

var buyCmd = &cobra.Command{
	Use:   "buy EXCHANGE SYMBOL AMOUNT PRICE",
	Short: "Record a buy fill",
	Args:  cobra.ExactArgs(4),
	RunE: func(c *cobra.Command, args []string) error {
		return runTrade(c, entity.TradeTypeBuy, args)
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell EXCHANGE SYMBOL AMOUNT PRICE",
	Short: "Record a sell fill",
	Args:  cobra.ExactArgs(4),
	RunE: func(c *cobra.Command, args []string) error {
		return runTrade(c, entity.TradeTypeSell, args)
	},
}

func init() {
	for _, c := range []*cobra.Command{buyCmd, sellCmd} {
		c.Flags().StringVar(&tradeCommission, "commission", "", "commission amount")
		c.Flags().StringVar(&tradeCommissionAsset, "commission-asset", "", "asset the commission was paid in")
		c.Flags().StringVar(&tradeOrderID, "order-id", "", "exchange order id")
		c.Flags().StringVar(&tradeNotes, "notes", "", "free-text notes")
		c.Flags().StringVar(&tradeStopLoss, "sl", "", "stop-loss hint")
		c.Flags().StringVar(&tradeTakeProfit1, "tp1", "", "first take-profit hint")
		c.Flags().StringVar(&tradeTakeProfit2, "tp2", "", "second take-profit hint")
		c.Flags().StringVar(&tradeTakeProfit3, "tp3", "", "third take-profit hint")
		c.Flags().StringVar(&tradeTime, "time", "", "fill time, YYYY-MM-DD HH:MM:SS (default now)")
		rootCmd.AddCommand(c)
	}
}

func runTrade(c *cobra.Command, tradeType entity.TradeType, args []string) error {
	ctx := c.Context()
	app, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	amount, err := store.ParseDecimal(args[2])
	if err != nil {
		return err
	}
	price, err := store.ParseDecimal(args[3])
	if err != nil {
		return err
	}

	req := ledger.TradeRequest{
		Type:     tradeType,
		Exchange: args[0],
		Symbol:   args[1],
		Amount:   amount,
		Price:    price,
		OrderID:  tradeOrderID,
		Notes:    tradeNotes,
	}
	if req.Commission, err = optionalDecimal(tradeCommission); err != nil {
		return err
	}
	req.CommissionAsset = tradeCommissionAsset
	if req.StopLoss, err = optionalDecimal(tradeStopLoss); err != nil {
		return err
	}
	if req.TakeProfit1, err = optionalDecimal(tradeTakeProfit1); err != nil {
		return err
	}
	if req.TakeProfit2, err = optionalDecimal(tradeTakeProfit2); err != nil {
		return err
	}
	if req.TakeProfit3, err = optionalDecimal(tradeTakeProfit3); err != nil {
		return err
	}
	if req.Timestamp, err = optionalTime(tradeTime); err != nil {
		return err
	}

	trade, err := app.ledger.LogTrade(ctx, req)
	if err != nil {
		app.recordCritical(ctx, err)
		return err
	}

	fmt.Printf("%s recorded: %s %s @ %s on %s (id %s)\n",
		trade.Type, trade.Amount, trade.Pair, trade.Price, trade.Exchange, trade.ID)
	return nil
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return store.ParseDecimal(s)
}

func optionalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return store.ParseTime(s)
}
