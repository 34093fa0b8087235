package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vadiminshakov/tradebook/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the background updater status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(c *cobra.Command, _ []string) error {
	ctx := c.Context()
	app, cleanup, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	status, err := app.store.SystemStatus(ctx)
	if err != nil {
		return err
	}
	if status.Row == 0 {
		fmt.Println("no status recorded yet, run the background updater first")
		return nil
	}

	fmt.Printf("status:   %s\n", status.Status)
	fmt.Printf("last run: %s\n", store.FormatTime(status.LastRun))
	if status.Message != "" {
		fmt.Printf("message:  %s\n", status.Message)
	}
	return nil
}
