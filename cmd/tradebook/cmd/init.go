package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadiminshakov/tradebook/config"
)

var (
	wizardHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Background(highlight).
				Padding(1, 2).
				Bold(true).
				MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}).
			Bold(true).
			MarginTop(1)
)

var initOutPath string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive wizard that writes a config file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().StringVar(&initOutPath, "out", "tradebook.yaml", "where to write the config")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	cfg := config.Default()

	baseCurrency := cfg.BaseCurrency
	tzOffsetStr := "0"
	dataDir := cfg.DataDir
	walDir := cfg.WalDir
	intervalStr := strconv.Itoa(cfg.UpdateIntervalSeconds)

	fmt.Print("\033[H\033[2J")
	fmt.Println(wizardHeaderStyle.Render("TRADEBOOK CONFIG WIZARD"))

	fmt.Println(stepStyle.Render("STEP 1: JOURNAL"))
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base currency").
				Description("Default asset for deposits and equity reporting").
				Value(&baseCurrency),
			huh.NewInput().
				Title("Timezone offset, hours from UTC").
				Validate(validateInt).
				Value(&tzOffsetStr),
			huh.NewInput().
				Title("Data directory").
				Description("CSV tables live here").
				Value(&dataDir),
			huh.NewInput().
				Title("WAL directory").
				Description("Event journal segments live here").
				Value(&walDir),
			huh.NewInput().
				Title("Update interval, seconds").
				Description("Period of the background price refresh and analytics loops").
				Validate(validatePositiveInt).
				Value(&intervalStr),
		),
	).Run()
	if err != nil {
		return err
	}

	cfg.BaseCurrency = baseCurrency
	cfg.TZOffsetHours, _ = strconv.Atoi(tzOffsetStr)
	cfg.DataDir = dataDir
	cfg.WalDir = walDir
	cfg.UpdateIntervalSeconds, _ = strconv.Atoi(intervalStr)

	for {
		fmt.Println(stepStyle.Render("STEP 2: QUOTE SOURCES"))
		var addExchange bool
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Add an exchange quote source?").
					Value(&addExchange),
			),
		).Run(); err != nil {
			return err
		}
		if !addExchange {
			break
		}

		var ex config.ExchangeAccount
		if err := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Exchange").
					Options(
						huh.NewOption("Binance", "binance"),
						huh.NewOption("Bybit", "bybit"),
						huh.NewOption("Hyperliquid", "hyperliquid"),
					).
					Value(&ex.Name),
				huh.NewInput().
					Title("API key").
					Description("Leave empty for hyperliquid").
					Value(&ex.APIKey),
				huh.NewInput().
					Title("Secret").
					Description("API secret, or hex private key for hyperliquid").
					EchoMode(huh.EchoModePassword).
					Value(&ex.Secret),
				huh.NewInput().
					Title("Base URL").
					Description("Optional, for hyperliquid testnet").
					Value(&ex.BaseURL),
			),
		).Run(); err != nil {
			return err
		}
		cfg.Exchanges = append(cfg.Exchanges, ex)
	}

	var confirm bool
	if err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Write config to %s?", initOutPath)).
				Value(&confirm),
		),
	).Run(); err != nil {
		return err
	}
	if !confirm {
		fmt.Println("aborted, nothing written")
		return nil
	}

	if err := config.Save(initOutPath, cfg); err != nil {
		return err
	}
	fmt.Printf("config written to %s\n", initOutPath)
	return nil
}

func validateInt(s string) error {
	_, err := strconv.Atoi(s)
	return err
}

func validatePositiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
