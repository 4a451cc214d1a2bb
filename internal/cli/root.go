// Package cli provides the command-line interface for the volatility
// tracker.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"volwatch/internal/config"
	"volwatch/internal/logging"
	"volwatch/internal/market"
	"volwatch/internal/tracking"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Service *tracking.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	optionsClient := market.NewDeribitClient(market.DeribitConfig{
		BaseURL:        cfg.Options.BaseURL,
		RequestTimeout: cfg.Options.RequestTimeout,
		RequestsPerSec: cfg.Options.RequestsPerSec,
		Burst:          cfg.Options.Burst,
	}, logger)

	priceClient := market.NewBinanceClient(market.BinanceConfig{
		BaseURL:        cfg.Price.BaseURL,
		QuoteCurrency:  cfg.Price.QuoteCurrency,
		RequestTimeout: cfg.Price.RequestTimeout,
		RequestsPerSec: cfg.Price.RequestsPerSec,
		Burst:          cfg.Price.Burst,
	}, logger)

	app.Service = tracking.NewService(optionsClient, priceClient, cfg.Asset, logger)

	rootCmd := &cobra.Command{
		Use:   "volwatch",
		Short: "volwatch - implied vs realized volatility tracker",
		Long: `volwatch tracks a market's option-implied daily move against the
movement actually observed, and classifies each day's volatility regime.

It derives weekly and monthly option expiries, selects the at-the-money
contract for each, converts implied volatility into an implied daily
dollar move, and maintains a rolling history of daily surprise ratios.

Use 'volwatch serve' to run the HTTP API with periodic refresh, or the
one-shot commands (snapshot, compare, history) for ad-hoc inspection.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/volwatch)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addServeCommand(rootCmd, app)
	addTrackerCommands(rootCmd, app)
	addVersionCommand(rootCmd)

	return rootCmd
}
