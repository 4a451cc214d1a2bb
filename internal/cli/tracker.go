package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const oneShotTimeout = 30 * time.Second

// addTrackerCommands registers the one-shot inspection commands.
func addTrackerCommands(root *cobra.Command, app *App) {
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Build and print a fresh snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), oneShotTimeout)
			defer cancel()

			snapshot, err := app.Service.Refresh(ctx)
			if err != nil {
				return err
			}
			return printJSON(snapshot)
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "Build a snapshot and compare it against today's range",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), oneShotTimeout)
			defer cancel()

			if _, err := app.Service.Refresh(ctx); err != nil {
				return err
			}
			comparison, err := app.Service.Compare(ctx)
			if err != nil {
				return err
			}
			return printJSON(comparison)
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print the surprise-ratio history and derived stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := app.Service.HistoricalStats()
			if stats.DaysTracked == 0 {
				fmt.Println("Not enough history yet (need at least 3 recorded days)")
				return nil
			}
			return printJSON(map[string]interface{}{
				"stats":   stats,
				"records": app.Service.History(),
			})
		},
	}

	root.AddCommand(snapshotCmd, compareCmd, historyCmd)
}

// addVersionCommand registers the version command.
func addVersionCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("volwatch %s\n", Version)
		},
	})
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
