package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"volwatch/internal/api"
	"volwatch/internal/models"
	"volwatch/pkg/utils"
)

// addServeCommand registers the long-running server command.
func addServeCommand(root *cobra.Command, app *App) {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with periodic snapshot refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(app)
		},
	}
	root.AddCommand(serveCmd)
}

func runServe(app *App) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(app.Config.Server, app.Service, app.Logger)

	// Refresh loop. Retry policy lives here, not in the core: each
	// Refresh call is a clean, side-effect-free rebuild.
	go refreshLoop(ctx, app)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.Logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func refreshLoop(ctx context.Context, app *App) {
	retryCfg := utils.DefaultRetryConfig()
	retryCfg.MaxAttempts = app.Config.Refresh.MaxAttempts

	refresh := func() {
		_, err := utils.RetryWithResult(ctx, retryCfg, func() (*models.Snapshot, error) {
			return app.Service.Refresh(ctx)
		})
		if err != nil {
			app.Logger.Error().Err(err).Msg("Snapshot refresh failed; will retry on next tick")
		}
	}

	refresh()

	ticker := time.NewTicker(app.Config.Refresh.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
