package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dexwatch/internal/dexscreener"
	"dexwatch/internal/screener"
	"dexwatch/internal/verify"
)

func newRunCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the polling loop",
		Long: `Poll the token profile endpoint at a fixed interval, process each
batch through the screening pipeline, and notify on trade signals.
The loop stops on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")
			if interval <= 0 {
				interval = app.Config.Monitor.PollInterval
			}
			return runLoop(app, interval)
		},
	}

	cmd.Flags().Duration("interval", 0, "override the poll interval (e.g. 30s)")
	return cmd
}

func newScanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Run a single polling cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, client, err := buildPipeline(app)
			if err != nil {
				return err
			}

			ctx := context.Background()
			batch, err := client.Fetch(ctx)
			if err != nil {
				return fmt.Errorf("fetching token profiles: %w", err)
			}

			stats := pipeline.Process(ctx, batch)

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(stats)
			}
			output.Success("Cycle complete: %d received, %d processed, %d skipped, %d events, %d notified",
				stats.Received, stats.Processed, stats.Skipped, stats.Events, stats.Notified)
			return nil
		},
	}
}

// buildPipeline wires the pipeline from the app's configuration.
func buildPipeline(app *App) (*screener.Pipeline, *dexscreener.Client, error) {
	if app.Store == nil {
		return nil, nil, fmt.Errorf("store unavailable, cannot run pipeline")
	}

	cfg := app.Config
	timeout := cfg.Monitor.RequestTimeout

	client := dexscreener.NewClient(cfg.Endpoints.Dexscreener, timeout)
	volume := verify.NewVolumeVerifier(cfg.Endpoints.PocketUniverse, cfg.Monitor.AssumeVolumeAuthentic, timeout, app.Logger)
	contract := verify.NewContractChecker(cfg.Endpoints.Rugcheck, timeout, app.Logger)

	pipeline := screener.New(screener.Options{
		Config:   *cfg,
		Store:    app.Store,
		Volume:   volume,
		Contract: contract,
		Notifier: app.Notifier,
		Logger:   app.Logger,
	})

	return pipeline, client, nil
}

// runLoop is the fixed-interval poll cycle: fetch, process, sleep, repeat.
// A fetch failure logs and skips straight to the sleep. There is no backoff,
// jitter, or drift correction.
func runLoop(app *App, interval time.Duration) error {
	pipeline, client, err := buildPipeline(app)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	app.Logger.Info().Dur("interval", interval).Msg("dexwatch starting")

	for {
		batch, err := client.Fetch(ctx)
		if err != nil {
			app.Logger.Warn().Err(err).Msg("No data fetched, retrying next cycle")
		} else {
			pipeline.Process(ctx, batch)
		}

		select {
		case <-time.After(interval):
		case sig := <-sigChan:
			app.Logger.Info().Str("signal", sig.String()).Msg("Shutting down gracefully")
			return nil
		}
	}
}
