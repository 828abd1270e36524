package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dexwatch/internal/config"
	"dexwatch/internal/logging"
	"dexwatch/internal/notify"
	"dexwatch/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-02-10"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.DataStore
	Notifier *notify.MultiNotifier
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, persistence unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	app.Notifier = notify.NewMultiNotifier(cfg, logger)

	rootCmd := &cobra.Command{
		Use:   "dexwatch",
		Short: "dexwatch - token screening and trade signal agent",
		Long: `dexwatch polls token profiles from a market-data API, filters and
verifies each token against configurable rules, persists accepted snapshots
and detected events, and pushes notifications for trade signals.

Use 'dexwatch help <command>' for more information about a command.`,
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
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/dexwatch)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newEventsCmd(app))
	rootCmd.AddCommand(newSnapshotsCmd(app))
	rootCmd.AddCommand(newExportCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("dexwatch v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Filters")
	output.Printf("  Rug Threshold:    %.1f%%\n", cfg.Filters.RugThreshold)
	output.Printf("  Pump Threshold:   %.1f%%\n", cfg.Filters.PumpThreshold)
	output.Printf("  Tier-1 Liquidity: %.0f\n", cfg.Filters.Tier1Liquidity)
	output.Println()

	output.Bold("Blacklists")
	output.Printf("  Coins:      %d entries\n", len(cfg.CoinBlacklist))
	output.Printf("  Developers: %d entries\n", len(cfg.DevBlacklist))
	output.Println()

	output.Bold("Endpoints")
	output.Printf("  Dexscreener:     %s\n", cfg.Endpoints.Dexscreener)
	output.Printf("  Pocket Universe: %s\n", orFallback(cfg.Endpoints.PocketUniverse, "(fallback: volume > 0)"))
	output.Printf("  Rugcheck:        %s\n", orFallback(cfg.Endpoints.Rugcheck, "(fallback: pass open)"))
	output.Println()

	output.Bold("Monitor")
	output.Printf("  Poll Interval:   %s\n", cfg.Monitor.PollInterval)
	output.Printf("  Request Timeout: %s\n", cfg.Monitor.RequestTimeout)
	output.Printf("  Assume Volume Authentic: %v\n", cfg.Monitor.AssumeVolumeAuthentic)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Telegram: %v\n", cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "")
	output.Printf("  Webhook:  %v\n", cfg.Webhook.Enabled)
	output.Printf("  Email:    %v\n", cfg.Email.Enabled)
}

func orFallback(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
