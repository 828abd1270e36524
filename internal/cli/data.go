package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"dexwatch/internal/models"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events [token-id]",
		Short: "List detected events",
		Long:  "List recent detected events, or all events for one token.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			limit, _ := cmd.Flags().GetInt("limit")

			var events []models.StoredEvent
			var err error
			if len(args) == 1 {
				events, err = app.Store.GetEventsForToken(cmd.Context(), args[0])
			} else {
				events, err = app.Store.GetRecentEvents(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(events)
			}

			if len(events) == 0 {
				output.Dim("No events recorded")
				return nil
			}

			output.Bold("%-24s %-14s %-20s %s", "TOKEN", "EVENT", "TIME", "DETAILS")
			for _, ev := range events {
				output.Printf("%-24s %-14s %-20s %s\n",
					truncate(ev.TokenID, 24),
					ev.Kind,
					ev.EventTime.Format("2006-01-02 15:04:05"),
					ev.Details,
				)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 50, "maximum number of events to list")
	return cmd
}

func newSnapshotsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List recent token snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			limit, _ := cmd.Flags().GetInt("limit")

			snaps, err := app.Store.GetRecentSnapshots(cmd.Context(), limit)
			if err != nil {
				return err
			}

			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(snaps)
			}

			if len(snaps) == 0 {
				output.Dim("No snapshots recorded")
				return nil
			}

			output.Bold("%-12s %-24s %12s %14s %12s %10s %s", "SYMBOL", "TOKEN", "PRICE", "LIQUIDITY", "VOLUME", "CHANGE%", "FETCHED")
			for _, s := range snaps {
				output.Printf("%-12s %-24s %12s %14s %12s %10s %s\n",
					s.Symbol,
					truncate(s.TokenID, 24),
					fmtFloat(s.Price),
					fmtFloat(s.Liquidity),
					fmtFloat(s.Volume),
					fmtFloat(s.PriceChange),
					s.FetchedAt.Format("2006-01-02 15:04:05"),
				)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 50, "maximum number of snapshots to list")
	return cmd
}

// snapshotCSV is the CSV export row for token snapshots.
type snapshotCSV struct {
	TokenID     string `csv:"token_id"`
	Symbol      string `csv:"symbol"`
	Developer   string `csv:"developer"`
	Contract    string `csv:"contract"`
	Price       string `csv:"price"`
	Liquidity   string `csv:"liquidity"`
	Volume      string `csv:"volume"`
	PriceChange string `csv:"price_change"`
	Bundled     bool   `csv:"bundled"`
	FetchedAt   string `csv:"fetched_at"`
}

// eventCSV is the CSV export row for detected events.
type eventCSV struct {
	TokenID   string `csv:"token_id"`
	EventType string `csv:"event_type"`
	Details   string `csv:"details"`
	EventTime string `csv:"event_time"`
}

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [snapshots|events]",
		Short: "Export stored data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Store == nil {
				return fmt.Errorf("store unavailable")
			}
			outPath, _ := cmd.Flags().GetString("out")
			limit, _ := cmd.Flags().GetInt("limit")

			switch args[0] {
			case "snapshots":
				return exportSnapshots(cmd, app, outPath, limit)
			case "events":
				return exportEvents(cmd, app, outPath, limit)
			default:
				return fmt.Errorf("unknown export target %q (want snapshots or events)", args[0])
			}
		},
	}

	cmd.Flags().String("out", "", "output file path (default: <target>.csv)")
	cmd.Flags().Int("limit", 0, "maximum number of rows (0 = store default)")
	return cmd
}

func exportSnapshots(cmd *cobra.Command, app *App, outPath string, limit int) error {
	snaps, err := app.Store.GetRecentSnapshots(cmd.Context(), limit)
	if err != nil {
		return err
	}

	rows := make([]snapshotCSV, 0, len(snaps))
	for _, s := range snaps {
		rows = append(rows, snapshotCSV{
			TokenID:     s.TokenID,
			Symbol:      s.Symbol,
			Developer:   s.Developer,
			Contract:    s.Contract,
			Price:       csvFloat(s.Price),
			Liquidity:   csvFloat(s.Liquidity),
			Volume:      csvFloat(s.Volume),
			PriceChange: csvFloat(s.PriceChange),
			Bundled:     s.Bundled,
			FetchedAt:   s.FetchedAt.Format(time.RFC3339),
		})
	}

	return writeCSV(cmd, outPath, "snapshots.csv", &rows, len(rows))
}

func exportEvents(cmd *cobra.Command, app *App, outPath string, limit int) error {
	events, err := app.Store.GetRecentEvents(cmd.Context(), limit)
	if err != nil {
		return err
	}

	rows := make([]eventCSV, 0, len(events))
	for _, ev := range events {
		rows = append(rows, eventCSV{
			TokenID:   ev.TokenID,
			EventType: string(ev.Kind),
			Details:   ev.Details,
			EventTime: ev.EventTime.Format(time.RFC3339),
		})
	}

	return writeCSV(cmd, outPath, "events.csv", &rows, len(rows))
}

func writeCSV(cmd *cobra.Command, outPath, defaultName string, rows interface{}, count int) error {
	if outPath == "" {
		outPath = defaultName
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}

	NewOutput(cmd).Success("Exported %d rows to %s", count, outPath)
	return nil
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func csvFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
