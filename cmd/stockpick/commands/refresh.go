package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pickarena/backend/internal/quote"
	"github.com/pickarena/backend/internal/refresh"
	"github.com/pickarena/backend/internal/store"
	"github.com/pickarena/backend/pkg/config"
	"github.com/pickarena/backend/pkg/database"
	"github.com/pickarena/backend/pkg/httputil"
	"github.com/pickarena/backend/pkg/logger"
	"github.com/pickarena/backend/pkg/metrics"
)

// refreshCmd runs one refresh pass and exits.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh all tracked ticker prices once",
	Long: `Re-resolve every tracked ticker against the quote provider and
write the fresh prices to the store.

Example:
  go run ./cmd/stockpick refresh`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	httpClient := httputil.New(cfg, log)
	resolver := quote.NewClient(cfg, httpClient, log)
	tickerRepo := store.NewTickerRepository(db.Pool)

	refresher := refresh.New(tickerRepo, resolver, log, metrics.New(false))

	summary, err := refresher.RefreshAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	fmt.Printf("Refreshed %d/%d tickers (%d failed)\n",
		summary.Successful, summary.Total, summary.Failed)
	for _, r := range summary.Results {
		if !r.Success {
			fmt.Printf("  %s: %s\n", r.Ticker, r.Error)
		}
	}

	return nil
}
