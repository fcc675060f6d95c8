package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	enginemetrics "github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/metrics"
	"github.com/EspaAdmin/Espa-Roleplay-Development/internal/adapters/persistence"
)

// NewMetricsCommand creates the metrics command with subcommands
func NewMetricsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Prometheus metrics exporter",
		Long: `Serve world metrics for Prometheus to scrape.

Gauges are read from the database at scrape time, so the exporter can run
alongside any number of engine invocations.

Examples:
  espa-engine metrics serve`,
	}

	cmd.AddCommand(newMetricsServeCommand())
	return cmd
}

func newMetricsServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the metrics endpoint until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if !a.cfg.Metrics.Enabled {
				return fmt.Errorf("metrics are disabled; set metrics.enabled or ESPA_METRICS_ENABLED")
			}

			world := enginemetrics.NewWorldCollector(func() (enginemetrics.WorldStats, error) {
				return a.collectWorldStats(cmd.Context())
			})
			if err := a.registry.Register(world); err != nil {
				return fmt.Errorf("metrics registration failed: %w", err)
			}

			addr := fmt.Sprintf("%s:%d", a.cfg.Metrics.Host, a.cfg.Metrics.Port)
			mux := http.NewServeMux()
			mux.Handle(a.cfg.Metrics.Path, promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))

			fmt.Printf("serving metrics on http://%s%s\n", addr, a.cfg.Metrics.Path)
			return http.ListenAndServe(addr, mux)
		},
	}
}

// collectWorldStats reads the scrape-time gauges straight from the tables.
func (a *app) collectWorldStats(ctx context.Context) (enginemetrics.WorldStats, error) {
	var stats enginemetrics.WorldStats

	turnRepo := persistence.NewGormTurnRepository(a.db)
	currentTurn, err := turnRepo.CurrentTurn(ctx)
	if err != nil {
		return stats, err
	}
	stats.CurrentTurn = currentTurn

	db := a.db.WithContext(ctx)
	if err := db.Model(&persistence.StateBuildModel{}).
		Where("status = ?", "pending").Count(&stats.PendingBuilds).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&persistence.TradeOfferModel{}).
		Where("status = ?", "open").Count(&stats.OpenOffers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&persistence.MarketPostModel{}).Count(&stats.MarketPosts).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&persistence.TradeRecordModel{}).Count(&stats.SettledTrades).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
