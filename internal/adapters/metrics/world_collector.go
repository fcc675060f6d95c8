package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// WorldStats is a point-in-time snapshot of the world, gathered at scrape.
type WorldStats struct {
	CurrentTurn   int
	PendingBuilds int64
	OpenOffers    int64
	MarketPosts   int64
	SettledTrades int64
}

// WorldCollector exposes database-derived gauges for the metrics endpoint.
// Unlike EngineCollector it holds no state: every scrape calls the stats
// function and reports whatever the database says right now.
type WorldCollector struct {
	stats func() (WorldStats, error)

	currentTurn   *prometheus.Desc
	pendingBuilds *prometheus.Desc
	openOffers    *prometheus.Desc
	marketPosts   *prometheus.Desc
	settledTrades *prometheus.Desc
	scrapeErrors  prometheus.Counter
}

// NewWorldCollector creates a scrape-time world collector
func NewWorldCollector(stats func() (WorldStats, error)) *WorldCollector {
	fqName := func(name string) string {
		return prometheus.BuildFQName(namespace, "world", name)
	}
	return &WorldCollector{
		stats: stats,
		currentTurn: prometheus.NewDesc(fqName("current_turn"),
			"The authoritative game turn number", nil, nil),
		pendingBuilds: prometheus.NewDesc(fqName("pending_builds"),
			"Builds waiting in the construction queue", nil, nil),
		openOffers: prometheus.NewDesc(fqName("open_offers"),
			"Trade offers currently open", nil, nil),
		marketPosts: prometheus.NewDesc(fqName("market_posts"),
			"Public market posts currently standing", nil, nil),
		settledTrades: prometheus.NewDesc(fqName("settled_trades"),
			"Trades settled since the world began", nil, nil),
		scrapeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "world",
			Name:      "scrape_errors_total",
			Help:      "Scrapes that could not read the world state",
		}),
	}
}

func (c *WorldCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.currentTurn
	ch <- c.pendingBuilds
	ch <- c.openOffers
	ch <- c.marketPosts
	ch <- c.settledTrades
	c.scrapeErrors.Describe(ch)
}

func (c *WorldCollector) Collect(ch chan<- prometheus.Metric) {
	stats, err := c.stats()
	if err != nil {
		c.scrapeErrors.Inc()
		c.scrapeErrors.Collect(ch)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.currentTurn, prometheus.GaugeValue, float64(stats.CurrentTurn))
	ch <- prometheus.MustNewConstMetric(c.pendingBuilds, prometheus.GaugeValue, float64(stats.PendingBuilds))
	ch <- prometheus.MustNewConstMetric(c.openOffers, prometheus.GaugeValue, float64(stats.OpenOffers))
	ch <- prometheus.MustNewConstMetric(c.marketPosts, prometheus.GaugeValue, float64(stats.MarketPosts))
	ch <- prometheus.MustNewConstMetric(c.settledTrades, prometheus.GaugeValue, float64(stats.SettledTrades))
	c.scrapeErrors.Collect(ch)
}
