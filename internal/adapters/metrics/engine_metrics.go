package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "espa"
	// Subsystem for the economy engine
	subsystem = "engine"
)

// EngineCollector implements common.Metrics over Prometheus collectors.
type EngineCollector struct {
	buildsCompleted prometheus.Counter
	buildsFailed    prometheus.Counter
	tradesSettled   prometheus.Counter
	tradesFailed    prometheus.Counter
	escrowRefunds   prometheus.Counter
	currentTurn     prometheus.Gauge
	turnDuration    prometheus.Histogram
}

// NewEngineCollector creates the engine metrics collector
func NewEngineCollector() *EngineCollector {
	return &EngineCollector{
		buildsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "builds_completed_total",
			Help:      "Total number of pending builds resolved as completed",
		}),
		buildsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "builds_failed_total",
			Help:      "Total number of pending builds resolved as failed",
		}),
		tradesSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "trades_settled_total",
			Help:      "Total number of offers settled successfully",
		}),
		tradesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "trades_failed_total",
			Help:      "Total number of offer settlements that failed and were compensated",
		}),
		escrowRefunds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "escrow_refunds_total",
			Help:      "Total number of escrow refunds (cancellations and failures)",
		}),
		currentTurn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_turn",
			Help:      "The authoritative game turn number",
		}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "turn_duration_seconds",
			Help:      "Wall-clock duration of turn processing",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
	}
}

// Register registers every collector with the given registry
func (c *EngineCollector) Register(registry *prometheus.Registry) error {
	for _, collector := range []prometheus.Collector{
		c.buildsCompleted,
		c.buildsFailed,
		c.tradesSettled,
		c.tradesFailed,
		c.escrowRefunds,
		c.currentTurn,
		c.turnDuration,
	} {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func (c *EngineCollector) BuildCompleted() { c.buildsCompleted.Inc() }
func (c *EngineCollector) BuildFailed()    { c.buildsFailed.Inc() }
func (c *EngineCollector) TradeSettled()   { c.tradesSettled.Inc() }
func (c *EngineCollector) TradeFailed()    { c.tradesFailed.Inc() }
func (c *EngineCollector) EscrowRefunded() { c.escrowRefunds.Inc() }

func (c *EngineCollector) SetCurrentTurn(turn int) {
	c.currentTurn.Set(float64(turn))
}

func (c *EngineCollector) ObserveTurnSeconds(seconds float64) {
	c.turnDuration.Observe(seconds)
}
