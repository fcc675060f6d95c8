package common

// Metrics receives engine counters. The prometheus adapter implements it;
// services fall back to NoOpMetrics when none is wired.
type Metrics interface {
	BuildCompleted()
	BuildFailed()
	TradeSettled()
	TradeFailed()
	EscrowRefunded()
	SetCurrentTurn(turn int)
	ObserveTurnSeconds(seconds float64)
}

// NoOpMetrics discards every observation.
type NoOpMetrics struct{}

func (NoOpMetrics) BuildCompleted()                    {}
func (NoOpMetrics) BuildFailed()                       {}
func (NoOpMetrics) TradeSettled()                      {}
func (NoOpMetrics) TradeFailed()                       {}
func (NoOpMetrics) EscrowRefunded()                    {}
func (NoOpMetrics) SetCurrentTurn(turn int)            {}
func (NoOpMetrics) ObserveTurnSeconds(seconds float64) {}
