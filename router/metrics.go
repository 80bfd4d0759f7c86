package router

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts router activity. All methods are nil-safe so the engine
// runs unchanged without a registry.
type Metrics struct {
	executions  *prometheus.CounterVec
	steps       prometheus.Counter
	feesCharged *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		executions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "router",
			Name:      "executions_total",
			Help:      "Top-level executions by outcome.",
		}, []string{"status"}),
		steps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "router",
			Name:      "logic_steps_total",
			Help:      "Logic steps dispatched.",
		}),
		feesCharged: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "router",
			Name:      "fees_charged_wei_total",
			Help:      "Fee amounts transferred to the collector, by token.",
		}, []string{"token"}),
	}
}

func (m *Metrics) observeExecution(success bool) {
	if m == nil {
		return
	}

	status := "success"
	if !success {
		status = "failure"
	}

	m.executions.WithLabelValues(status).Inc()
}

func (m *Metrics) observeStep() {
	if m == nil {
		return
	}

	m.steps.Inc()
}

func (m *Metrics) observeFee(token string, amount *big.Int) {
	if m == nil || amount == nil {
		return
	}

	f, _ := new(big.Float).SetInt(amount).Float64()
	m.feesCharged.WithLabelValues(token).Add(f)
}
