package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the console's transport and poll loop.
// All methods are nil-safe so library code can run uninstrumented.
type Metrics struct {
	// Backend requests by method and HTTP status
	Requests *prometheus.CounterVec

	// Poll ticks by result ("ok" or "error")
	PollTicks *prometheus.CounterVec

	// Maximum risk score seen in the latest successful poll
	MaxRiskScore prometheus.Gauge
}

// New creates a Metrics instance with all console metrics registered.
func New() *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "accessguard_console_requests_total",
			Help: "Total backend requests by method and HTTP status",
		}, []string{"method", "status"}),

		PollTicks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "accessguard_console_poll_ticks_total",
			Help: "Total audit-log poll ticks by result",
		}, []string{"result"}),

		MaxRiskScore: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "accessguard_console_max_risk_score",
			Help: "Maximum risk score reported by the latest successful poll",
		}),
	}
}

// IncRequest records a completed backend request.
func (m *Metrics) IncRequest(method string, status int) {
	if m != nil {
		m.Requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	}
}

// IncPollTick records a poll tick outcome.
func (m *Metrics) IncPollTick(result string) {
	if m != nil {
		m.PollTicks.WithLabelValues(result).Inc()
	}
}

// SetMaxRiskScore records the latest aggregate risk level.
func (m *Metrics) SetMaxRiskScore(score int) {
	if m != nil {
		m.MaxRiskScore.Set(float64(score))
	}
}
