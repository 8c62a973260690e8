package observability

import (
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deadswitch",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "deadswitch",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	custodyOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deadswitch",
			Subsystem: "custody",
			Name:      "operations_total",
			Help:      "Custody operations by outcome and error kind.",
		},
		[]string{"operation", "outcome", "kind"},
	)
	custodyEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deadswitch",
			Subsystem: "custody",
			Name:      "events_total",
			Help:      "Committed custody events.",
		},
		[]string{"event"},
	)
	custodyDistributed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deadswitch",
			Subsystem: "custody",
			Name:      "distributed_units_total",
			Help:      "Base units distributed to heirs per asset.",
		},
		[]string{"asset"},
	)
	custodyStatus = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "deadswitch",
			Subsystem: "custody",
			Name:      "status",
			Help:      "Wallet status: 0 alive, 1 death_claimed, 2 dead.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			httpDuration,
			custodyOperations,
			custodyEvents,
			custodyDistributed,
			custodyStatus,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordOperation counts one custody call. kind is empty on success.
func RecordOperation(operation, kind string, success bool) {
	RegisterMetrics()
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	custodyOperations.WithLabelValues(operation, outcome, kind).Inc()
}

func RecordEvent(event string, status int) {
	RegisterMetrics()
	custodyEvents.WithLabelValues(event).Inc()
	custodyStatus.Set(float64(status))
}

// RecordDistribution adds amount to the asset counter. Very large amounts lose
// precision in the float conversion.
func RecordDistribution(asset string, amount *big.Int) {
	RegisterMetrics()
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	f, _ := new(big.Float).SetInt(amount).Float64()
	custodyDistributed.WithLabelValues(asset).Add(f)
}
