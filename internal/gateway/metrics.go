package gateway

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeOK           = "ok"
	outcomeUnauthorized = "unauthorized"
	outcomeError        = "error"
)

var (
	operationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitgate",
		Subsystem: "gateway",
		Name:      "operations_total",
		Help:      "Gateway operations by name and outcome.",
	}, []string{"operation", "outcome"})
	providerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fitgate",
		Subsystem: "gateway",
		Name:      "provider_call_duration_seconds",
		Help:      "Latency of calls made to the fitness provider.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	authorized = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fitgate",
		Subsystem: "gateway",
		Name:      "authorized",
		Help:      "1 once a gateway in this process has been authorized.",
	})
)

func init() {
	prometheus.MustRegister(operationsTotal, providerDuration, authorized)
}

func recordOperation(op string, outcome string) {
	operationsTotal.WithLabelValues(op, outcome).Inc()
}

func observeProviderCall(op string, start time.Time) {
	providerDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func recordAuthorized() {
	authorized.Set(1)
}
