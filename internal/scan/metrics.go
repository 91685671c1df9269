package scan

import "github.com/prometheus/client_golang/prometheus"

// Instrumentation counters for the scan driver, the registry/collector
// half of the same client_golang dependency the teacher's Prometheus
// plugin only exercises from the query side (internal/plugins/prometheus
// in the teacher repo reads these kinds of series back out; here we are
// the thing producing them).
var (
	rowsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natscan_rows_emitted_total",
			Help: "Rows emitted by the scan driver, by stream.",
		},
		[]string{"stream"},
	)

	probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natscan_broker_probes_total",
			Help: "Direct-get calls issued against the broker, by stream and outcome.",
		},
		[]string{"stream", "outcome"},
	)

	decodeFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natscan_decode_failures_total",
			Help: "Rows whose payload decode failed, by stream and decoder.",
		},
		[]string{"stream", "decoder"},
	)
)

func init() {
	prometheus.MustRegister(rowsEmitted, probesTotal, decodeFailuresTotal)
}
