// Package metrics exposes Prometheus counters and gauges for the client's
// verb traffic, report throughput, and connection state, served by the
// admin HTTP surface's /metrics endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	// VerbsSent counts admin-surface verb requests that completed without
	// error, labeled by verb name. Failed requests are counted by VerbErrors
	// only.
	VerbsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llrpclient_verbs_sent_total",
		Help: "Total number of LLRP requests sent that completed without error, by verb.",
	}, []string{"verb"})

	// VerbErrors counts verb failures, labeled by verb name and error kind
	// (timeout, disconnected, other).
	VerbErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llrpclient_verb_errors_total",
		Help: "Total number of LLRP verb failures, by verb and error kind.",
	}, []string{"verb", "kind"})

	// TagsReported counts individual EPC observations delivered via
	// ROAccessReport.
	TagsReported = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "llrpclient_tags_reported_total",
		Help: "Total number of tag observations delivered in ROAccessReport messages.",
	})

	// ReportsLagged counts report-bus Lagged(n) signals observed by any
	// subscriber, summed across n.
	ReportsLagged = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "llrpclient_reports_lagged_total",
		Help: "Total number of dropped ROAccessReport deliveries across all subscribers.",
	})

	// SessionConnected reports 1 while a session is connected, 0 otherwise.
	SessionConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "llrpclient_session_connected",
		Help: "1 if the client session is currently connected to a reader, 0 otherwise.",
	})
)

func init() {
	registry.MustRegister(VerbsSent, VerbErrors, TagsReported, ReportsLagged, SessionConnected)
}

// Handler returns an http.Handler serving this package's registry in
// Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError})
}
