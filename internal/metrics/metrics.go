// Package metrics provides Prometheus instrumentation for the
// LegitSearch backend: request counters, scoring latency, and match
// outcome counters.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route pattern and status class.
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legitsearch_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "status"})

	// DecisionsTotal counts like/dislike actions.
	DecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "legitsearch_decisions_total",
		Help: "Total number of like/dislike decisions",
	}, []string{"kind"}) // kind = "like" or "dislike"

	// MutualMatchesTotal counts newly detected mutual matches.
	MutualMatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "legitsearch_mutual_matches_total",
		Help: "Total number of mutual matches detected",
	})

	// RankingDuration records how long ranking a candidate pool takes.
	RankingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "legitsearch_ranking_duration_seconds",
		Help:    "Time spent scoring and ranking a candidate pool",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	})

	// MessagesTotal counts direct messages sent.
	MessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "legitsearch_messages_total",
		Help: "Total number of direct messages sent",
	})
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		DecisionsTotal,
		MutualMatchesTotal,
		RankingDuration,
		MessagesTotal,
	)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
