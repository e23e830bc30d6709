package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_http_requests_total",
			Help: "Total number of HTTP requests by route, method, and status code",
		},
		[]string{"route", "method", "code"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "burrow_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Devnet lifecycle metrics
	DevnetDeploysTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_devnet_deploys_total",
			Help: "Total number of devnet deploy attempts by outcome",
		},
		[]string{"outcome"},
	)

	DevnetDeletesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_devnet_deletes_total",
			Help: "Total number of devnet delete attempts by outcome",
		},
		[]string{"outcome"},
	)

	// Proxy metrics
	ProxyRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_proxy_requests_total",
			Help: "Total number of proxied requests by target service and outcome",
		},
		[]string{"service", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		DevnetDeploysTotal,
		DevnetDeletesTotal,
		ProxyRequestsTotal,
	)
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
