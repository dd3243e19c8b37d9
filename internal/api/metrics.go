package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credengine",
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint and status code.",
	}, []string{"endpoint", "status"})

	analyzeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "credengine",
		Name:      "analyze_duration_seconds",
		Help:      "Wall time of synchronous analyze requests.",
		Buckets:   prometheus.DefBuckets,
	})

	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "credengine",
		Name:      "analyses_total",
		Help:      "Analysis outcomes by result kind.",
	}, []string{"outcome"})
)
