package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cleansight",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route, and status code.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cleansight",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	analysesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cleansight",
		Name:      "analyses_total",
		Help:      "Completed dataset analyses.",
	})

	cleaningOperationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cleansight",
		Name:      "cleaning_operations_total",
		Help:      "Executed cleaning operations.",
	})
)
