package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// This file defines the Prometheus metrics that are exposed by the application.

// httpRequestsTotal counts served requests by route pattern, method and status code.
var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "edweather_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

// externalRequestDuration observes outbound calls to the geocoding and forecast APIs.
var externalRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "edweather_external_request_duration_seconds",
	Help:    "Duration of requests to external APIs by host.",
	Buckets: prometheus.DefBuckets,
}, []string{"host"})

var historyOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "edweather_history_operations_total",
	Help: "Search history operations by operation and result.",
}, []string{"operation", "result"})
