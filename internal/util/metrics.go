package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Total number of bookings created",
	})

	BookingsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_cancelled_total",
		Help: "Total number of bookings cancelled",
	})

	BookingsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookings_failed_total",
		Help: "Total number of failed booking attempts",
	}, []string{"reason"})

	InventoryCallLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_call_latency_seconds",
		Help:    "Latency of calls to the ticket inventory service",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	InventoryCallsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_calls_failed_total",
		Help: "Total number of failed inventory service calls",
	}, []string{"operation"})

	PaymentAuthorizationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_authorizations_total",
		Help: "Total number of payment authorization attempts",
	})

	PaymentAuthorizationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_authorization_latency_seconds",
		Help:    "Latency of payment authorization",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
