package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreLatency is the duration of store operations.
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_store_latency",
			Help: "Duration of store operations",
		},
		[]string{"store", "op"},
	)

	// StoreTotalRequests is the total number of store operations.
	StoreTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_store_total_requests",
			Help: "Total number of store operations",
		},
		[]string{"store", "op"},
	)
)
