// Package metrics exposes Prometheus collectors for the sale and stock flows.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Name:      "checkouts_total",
		Help:      "Checkouts by outcome (committed, reverted, partial, rejected).",
	}, []string{"outcome"})

	CheckoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "warehouse",
		Name:      "checkout_duration_seconds",
		Help:      "Wall time of the checkout write sequence.",
		Buckets:   prometheus.DefBuckets,
	})

	SaleRevenue = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "warehouse",
		Name:      "sale_revenue_total",
		Help:      "Sum of committed sale totals.",
	})

	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Name:      "stock_adjustments_total",
		Help:      "Manual stock adjustments by direction and result.",
	}, []string{"direction", "result"})

	GatewayErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "warehouse",
		Name:      "gateway_errors_total",
		Help:      "Transport failures talking to the document server, by method.",
	}, []string{"method"})
)
