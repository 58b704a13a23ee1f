// internal/pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ShippingQuotes 按目的 Zone、尺寸以及是否可计算统计运费报价次数
	ShippingQuotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mycelium",
		Subsystem: "shipping",
		Name:      "quotes_total",
		Help:      "Shipping quotes computed, by destination zone, size class and whether the cost was determined.",
	}, []string{"zone", "size", "determined"})

	Checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mycelium",
		Subsystem: "order",
		Name:      "checkouts_total",
		Help:      "Checkout attempts by result.",
	}, []string{"result"})

	OrderAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mycelium",
		Subsystem: "order",
		Name:      "total_clp",
		Help:      "Order totals in CLP.",
		Buckets:   prometheus.ExponentialBuckets(5000, 2, 8),
	})

	AIFlowDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mycelium",
		Subsystem: "assistant",
		Name:      "flow_duration_seconds",
		Help:      "Latency of AI flows by flow name and outcome.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"flow", "outcome"})
)
