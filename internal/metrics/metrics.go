package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StoreMetrics struct {
	Requests        *prometheus.CounterVec
	OrdersPlaced    prometheus.Counter
	OrderRejections *prometheus.CounterVec
}

func New() *StoreMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "orders_placed_total",
		Help:      "Orders successfully placed.",
	})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "order_rejections_total",
		Help:      "Order placements rejected, by reason.",
	}, []string{"reason"})

	prometheus.MustRegister(requests, placed, rejections)
	return &StoreMetrics{Requests: requests, OrdersPlaced: placed, OrderRejections: rejections}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
