package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operational metrics
var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maitred_orders_created_total",
		Help: "Orders placed since process start",
	})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maitred_order_transitions_total",
		Help: "Order status transitions",
	}, []string{"from", "to"})

	LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "maitred_live_clients",
		Help: "Connected live-feed websocket clients",
	})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maitred_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// Middleware records request timing per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpDuration.
			WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
