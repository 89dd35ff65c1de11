package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusAdapter struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	fixesPublished  prometheus.Counter
	ridesStarted    prometheus.Counter
	ridesCompleted  prometheus.Counter
}

func NewPrometheusAdapter() *PrometheusAdapter {
	return &PrometheusAdapter{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		fixesPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tracking_fixes_published_total",
			Help: "Live fixes accepted into the live store.",
		}),
		ridesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rides_started_total",
			Help: "Rides transitioned to active.",
		}),
		ridesCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rides_completed_total",
			Help: "Rides transitioned to completed.",
		}),
	}
}

func (p *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	p.requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	p.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
}

func (p *PrometheusAdapter) FixPublished() {
	p.fixesPublished.Inc()
}

func (p *PrometheusAdapter) RideStarted() {
	p.ridesStarted.Inc()
}

func (p *PrometheusAdapter) RideCompleted() {
	p.ridesCompleted.Inc()
}
