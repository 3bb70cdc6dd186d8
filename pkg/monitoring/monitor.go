package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// RecordUpserts 个人纪录落库次数，按维度区分
	RecordUpserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "personal_record_upserts_total",
			Help: "Total number of personal record upserts",
		},
		[]string{"kind"},
	)

	// Recalculations PR全量重算执行次数
	Recalculations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "personal_record_recalculations_total",
			Help: "Total number of full PR recalculations",
		},
	)

	// PostCommitFailures 主事务提交后下游效果的失败次数
	PostCommitFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_commit_effect_failures_total",
			Help: "Total number of failed post-commit effects",
		},
		[]string{"effect"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(RecordUpserts)
	prometheus.MustRegister(Recalculations)
	prometheus.MustRegister(PostCommitFailures)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
