package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so several instances can coexist in tests.
// All Observe/Set methods are safe on a nil receiver.
type Metrics struct {
	registry     *prometheus.Registry
	httpLatency  *prometheus.HistogramVec
	signups      *prometheus.CounterVec
	likes        *prometheus.CounterVec
	comments     prometheus.Counter
	chatMessages *prometheus.CounterVec
	onlineUsers  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_requests_latency_seconds",
				Help:    "Latency of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		signups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signups_total",
				Help: "Accounts created, by role.",
			},
			[]string{"role"},
		),
		likes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "post_likes_total",
				Help: "Like and unlike operations.",
			},
			[]string{"action"},
		),
		comments: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "post_comments_total",
				Help: "Comments created.",
			},
		),
		chatMessages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_messages_total",
				Help: "Chat messages processed, by delivery status.",
			},
			[]string{"status"},
		),
		onlineUsers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "chat_online_users",
				Help: "Users with an open chat connection.",
			},
		),
	}

	m.registry.MustRegister(
		m.httpLatency,
		m.signups,
		m.likes,
		m.comments,
		m.chatMessages,
		m.onlineUsers,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request latency labelled by the matched route pattern.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpLatency.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveSignup(role string) {
	if m == nil {
		return
	}
	m.signups.WithLabelValues(role).Inc()
}

func (m *Metrics) ObserveLike(liked bool) {
	if m == nil {
		return
	}
	action := "unlike"
	if liked {
		action = "like"
	}
	m.likes.WithLabelValues(action).Inc()
}

func (m *Metrics) ObserveComment() {
	if m == nil {
		return
	}
	m.comments.Inc()
}

func (m *Metrics) ObserveChatMessage(status string) {
	if m == nil {
		return
	}
	m.chatMessages.WithLabelValues(status).Inc()
}

func (m *Metrics) SetOnlineUsers(n int) {
	if m == nil {
		return
	}
	m.onlineUsers.Set(float64(n))
}
