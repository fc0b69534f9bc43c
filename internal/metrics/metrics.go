// Package metrics exposes toast store and HTTP activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/colonyops/toaster/internal/core/toast"
)

// Metrics holds the toaster collectors and the registry they are bound to.
type Metrics struct {
	reg *prometheus.Registry

	Actions         *prometheus.CounterVec
	ActiveToasts    prometheus.Gauge
	OpenToasts      prometheus.Gauge
	HTTPRequests    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toaster_actions_total",
				Help: "Total number of store actions dispatched",
			},
			[]string{"action"},
		),
		ActiveToasts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "toaster_active_toasts",
			Help: "Number of toasts held by the store",
		}),
		OpenToasts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "toaster_open_toasts",
			Help: "Number of toasts currently visible",
		}),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "toaster_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "toaster_http_request_duration_seconds",
				Help:    "Histogram of HTTP response durations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
	}

	m.reg.MustRegister(m.Actions, m.ActiveToasts, m.OpenToasts, m.HTTPRequests, m.RequestDuration)
	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Hooks returns store hooks that record every dispatched action.
func (m *Metrics) Hooks() toast.Hooks {
	return toast.Hooks{OnOp: m.observe}
}

func (m *Metrics) observe(op toast.Op, toasts []toast.Toast) {
	m.Actions.WithLabelValues(string(op.Kind)).Inc()

	open := 0
	for _, t := range toasts {
		if t.Open {
			open++
		}
	}
	m.ActiveToasts.Set(float64(len(toasts)))
	m.OpenToasts.Set(float64(open))
}

// ObserveStore registers gauges read from s at scrape time.
func (m *Metrics) ObserveStore(s *toast.Store) {
	m.reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "toaster_pending_expiries",
			Help: "Number of dismissed toasts awaiting removal",
		},
		func() float64 { return float64(s.PendingExpiries()) },
	))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Middleware records request counts and durations. Paths are labelled with
// the matched chi route pattern so ids do not create new series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequests.WithLabelValues(path, r.Method, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}
