package metrics

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Seann-Moser/latency-sampler/server/endpoints"
)

const MetricsPath = "/metrics"

// Metrics holds the target service collectors on a private registry.
type Metrics struct {
	registry       *prometheus.Registry
	totalRequests  *prometheus.CounterVec
	responseStatus *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	oneWayDelay    prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		totalRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Number of requests",
			}, []string{"path"}),
		responseStatus: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "response_status",
				Help: "Status of HTTP response",
			}, []string{"status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_response_time_seconds",
			Help: "Duration of HTTP requests.",
		}, []string{"path"}),
		oneWayDelay: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "one_way_delay_milliseconds",
			Help:    "Delay between the X-Timestamp sent by the client and the moment the request arrived.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
	}
	m.registry.MustRegister(
		m.totalRequests,
		m.responseStatus,
		m.httpDuration,
		m.oneWayDelay,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveOneWayDelay(ms float64) {
	m.oneWayDelay.Observe(ms)
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		timer := prometheus.NewTimer(m.httpDuration.WithLabelValues(path))
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		timer.ObserveDuration()
		m.totalRequests.WithLabelValues(path).Inc()
		m.responseStatus.WithLabelValues(strconv.Itoa(ww.status)).Inc()
	})
}

// Endpoint serves the registry in the Prometheus exposition format.
func (m *Metrics) Endpoint() *endpoints.Endpoint {
	return &endpoints.Endpoint{
		URLPath:     MetricsPath,
		Methods:     []string{http.MethodGet},
		Handler:     promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}),
		Description: "prometheus metrics",
	}
}

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}
