package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa os coletores da API. Cada instância tem o próprio registry
// (os testes criam várias sem colidir no registry global).
type Metrics struct {
	reg              *prometheus.Registry
	requests         *prometheus.CounterVec
	latency          *prometheus.HistogramVec
	searchResults    prometheus.Histogram
	statsCache       *prometheus.CounterVec
	importedEntities *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "provider_search_total_matches",
			Help:    "Total matches per provider search",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 500, 1000},
		}),
		statsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_stats_cache_total",
			Help: "Stats cache lookups by result (hit|miss|error)",
		}, []string{"result"}),
		importedEntities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "import_entities_total",
			Help: "Entities processed by the import task",
		}, []string{"entity", "outcome"}),
	}
	reg.MustRegister(
		m.requests, m.latency, m.searchResults, m.statsCache, m.importedEntities,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler expõe /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) ObserveSearch(total int64) {
	if m == nil {
		return
	}
	m.searchResults.Observe(float64(total))
}

func (m *Metrics) StatsCache(result string) {
	if m == nil {
		return
	}
	m.statsCache.WithLabelValues(result).Inc()
}

func (m *Metrics) Imported(entity, outcome string, n int) {
	if m == nil {
		return
	}
	m.importedEntities.WithLabelValues(entity, outcome).Add(float64(n))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware usa o pattern da rota do chi como label (evita cardinalidade por id).
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
