// Package prom implements the observability hooks with Prometheus metrics.
//
// All metrics live under the "molline" namespace:
//
//	molline_parse_total{format,result}
//	molline_serialize_total{result}
//	molline_serialize_duration_seconds
//	molline_serialize_atoms
//	molline_serialize_warnings_total
//	molline_cache_events_total{key_type,event}
//	molline_cache_set_bytes{key_type}
//	molline_http_requests_total{method,route,code}
//	molline_http_request_duration_seconds{method,route}
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/molline/pkg/observability"
)

const namespace = "molline"

// Metrics implements [observability.SerializeHooks],
// [observability.CacheHooks] and [observability.HTTPHooks].
type Metrics struct {
	parseTotal        *prometheus.CounterVec
	serializeTotal    *prometheus.CounterVec
	serializeDuration prometheus.Histogram
	serializeAtoms    prometheus.Histogram
	warningsTotal     prometheus.Counter
	cacheEvents       *prometheus.CounterVec
	cacheSetBytes     *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

var (
	_ observability.SerializeHooks = (*Metrics)(nil)
	_ observability.CacheHooks     = (*Metrics)(nil)
	_ observability.HTTPHooks      = (*Metrics)(nil)
)

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		parseTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_total",
			Help:      "Input records parsed, by format and result.",
		}, []string{"format", "result"}),
		serializeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serialize_total",
			Help:      "Molecules serialized, by result.",
		}, []string{"result"}),
		serializeDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "serialize_duration_seconds",
			Help:      "Time spent serializing one molecule.",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),
		serializeAtoms: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "serialize_atoms",
			Help:      "Atom count of serialized molecules.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 1000},
		}),
		warningsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "serialize_warnings_total",
			Help:      "Stereo warnings reported while serializing.",
		}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Cache hits, misses and writes.",
		}, []string{"key_type", "event"}),
		cacheSetBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cache_set_bytes",
			Help:      "Size of values written to the cache.",
			Buckets:   prometheus.ExponentialBuckets(16, 4, 8),
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register installs m as the global serialize, cache and HTTP hooks.
func (m *Metrics) Register() {
	observability.SetSerializeHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnParse(_ context.Context, format string, _ int, _ time.Duration, err error) {
	m.parseTotal.WithLabelValues(format, result(err)).Inc()
}

func (m *Metrics) OnSerializeStart(context.Context, int) {}

func (m *Metrics) OnSerializeComplete(_ context.Context, atoms, warnings int, d time.Duration, err error) {
	m.serializeTotal.WithLabelValues(result(err)).Inc()
	if err != nil {
		return
	}
	m.serializeDuration.Observe(d.Seconds())
	m.serializeAtoms.Observe(float64(atoms))
	m.warningsTotal.Add(float64(warnings))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheEvents.WithLabelValues(keyType, "set").Inc()
	m.cacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
