package observability

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "pearls"

// Prometheus implements every hook interface by recording Prometheus
// metrics.
type Prometheus struct {
	composeDuration *prometheus.HistogramVec
	renderDuration  *prometheus.HistogramVec
	layers          prometheus.Histogram
	cacheOps        *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	httpInflight    prometheus.Gauge
	httpDuration    *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		composeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "compose_duration_seconds",
			Help:      "Time spent generating layer grids.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering outputs, per visualization type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"viz_type", "formats", "status"}),
		layers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "layers",
			Help:      "Number of layers per composition.",
			Buckets:   prometheus.LinearBuckets(1, 2, 8),
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}

	for _, c := range []prometheus.Collector{
		p.composeDuration, p.renderDuration, p.layers,
		p.cacheOps, p.cacheBytes, p.httpInflight, p.httpDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnComposeStart(context.Context, int, int, int) {}

func (p *Prometheus) OnComposeComplete(_ context.Context, layers int, d time.Duration, err error) {
	p.composeDuration.WithLabelValues(status(err)).Observe(d.Seconds())
	if err == nil {
		p.layers.Observe(float64(layers))
	}
}

func (p *Prometheus) OnRenderStart(context.Context, string, []string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, vizType string, formats []string, d time.Duration, err error) {
	p.renderDuration.WithLabelValues(vizType, strings.Join(formats, ","), status(err)).Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string) {
	p.httpInflight.Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	p.httpInflight.Dec()
	p.httpDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
