package stats_collector

import (
	"github.com/Depado/ginprom"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/UnownHash/Flyover/feature_repo"
)

const (
	DEFAULT_PROMETHEUS_NAMESPACE = "flyover"
)

type PrometheusConfig struct {
	Enabled    bool      `koanf:"enabled"`
	Token      string    `koanf:"token"`
	BucketSize []float64 `koanf:"bucket_size"`
	Namespace  string    `koanf:"namespace"`
}

func (cfg *PrometheusConfig) Validate() error {
	return nil
}

func GetDefaultPrometheusConfig() PrometheusConfig {
	return PrometheusConfig{
		BucketSize: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		Namespace:  DEFAULT_PROMETHEUS_NAMESPACE,
	}
}

var _ StatsCollector = (*PrometheusCollector)(nil)

type PrometheusCollector struct {
	config   PrometheusConfig
	registry *prometheus.Registry

	fetches        *prometheus.CounterVec
	fetchErrors    *prometheus.CounterVec
	staleDiscarded prometheus.Counter
	overlayApplied prometheus.Counter
}

func (col *PrometheusCollector) Name() string {
	return "prometheus"
}

func (col *PrometheusCollector) Registry() *prometheus.Registry {
	return col.registry
}

func (col *PrometheusCollector) RegisterGinEngine(engine *gin.Engine) {
	p := ginprom.New(
		ginprom.Engine(engine),
		ginprom.Registry(col.registry),
		ginprom.Subsystem("gin"),
		ginprom.Path("/metrics"),
		ginprom.Token(col.config.Token),
		ginprom.BucketSize(col.config.BucketSize),
	)
	engine.Use(p.Instrument())
}

func (col *PrometheusCollector) AddFetch(kind string) {
	col.fetches.WithLabelValues(kind).Inc()
}

func (col *PrometheusCollector) AddFetchError(kind string, err error) {
	col.fetchErrors.WithLabelValues(kind, feature_repo.ErrorKind(err)).Inc()
}

func (col *PrometheusCollector) AddStaleDiscarded() {
	col.staleDiscarded.Inc()
}

func (col *PrometheusCollector) AddOverlayApplied() {
	col.overlayApplied.Inc()
}

func NewPrometheusCollector(config PrometheusConfig) StatsCollector {
	ns := config.Namespace
	if ns == "" {
		ns = DEFAULT_PROMETHEUS_NAMESPACE
	}

	registry := prometheus.NewRegistry()
	collector := &PrometheusCollector{
		config:   config,
		registry: registry,
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "fetches",
				Help:      "Total number of feature collection fetches started",
			},
			[]string{"kind"},
		),
		fetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "fetch_errors",
				Help:      "Total number of feature collection fetches that produced nothing to draw",
			},
			[]string{"kind", "reason"},
		),
		staleDiscarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "stale_results_discarded",
				Help:      "Total number of location overlays dropped because a newer selection was made",
			},
		),
		overlayApplied: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "overlays_applied",
				Help:      "Total number of location overlays shown",
			},
		),
	}

	processOpts := collectors.ProcessCollectorOpts{
		Namespace: ns,
	}

	registry.MustRegister(
		collectors.NewProcessCollector(processOpts),
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.MetricsGC,
				collectors.MetricsMemory,
			),
		),
		collector.fetches,
		collector.fetchErrors,
		collector.staleDiscarded,
		collector.overlayApplied,
	)

	return collector
}
