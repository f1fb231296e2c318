package observability

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/evidly-backend/internal/platform/envutil"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

// Metrics is nil-safe: every method is a no-op on a nil receiver, so callers
// never branch on whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	scoreCalculations   *prometheus.CounterVec
	scoreStageDuration  *prometheus.HistogramVec
	scoringFallbacks    *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	collectorFailures   *prometheus.CounterVec
	scoreEvents         *prometheus.CounterVec
	snapshotSweep       *prometheus.CounterVec

	pgStats   *prometheus.GaugeVec
	redisUp   prometheus.Gauge
	redisPing prometheus.Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics set once. It returns nil when
// disabled.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		m, err := NewMetrics(prometheus.NewRegistry())
		if err != nil {
			if log != nil {
				log.Warn("metrics init failed (continuing without metrics)", "error", err)
			}
			return
		}
		instance = m
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

// NewMetrics registers the service collectors on registry.
func NewMetrics(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{
		registry: registry,
		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total API requests by method/route/status."},
			[]string{"method", "route", "status"},
		),
		apiLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "API request latency in seconds by method/route/status.",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{Name: "http_inflight_requests", Help: "In-flight API requests."}),
		scoreCalculations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "compliance_score_calculations_total", Help: "Jurisdiction score calculations by strategy and outcome."},
			[]string{"scoring_type", "grading_type", "outcome"},
		),
		scoreStageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "compliance_score_duration_seconds",
				Help:    "Duration of each scoring stage in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"stage"},
		),
		scoringFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "compliance_strategy_fallbacks_total", Help: "Unrecognised scoring/grading identifiers resolved to the fallback strategy."},
			[]string{"kind"},
		),
		persistenceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "compliance_persistence_failures_total", Help: "Swallowed audit/snapshot write failures."},
			[]string{"stage"},
		),
		collectorFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "compliance_collector_failures_total", Help: "Signal queries that failed and were treated as empty."},
			[]string{"category"},
		),
		scoreEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "compliance_score_events_total", Help: "score.updated publishes by status."},
			[]string{"status"},
		),
		snapshotSweep: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "compliance_snapshot_sweep_locations_total", Help: "Locations processed by the daily snapshot sweep."},
			[]string{"status"},
		),
		pgStats: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "postgres_pool_stats", Help: "database/sql pool statistics."},
			[]string{"stat"},
		),
		redisUp:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "redis_up", Help: "1 when the last redis ping succeeded."}),
		redisPing: prometheus.NewGauge(prometheus.GaugeOpts{Name: "redis_ping_seconds", Help: "Last redis ping latency."}),
	}
	for _, c := range []prometheus.Collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.scoreCalculations, m.scoreStageDuration, m.scoringFallbacks,
		m.persistenceFailures, m.collectorFailures, m.scoreEvents, m.snapshotSweep,
		m.pgStats, m.redisUp, m.redisPing,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the Prometheus exposition for this metrics set.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog:      log.New(os.Stderr, "metrics handler: ", log.LstdFlags),
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// StartServer exposes /metrics on a dedicated listener until ctx is done.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncScoreCalculation(scoringType, gradingType, outcome string) {
	if m == nil {
		return
	}
	m.scoreCalculations.WithLabelValues(orUnknown(scoringType), orUnknown(gradingType), orUnknown(outcome)).Inc()
}

func (m *Metrics) ObserveScoreStage(stage string, dur time.Duration) {
	if m == nil {
		return
	}
	m.scoreStageDuration.WithLabelValues(orUnknown(stage)).Observe(dur.Seconds())
}

// IncStrategyFallback counts a fallback by kind ("scoring" or "grading").
func (m *Metrics) IncStrategyFallback(kind string) {
	if m == nil {
		return
	}
	m.scoringFallbacks.WithLabelValues(orUnknown(kind)).Inc()
}

func (m *Metrics) IncPersistenceFailure(stage string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(orUnknown(stage)).Inc()
}

func (m *Metrics) IncCollectorFailure(category string) {
	if m == nil {
		return
	}
	m.collectorFailures.WithLabelValues(orUnknown(category)).Inc()
}

func (m *Metrics) IncScoreEvent(status string) {
	if m == nil {
		return
	}
	m.scoreEvents.WithLabelValues(orUnknown(status)).Inc()
}

func (m *Metrics) IncSnapshotSweep(status string) {
	if m == nil {
		return
	}
	m.snapshotSweep.WithLabelValues(orUnknown(status)).Inc()
}

func orUnknown(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}

func scrapeInterval() time.Duration {
	if d := envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 10); d > 0 {
		return d
	}
	return 10 * time.Second
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: postgres stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.pgStats.WithLabelValues("open_connections").Set(float64(stats.OpenConnections))
				m.pgStats.WithLabelValues("in_use").Set(float64(stats.InUse))
				m.pgStats.WithLabelValues("idle").Set(float64(stats.Idle))
				m.pgStats.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
				m.pgStats.WithLabelValues("wait_duration_seconds").Set(stats.WaitDuration.Seconds())
				m.pgStats.WithLabelValues("max_open_connections").Set(float64(stats.MaxOpenConnections))
			}
		}
	}()
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
