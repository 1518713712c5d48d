package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics: минимальный интерфейс, который используют бизнес-пакеты.
type Metrics interface {
	// ObserveEngineCall отмечает длительность вызова движка и успех/провал.
	ObserveEngineCall(op string, d time.Duration, success bool)
	// CacheHit / CacheMiss: счётчики попаданий/промахов кэша стоимости.
	CacheHit()
	CacheMiss()
	// ReceiptIssued учитывает выданный чек и его сумму.
	ReceiptIssued(total float64)
}

// Noop (для тестов)
type noopMetrics struct{}

func NewNoopMetrics() Metrics { return &noopMetrics{} }

func (n *noopMetrics) ObserveEngineCall(_ string, _ time.Duration, _ bool) {}
func (n *noopMetrics) CacheHit()                                          {}
func (n *noopMetrics) CacheMiss()                                         {}
func (n *noopMetrics) ReceiptIssued(_ float64)                            {}

// Prometheus реализация
type prometheusMetrics struct {
	engineLatency *prometheus.HistogramVec
	engineErrors  *prometheus.CounterVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	receipts      prometheus.Counter
	receiptTotals prometheus.Histogram
}

// NewPrometheusMetrics регистрирует метрики в reg и возвращает реализацию Metrics.
// В main вызывать ровно один раз с prometheus.DefaultRegisterer.
// Для тестов observability.NewNoopMetrics() или отдельный prometheus.NewRegistry().
func NewPrometheusMetrics(reg prometheus.Registerer) Metrics {
	m := &prometheusMetrics{
		engineLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fruit_engine_call_duration_seconds",
			Help:    "Duration of compute engine calls in seconds, labeled by operation and success",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "success"}),
		engineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fruit_engine_errors_total",
			Help: "Number of failed compute engine calls",
		}, []string{"op"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fruit_cost_cache_hits_total",
			Help: "Number of cost lookups served from cache",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fruit_cost_cache_misses_total",
			Help: "Number of cost lookups that went to the engine",
		}),
		receipts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fruit_receipts_total",
			Help: "Number of receipts printed",
		}),
		receiptTotals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fruit_receipt_total_dollars",
			Help:    "Receipt totals in dollars",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
	}

	// Регистрируем метрики (паника, если зарегистрировать дважды).
	reg.MustRegister(m.engineLatency, m.engineErrors, m.cacheHits, m.cacheMisses, m.receipts, m.receiptTotals)

	return m
}

func (m *prometheusMetrics) ObserveEngineCall(op string, d time.Duration, success bool) {
	label := "true"
	if !success {
		label = "false"
		m.engineErrors.WithLabelValues(op).Inc()
	}
	m.engineLatency.WithLabelValues(op, label).Observe(d.Seconds())
}

func (m *prometheusMetrics) CacheHit() {
	m.cacheHits.Inc()
}

func (m *prometheusMetrics) CacheMiss() {
	m.cacheMisses.Inc()
}

func (m *prometheusMetrics) ReceiptIssued(total float64) {
	m.receipts.Inc()
	m.receiptTotals.Observe(total)
}

// Handler отдаёт метрики из g в формате Prometheus.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
