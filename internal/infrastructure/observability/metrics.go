// Package observability define las métricas Prometheus del servicio.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tablero"

// Metrics contadores e histogramas de importación y materialización.
// Implementa importer.Metrics y hierarchy.Metrics.
type Metrics struct {
	ImportBatches    *prometheus.CounterVec
	ValidationErrors *prometheus.CounterVec
	CacheRequests    *prometheus.CounterVec
	BuildSeconds     prometheus.Histogram
}

// NewMetrics crea y registra las métricas en reg (prometheus.DefaultRegisterer en producción).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ImportBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_batches_total",
			Help:      "Lotes de importación por categoría y estado (committed, invalid, failed).",
		}, []string{"category", "status"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Errores de validación reportados por categoría.",
		}, []string{"category"}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hierarchy_cache_requests_total",
			Help:      "Lecturas de la caché de jerarquías por resultado (hit, miss).",
		}, []string{"result"}),
		BuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hierarchy_build_seconds",
			Help:      "Duración de la materialización de una jerarquía.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.ImportBatches, m.ValidationErrors, m.CacheRequests, m.BuildSeconds)
	return m
}

func (m *Metrics) ObserveImport(category, status string) {
	m.ImportBatches.WithLabelValues(category, status).Inc()
}

func (m *Metrics) ObserveValidationErrors(category string, n int) {
	m.ValidationErrors.WithLabelValues(category).Add(float64(n))
}

func (m *Metrics) ObserveCache(result string) {
	m.CacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveBuild(d time.Duration) {
	m.BuildSeconds.Observe(d.Seconds())
}
