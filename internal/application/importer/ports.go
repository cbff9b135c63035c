package importer

import (
	"context"

	"github.com/jhoicas/Tablero-api/internal/application/graph"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace Rollback de todo lo escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos graph.Repos) error) error
}

// CacheInvalidator descarta las jerarquías materializadas tras una importación confirmada.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// Metrics contadores de importación; lo implementa observability.Metrics.
type Metrics interface {
	ObserveImport(category, status string)
	ObserveValidationErrors(category string, n int)
}

type noopMetrics struct{}

func (noopMetrics) ObserveImport(string, string)         {}
func (noopMetrics) ObserveValidationErrors(string, int) {}
