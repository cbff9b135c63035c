package importer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Tablero-api/internal/application/graph"
	"github.com/jhoicas/Tablero-api/internal/application/schema"
	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/pkg/logger"
)

// Estados de lote para métricas y logs.
const (
	StatusCommitted = "committed"
	StatusInvalid   = "invalid"
	StatusFailed    = "failed"
)

// Report informe completo de validación de un lote.
type Report struct {
	Columns []ColumnError     `json:"columns"`
	Items   []ValidationError `json:"items"`
}

// HasErrors indica si el lote no puede importarse.
func (r *Report) HasErrors() bool {
	return len(r.Columns) > 0 || len(r.Items) > 0
}

// ValidationFailedError el lote no pasó la validación; no se escribió nada.
type ValidationFailedError struct {
	Report *Report
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validación: %d errores de columna, %d errores de fila", len(e.Report.Columns), len(e.Report.Items))
}

func (e *ValidationFailedError) Unwrap() error { return domain.ErrInvalidInput }

// ImportResult resultado de un lote confirmado.
type ImportResult struct {
	BatchID   string   `json:"batchId"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	PublicIDs []string `json:"publicIds"`
}

// ImportUseCase valida e importa lotes de filas tabulares en una categoría.
// Política de transacción: todo el lote es atómico (un fallo en cualquier fila deshace el lote entero).
type ImportUseCase struct {
	registry *schema.Registry
	txRunner TxRunner
	cache    CacheInvalidator
	metrics  Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewImportUseCase construye el caso de uso. cache y metrics pueden ser nil.
func NewImportUseCase(registry *schema.Registry, txRunner TxRunner, cache CacheInvalidator, metrics Metrics, log *logger.Logger) *ImportUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ImportUseCase{
		registry: registry,
		txRunner: txRunner,
		cache:    cache,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ImportUseCase) WithClock(now func() time.Time) *ImportUseCase {
	uc.now = now
	return uc
}

// Validate ejecuta la validación completa sin escribir. Los errores de columnas se devuelven
// antes de mirar las filas.
func (uc *ImportUseCase) Validate(ctx context.Context, categoryName string, rows []map[string]any) (*Report, error) {
	_, _, report, err := uc.prepare(ctx, categoryName, rows)
	return report, err
}

func (uc *ImportUseCase) prepare(ctx context.Context, categoryName string, rows []map[string]any) (*schema.Schema, []entity.Item, *Report, error) {
	s, err := uc.registry.Resolve(ctx, categoryName)
	if err != nil {
		return nil, nil, nil, err
	}
	report := &Report{Columns: []ColumnError{}, Items: []ValidationError{}}
	required, allowed := Columns(s.Fields)
	report.Columns = ValidateColumns(receivedColumns(rows), required, allowed)
	if len(report.Columns) > 0 {
		return s, nil, report, nil
	}
	items := ParseItems(rows, s.Fields)
	report.Items = ValidateItems(items, s.Fields)
	return s, items, report, nil
}

// Import valida el lote y, si no hay errores, lo escribe en una única transacción.
// Con errores de validación devuelve *ValidationFailedError con el informe completo.
func (uc *ImportUseCase) Import(ctx context.Context, categoryName string, rows []map[string]any) (*ImportResult, error) {
	s, items, report, err := uc.prepare(ctx, categoryName, rows)
	if err != nil {
		return nil, err
	}
	if report.HasErrors() {
		uc.metrics.ObserveValidationErrors(categoryName, len(report.Columns)+len(report.Items))
		uc.metrics.ObserveImport(categoryName, StatusInvalid)
		return nil, &ValidationFailedError{Report: report}
	}

	result := &ImportResult{BatchID: uuid.New().String(), PublicIDs: make([]string, 0, len(items))}
	now := uc.now()
	err = uc.txRunner.Run(ctx, func(repos graph.Repos) error {
		created, updated := 0, 0
		ids := make([]string, 0, len(items))
		for i, item := range items {
			out, err := graph.ImportEntity(ctx, repos, item, s.Category, s.Fields, now)
			if err != nil {
				return fmt.Errorf("fila %d: %w", i, err)
			}
			if out.Created {
				created++
			} else {
				updated++
			}
			ids = append(ids, out.Entity.PublicID)
		}
		result.Created, result.Updated, result.PublicIDs = created, updated, ids
		return nil
	})
	if err != nil {
		uc.metrics.ObserveImport(categoryName, StatusFailed)
		uc.log.Error().Err(err).
			Str("batch_id", result.BatchID).
			Str("category", categoryName).
			Int("rows", len(items)).
			Msg("importación revertida")
		return nil, err
	}
	uc.metrics.ObserveImport(categoryName, StatusCommitted)
	uc.log.Info().
		Str("batch_id", result.BatchID).
		Str("category", categoryName).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Msg("importación confirmada")

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.log.Warn().Err(err).Str("batch_id", result.BatchID).Msg("invalidar caché de jerarquías")
		}
	}
	return result, nil
}

// receivedColumns columnas presentes en cualquier fila, ordenadas para un informe estable.
func receivedColumns(rows []map[string]any) []string {
	seen := map[string]struct{}{}
	var cols []string
	for _, row := range rows {
		for c := range row {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			cols = append(cols, c)
		}
	}
	sort.Strings(cols)
	return cols
}
