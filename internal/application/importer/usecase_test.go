package importer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablero-api/internal/application/graph"
	"github.com/jhoicas/Tablero-api/internal/application/importer"
	"github.com/jhoicas/Tablero-api/internal/application/schema"
	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
	"github.com/jhoicas/Tablero-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

const seedYAML = `
categories:
  - name: Theme
    publicIdFormat: theme-
    fields:
      - name: title
        displayName: Title
        type: string
        required: true
        priority: 1
  - name: Measure
    publicIdFormat: measure-
    parents:
      - category: Theme
    fields:
      - name: title
        displayName: Title
        type: string
        required: true
        priority: 1
      - name: value
        displayName: Value
        type: float
        priority: 2
`

type fakeCache struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

type fakeMetrics struct {
	mu       sync.Mutex
	statuses []string
	errors   int
}

func (m *fakeMetrics) ObserveImport(_, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, status)
}

func (m *fakeMetrics) ObserveValidationErrors(_ string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors += n
}

type env struct {
	store   *memory.Store
	uc      *importer.ImportUseCase
	cache   *fakeCache
	metrics *fakeMetrics
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	f, err := schema.ParseSeed([]byte(seedYAML))
	require.NoError(t, err)
	store := memory.New()
	require.NoError(t, store.Run(ctx, func(repos graph.Repos) error {
		return schema.Seed(ctx, repos.Categories, f)
	}))
	e := &env{store: store, cache: &fakeCache{}, metrics: &fakeMetrics{}}
	reg := schema.NewRegistry(store.Categories(), store.Entities())
	e.uc = importer.NewImportUseCase(reg, store, e.cache, e.metrics, nil).
		WithClock(func() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) })
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Import
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_AsignaPublicIDsEnOrden(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	res, err := e.uc.Import(ctx, "Theme", []map[string]any{{"Title": "Growth"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"theme-01"}, res.PublicIDs)

	res, err = e.uc.Import(ctx, "Measure", []map[string]any{
		{"Title": "NPS", "Parent Public ID": "theme-01", "Value": 42},
		{"Title": "Churn", "Parent Public ID": "theme-01"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"measure-01", "measure-02"}, res.PublicIDs)
	assert.Equal(t, 2, res.Created)
	assert.Zero(t, res.Updated)
	assert.NotEmpty(t, res.BatchID)
	assert.Equal(t, 2, e.cache.calls, "cada lote confirmado invalida la caché")
	assert.Equal(t, []string{importer.StatusCommitted, importer.StatusCommitted}, e.metrics.statuses)
}

func TestImport_ActualizaSoloCampoCambiado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.uc.Import(ctx, "Theme", []map[string]any{{"Title": "Growth"}})
	require.NoError(t, err)
	_, err = e.uc.Import(ctx, "Measure", []map[string]any{{"Title": "NPS", "Parent Public ID": "theme-01", "Value": 1}})
	require.NoError(t, err)

	res, err := e.uc.Import(ctx, "Measure", []map[string]any{
		{"Public ID": "measure-01", "Title": "NPS", "Parent Public ID": "theme-01", "Value": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	m, err := e.store.Categories().GetByName(ctx, "Measure")
	require.NoError(t, err)
	ent, err := e.store.Entities().GetByPublicID(ctx, m.ID, "measure-01")
	require.NoError(t, err)
	fields, err := e.store.Categories().ListActiveFields(ctx, m.ID)
	require.NoError(t, err)
	byName := map[string]int64{}
	for _, f := range fields {
		byName[f.Name] = f.ID
	}

	titleAudit, err := e.store.Entries().ListAudit(ctx, ent.ID, byName["title"])
	require.NoError(t, err)
	assert.Empty(t, titleAudit)
	valueAudit, err := e.store.Entries().ListAudit(ctx, ent.ID, byName["value"])
	require.NoError(t, err)
	require.Len(t, valueAudit, 1)
	assert.Equal(t, "1", valueAudit[0].Value)
}

func TestImport_ErroresDeValidacionNoEscriben(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Import(ctx, "Measure", []map[string]any{
		{"Title": "NPS", "Parent Public ID": "theme-01", "Value": "mucho"},
	})
	require.Error(t, err)
	var vf *importer.ValidationFailedError
	require.True(t, errors.As(err, &vf))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	// theme-01 no existe todavía (no es una opción) y value no es número.
	assert.Len(t, vf.Report.Items, 2)
	assert.Empty(t, vf.Report.Columns)

	assert.Zero(t, e.cache.calls)
	assert.Equal(t, []string{importer.StatusInvalid}, e.metrics.statuses)
	assert.Equal(t, 2, e.metrics.errors)
}

func TestImport_ErroresDeColumnaAntesQueFilas(t *testing.T) {
	e := newEnv(t)
	report, err := e.uc.Validate(context.Background(), "Measure", []map[string]any{{"Titulo": "NPS", "Value": "x"}})
	require.NoError(t, err)
	assert.True(t, report.HasErrors())
	assert.Len(t, report.Columns, 3) // faltan Parent Public ID y Title; sobra Titulo
	assert.Empty(t, report.Items)
}

func TestImport_LoteAtomico(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, err := e.uc.Import(ctx, "Theme", []map[string]any{{"Title": "Growth"}})
	require.NoError(t, err)
	e.cache.calls = 0

	// Lote válido cuya segunda fila falla al escribir.
	rows := []map[string]any{
		{"Title": "NPS", "Parent Public ID": "theme-01"},
		{"Title": "Churn", "Parent Public ID": "theme-01"},
	}
	report, err := e.uc.Validate(ctx, "Measure", rows)
	require.NoError(t, err)
	require.False(t, report.HasErrors())

	failing := importer.NewImportUseCase(
		schema.NewRegistry(e.store.Categories(), e.store.Entities()),
		failOnSecondRow{e.store}, e.cache, e.metrics, nil,
	)
	_, err = failing.Import(ctx, "Measure", rows)
	require.Error(t, err)

	m, err := e.store.Categories().GetByName(ctx, "Measure")
	require.NoError(t, err)
	ids, err := e.store.Entities().ListPublicIDsByCategories(ctx, []int64{m.ID})
	require.NoError(t, err)
	assert.Empty(t, ids, "ninguna fila del lote queda escrita")
	assert.Equal(t, int64(0), m.CurrentMaxID)
	assert.Zero(t, e.cache.calls)
	assert.Contains(t, e.metrics.statuses, importer.StatusFailed)
}

// failOnSecondRow envuelve el TxRunner y hace fallar la creación de la segunda entidad.
type failOnSecondRow struct {
	store *memory.Store
}

func (f failOnSecondRow) Run(ctx context.Context, fn func(repos graph.Repos) error) error {
	return f.store.Run(ctx, func(repos graph.Repos) error {
		repos.Entities = &countingEntities{EntityRepository: repos.Entities}
		return fn(repos)
	})
}

type countingEntities struct {
	repository.EntityRepository
	creates int
}

func (c *countingEntities) Create(ctx context.Context, e *entity.Entity) error {
	c.creates++
	if c.creates == 2 {
		return errors.New("disco lleno")
	}
	return c.EntityRepository.Create(ctx, e)
}

func TestImport_CategoriaDesconocida(t *testing.T) {
	e := newEnv(t)
	_, err := e.uc.Import(context.Background(), "Nope", []map[string]any{{"Title": "x"}})
	var se *domain.SchemaError
	require.True(t, errors.As(err, &se))
}

func TestImport_FalloDeInvalidacionNoFallaElLote(t *testing.T) {
	e := newEnv(t)
	e.cache.err = errors.New("cache caída")
	res, err := e.uc.Import(context.Background(), "Theme", []map[string]any{{"Title": "Growth"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}
