// Package bootstrap arma los casos de uso según la configuración (almacenamiento y caché).
// Lo comparten cmd/api y cmd/tablero.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/Tablero-api/internal/application/graph"
	"github.com/jhoicas/Tablero-api/internal/application/hierarchy"
	"github.com/jhoicas/Tablero-api/internal/application/importer"
	"github.com/jhoicas/Tablero-api/internal/application/schema"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
	"github.com/jhoicas/Tablero-api/internal/infrastructure/cache"
	"github.com/jhoicas/Tablero-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tablero-api/internal/infrastructure/observability"
	"github.com/jhoicas/Tablero-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tablero-api/pkg/config"
	"github.com/jhoicas/Tablero-api/pkg/logger"
)

// App casos de uso listos para los adaptadores de entrada.
type App struct {
	Categories repository.CategoryRepository
	Tx         importer.TxRunner
	Registry   *schema.Registry
	ImportUC   *importer.ImportUseCase
	Hierarchy  *hierarchy.Service
	History    *graph.HistoryReader
	Metrics    *observability.Metrics
	Gatherer   prometheus.Gatherer
	// Pool nil con STORAGE_DRIVER=memory.
	Pool *pgxpool.Pool

	closers []func() error
}

// Close libera pool y caché.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

type storage struct {
	categories repository.CategoryRepository
	entities   repository.EntityRepository
	entries    repository.FieldEntryRepository
	tx         importer.TxRunner
	reader     repository.GraphReader
	projects   repository.ProjectRepository
}

// New conecta el almacenamiento y la caché configurados y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	app := &App{}

	var st storage
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		m := memory.New()
		st = storage{
			categories: m.Categories(), entities: m.Entities(), entries: m.Entries(),
			tx: m, reader: m, projects: m,
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		app.Pool = pool
		app.closers = append(app.closers, func() error { pool.Close(); return nil })
		st = storage{
			categories: postgres.NewCategoryRepository(pool),
			entities:   postgres.NewEntityRepository(pool),
			entries:    postgres.NewFieldEntryRepository(pool),
			tx:         postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
			reader:     postgres.NewGraphReader(pool),
			projects:   postgres.NewProjectRepository(pool),
		}
	}

	var snapshots hierarchy.SnapshotStore
	switch cfg.Cache.Driver {
	case config.CacheBadger:
		b, err := cache.OpenBadger(cfg.Cache.Dir)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.closers = append(app.closers, b.Close)
		snapshots = b
	default:
		snapshots = cache.NewMemoryStore()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	app.Metrics = observability.NewMetrics(reg)
	app.Gatherer = reg

	app.Categories = st.categories
	app.Tx = st.tx
	app.Registry = schema.NewRegistry(st.categories, st.entities)
	app.Hierarchy = hierarchy.NewService(st.reader, st.projects, snapshots, app.Metrics, log)
	app.ImportUC = importer.NewImportUseCase(app.Registry, st.tx, app.Hierarchy, app.Metrics, log)
	app.History = graph.NewHistoryReader(st.entries)

	log.Info().
		Str("storage", cfg.Storage.Driver).
		Str("cache", cfg.Cache.Driver).
		Msg("casos de uso inicializados")
	return app, nil
}
