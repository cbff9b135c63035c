package hierarchy

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
	"github.com/jhoicas/Tablero-api/pkg/logger"
)

// Claves de caché.
const (
	KeyPrefix         = "hierarchy:"
	categoryKeyPrefix = KeyPrefix + "category:"
	themeKeyPrefix    = KeyPrefix + "theme:"
)

// Resultados de caché para métricas.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// CategoryKey clave de la jerarquía completa de una categoría.
func CategoryKey(category string) string { return categoryKeyPrefix + category }

// ThemeKey clave de la jerarquía de un Theme concreto.
func ThemeKey(publicID string) string { return themeKeyPrefix + publicID }

// Service materializa el grafo en árboles con colores y los cachea como JSON.
// Un fallo de caché (miss) no es un error: dispara la reconstrucción, una sola vez aunque haya
// llamadas concurrentes. Las construcciones iniciadas antes de Invalidate no se guardan.
type Service struct {
	reader   repository.GraphReader
	projects repository.ProjectRepository
	store    SnapshotStore
	metrics  Metrics
	log      *logger.Logger

	flight singleflight.Group
	mu     sync.Mutex // serializa Set e Invalidate junto con generation
	gen    uint64
}

// NewService construye el materializador. projects, metrics y log pueden ser nil.
func NewService(reader repository.GraphReader, projects repository.ProjectRepository, store SnapshotStore, metrics Metrics, log *logger.Logger) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{reader: reader, projects: projects, store: store, metrics: metrics, log: log}
}

// CreateEntityHierarchy árboles con color de todas las entidades de la categoría.
func (s *Service) CreateEntityHierarchy(ctx context.Context, category string) ([]*entity.Node, error) {
	var roots []*entity.Node
	err := s.cached(ctx, CategoryKey(category), &roots, func(ctx context.Context) (any, error) {
		g, err := s.loadGraph(ctx)
		if err != nil {
			return nil, err
		}
		if !g.HasCategory(category) {
			return nil, &domain.SchemaError{Category: category}
		}
		ids := g.ByCategory(category)
		out := make([]*entity.Node, 0, len(ids))
		for _, id := range ids {
			n, err := MapEntityChildren(g, id)
			if err != nil {
				return nil, err
			}
			out = append(out, n)
		}
		return s.finish(ctx, out)
	})
	return roots, err
}

// CreateEntityHierarchyForTheme árbol con color de un Theme por publicId.
func (s *Service) CreateEntityHierarchyForTheme(ctx context.Context, publicID string) (*entity.Node, error) {
	var root *entity.Node
	err := s.cached(ctx, ThemeKey(publicID), &root, func(ctx context.Context) (any, error) {
		g, err := s.loadGraph(ctx)
		if err != nil {
			return nil, err
		}
		n := g.FindByPublicID(CategoryTheme, publicID)
		if n == nil {
			return nil, domain.ErrNotFound
		}
		tree, err := MapEntityChildren(g, n.ID)
		if err != nil {
			return nil, err
		}
		out, err := s.finish(ctx, []*entity.Node{tree})
		if err != nil {
			return nil, err
		}
		return out[0], nil
	})
	return root, err
}

// Invalidate descarta todas las jerarquías cacheadas. Se llama tras cada importación confirmada:
// un cambio en cualquier categoría puede alterar el color de sus ancestros.
func (s *Service) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if err := s.store.DeletePrefix(ctx, KeyPrefix); err != nil {
		return fmt.Errorf("invalidate hierarchy cache: %w", err)
	}
	s.log.Debug().Uint64("generation", s.gen).Msg("caché de jerarquías invalidada")
	return nil
}

// Refresh invalida la caché y reconstruye las jerarquías de las categorías indicadas.
func (s *Service) Refresh(ctx context.Context, categories ...string) error {
	if err := s.Invalidate(ctx); err != nil {
		return err
	}
	for _, c := range categories {
		if _, err := s.CreateEntityHierarchy(ctx, c); err != nil {
			return fmt.Errorf("refresh %s: %w", c, err)
		}
	}
	return nil
}

func (s *Service) loadGraph(ctx context.Context) (*Graph, error) {
	data, err := s.reader.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	return BuildGraph(data), nil
}

// finish cruza proyectos y aplica el rollup de colores.
func (s *Service) finish(ctx context.Context, trees []*entity.Node) ([]*entity.Node, error) {
	projects := map[string]*entity.ProjectSummary{}
	if s.projects != nil {
		if ids := CollectProjectIDs(trees...); len(ids) > 0 {
			rows, err := s.projects.ListByPublicIDs(ctx, ids)
			if err != nil {
				return nil, fmt.Errorf("list projects: %w", err)
			}
			for _, p := range rows {
				projects[p.PublicID] = p
			}
		}
	}
	out := make([]*entity.Node, 0, len(trees))
	for _, t := range trees {
		out = append(out, ApplyRagRollups(MapProjectsToEntities(t, projects)))
	}
	return out, nil
}

// cached resuelve key desde la caché o con build, y decodifica en dst. Cada llamada decodifica
// su propia copia, así nadie comparte nodos con la instantánea guardada.
func (s *Service) cached(ctx context.Context, key string, dst any, build func(context.Context) (any, error)) error {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("leer caché de jerarquías")
	}
	if ok && err == nil {
		if err := json.Unmarshal(raw, dst); err == nil {
			s.metrics.ObserveCache(CacheHit)
			return nil
		}
		s.log.Warn().Str("key", key).Msg("instantánea corrupta, se reconstruye")
	}
	s.metrics.ObserveCache(CacheMiss)

	// La generación forma parte de la clave: quien llega después de Invalidate no se une
	// a una construcción iniciada antes de la escritura.
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	buildCtx := context.WithoutCancel(ctx)

	v, err, _ := s.flight.Do(fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		start := time.Now()
		val, err := build(buildCtx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, fmt.Errorf("serialize hierarchy: %w", err)
		}
		elapsed := time.Since(start)
		s.metrics.ObserveBuild(elapsed)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			s.log.Debug().Str("key", key).Msg("construcción obsoleta, no se guarda")
			return b, nil
		}
		if err := s.store.Set(buildCtx, key, b); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("guardar caché de jerarquías")
		}
		s.log.Info().Str("key", key).Dur("duration", elapsed).Msg("jerarquía materializada")
		return b, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), dst)
}
