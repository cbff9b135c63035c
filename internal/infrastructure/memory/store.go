// Package memory implementa todos los puertos de persistencia sobre un estado en memoria con
// transacciones serializadas: cada Run trabaja sobre una copia y la confirma solo si fn no falla.
// Se usa en modo STORAGE_DRIVER=memory y en los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Tablero-api/internal/application/graph"
	"github.com/jhoicas/Tablero-api/internal/application/importer"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

var (
	_ importer.TxRunner            = (*Store)(nil)
	_ repository.GraphReader       = (*Store)(nil)
	_ repository.ProjectRepository = (*Store)(nil)
)

type entryKey struct {
	entityID int64
	fieldID  int64
}

type state struct {
	categories map[int64]*entity.Category
	parents    []entity.CategoryParent
	fields     map[int64]*entity.CategoryField
	entities   map[int64]*entity.Entity
	edges      map[entity.EntityParent]struct{}
	entries    map[entryKey]*entity.EntityFieldEntry
	audit      []*entity.EntityFieldEntryAudit
	projects   map[string]*entity.ProjectSummary

	lastCategoryID int64
	lastFieldID    int64
	lastEntityID   int64
}

func newState() state {
	return state{
		categories: map[int64]*entity.Category{},
		fields:     map[int64]*entity.CategoryField{},
		entities:   map[int64]*entity.Entity{},
		edges:      map[entity.EntityParent]struct{}{},
		entries:    map[entryKey]*entity.EntityFieldEntry{},
		projects:   map[string]*entity.ProjectSummary{},
	}
}

func (s state) clone() state {
	out := newState()
	for k, v := range s.categories {
		c := *v
		out.categories[k] = &c
	}
	out.parents = append([]entity.CategoryParent(nil), s.parents...)
	for k, v := range s.fields {
		f := *v
		out.fields[k] = &f
	}
	for k, v := range s.entities {
		e := *v
		out.entities[k] = &e
	}
	for k := range s.edges {
		out.edges[k] = struct{}{}
	}
	for k, v := range s.entries {
		e := *v
		out.entries[k] = &e
	}
	out.audit = make([]*entity.EntityFieldEntryAudit, 0, len(s.audit))
	for _, a := range s.audit {
		c := *a
		out.audit = append(out.audit, &c)
	}
	for k, v := range s.projects {
		p := *v
		out.projects[k] = &p
	}
	out.lastCategoryID = s.lastCategoryID
	out.lastFieldID = s.lastFieldID
	out.lastEntityID = s.lastEntityID
	return out
}

// Store almacén en memoria. Las escrituras fuera de Run son atómicas por operación.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	st := newState()
	return &Store{st: &st}
}

// view acceso al estado; mu nil dentro de una transacción (ya se tiene el lock exclusivo).
type view struct {
	st *state
	mu *sync.RWMutex
}

func (v view) read() func() {
	if v.mu == nil {
		return func() {}
	}
	v.mu.RLock()
	return v.mu.RUnlock
}

func (v view) write() func() {
	if v.mu == nil {
		return func() {}
	}
	v.mu.Lock()
	return v.mu.Unlock
}

func (s *Store) live() view { return view{st: s.st, mu: &s.mu} }

// Categories repositorio de categorías fuera de transacción.
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s.live()} }

// Entities repositorio de entidades fuera de transacción.
func (s *Store) Entities() repository.EntityRepository { return &entityRepo{s.live()} }

// Entries repositorio de valores fuera de transacción.
func (s *Store) Entries() repository.FieldEntryRepository { return &entryRepo{s.live()} }

// Run ejecuta fn con acceso exclusivo sobre una copia del estado; la copia reemplaza al estado
// solo si fn termina sin error, así un fallo deshace todas las escrituras de la transacción.
func (s *Store) Run(ctx context.Context, fn func(repos graph.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.st.clone()
	v := view{st: &tx}
	repos := graph.Repos{
		Categories: &categoryRepo{v},
		Entities:   &entityRepo{v},
		Entries:    &entryRepo{v},
	}
	if err := fn(repos); err != nil {
		return err
	}
	*s.st = tx
	return nil
}

// LoadGraph lectura consistente de todo el grafo.
func (s *Store) LoadGraph(_ context.Context) (*entity.GraphData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.st
	data := &entity.GraphData{}
	for _, c := range st.categories {
		cp := *c
		data.Categories = append(data.Categories, &cp)
	}
	active := map[int64]struct{}{}
	for _, f := range st.fields {
		if !f.IsActive {
			continue
		}
		cp := *f
		data.Fields = append(data.Fields, &cp)
		active[f.ID] = struct{}{}
	}
	for _, e := range st.entities {
		cp := *e
		data.Entities = append(data.Entities, &cp)
	}
	for edge := range st.edges {
		data.Edges = append(data.Edges, edge)
	}
	for k, e := range st.entries {
		if _, ok := active[k.fieldID]; !ok {
			continue
		}
		cp := *e
		data.Entries = append(data.Entries, &cp)
	}
	return data, nil
}

// SetProject registra una fila del subsistema de proyectos (seed y tests).
func (s *Store) SetProject(p entity.ProjectSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.projects[p.PublicID] = &p
}

// ListByPublicIDs implementa repository.ProjectRepository.
func (s *Store) ListByPublicIDs(_ context.Context, publicIDs []string) ([]*entity.ProjectSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.ProjectSummary
	for _, id := range publicIDs {
		if p, ok := s.st.projects[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
