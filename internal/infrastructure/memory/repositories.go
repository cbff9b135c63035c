package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository   = (*categoryRepo)(nil)
	_ repository.EntityRepository     = (*entityRepo)(nil)
	_ repository.FieldEntryRepository = (*entryRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

type categoryRepo struct{ v view }

func (r *categoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	defer r.v.read()()
	for _, c := range r.v.st.categories {
		if c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *categoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	defer r.v.read()()
	c, ok := r.v.st.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// GetForUpdate dentro de Run el acceso ya es exclusivo; fuera de Run equivale a GetByID.
func (r *categoryRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Category, error) {
	return r.GetByID(ctx, id)
}

func (r *categoryRepo) UpdateCurrentMaxID(_ context.Context, id, currentMaxID int64) error {
	defer r.v.write()()
	c, ok := r.v.st.categories[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.CurrentMaxID = currentMaxID
	return nil
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	defer r.v.read()()
	out := make([]*entity.Category, 0, len(r.v.st.categories))
	for _, c := range r.v.st.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *categoryRepo) ListParents(_ context.Context, categoryID int64) ([]entity.CategoryParent, error) {
	defer r.v.read()()
	var out []entity.CategoryParent
	for _, p := range r.v.st.parents {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *categoryRepo) ListActiveFields(_ context.Context, categoryID int64) ([]*entity.CategoryField, error) {
	defer r.v.read()()
	var out []*entity.CategoryField
	for _, f := range r.v.st.fields {
		if f.CategoryID == categoryID && f.IsActive {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Upsert por nombre; conserva CurrentMaxID de la fila existente.
func (r *categoryRepo) Upsert(_ context.Context, category *entity.Category) error {
	defer r.v.write()()
	for _, c := range r.v.st.categories {
		if c.Name == category.Name {
			c.PublicIDFormat = category.PublicIDFormat
			category.ID = c.ID
			category.CurrentMaxID = c.CurrentMaxID
			return nil
		}
	}
	r.v.st.lastCategoryID++
	category.ID = r.v.st.lastCategoryID
	cp := *category
	r.v.st.categories[cp.ID] = &cp
	return nil
}

// UpsertField por (categoría, nombre).
func (r *categoryRepo) UpsertField(_ context.Context, f *entity.CategoryField) error {
	defer r.v.write()()
	now := time.Now()
	for _, existing := range r.v.st.fields {
		if existing.CategoryID == f.CategoryID && existing.Name == f.Name {
			f.ID = existing.ID
			f.CreatedAt = existing.CreatedAt
			f.UpdatedAt = now
			cp := *f
			r.v.st.fields[f.ID] = &cp
			return nil
		}
	}
	r.v.st.lastFieldID++
	f.ID = r.v.st.lastFieldID
	f.CreatedAt, f.UpdatedAt = now, now
	cp := *f
	r.v.st.fields[f.ID] = &cp
	return nil
}

func (r *categoryRepo) UpsertParent(_ context.Context, p entity.CategoryParent) error {
	defer r.v.write()()
	for i, existing := range r.v.st.parents {
		if existing.CategoryID == p.CategoryID && existing.ParentCategoryID == p.ParentCategoryID {
			r.v.st.parents[i] = p
			return nil
		}
	}
	r.v.st.parents = append(r.v.st.parents, p)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Entidades y aristas
// ──────────────────────────────────────────────────────────────────────────────

type entityRepo struct{ v view }

func (r *entityRepo) GetByPublicID(_ context.Context, categoryID int64, publicID string) (*entity.Entity, error) {
	defer r.v.read()()
	for _, e := range r.v.st.entities {
		if e.CategoryID == categoryID && e.PublicID == publicID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *entityRepo) FindByPublicID(_ context.Context, categoryIDs []int64, publicID string) (*entity.Entity, error) {
	defer r.v.read()()
	var found *entity.Entity
	for _, e := range r.v.st.entities {
		if e.PublicID != publicID || !slices.Contains(categoryIDs, e.CategoryID) {
			continue
		}
		if found == nil || e.ID < found.ID {
			found = e
		}
	}
	if found == nil {
		return nil, nil
	}
	cp := *found
	return &cp, nil
}

// Create falla con ErrDuplicate si el publicId ya existe en la categoría.
func (r *entityRepo) Create(_ context.Context, e *entity.Entity) error {
	defer r.v.write()()
	for _, existing := range r.v.st.entities {
		if existing.CategoryID == e.CategoryID && existing.PublicID == e.PublicID {
			return domain.ErrDuplicate
		}
	}
	r.v.st.lastEntityID++
	e.ID = r.v.st.lastEntityID
	cp := *e
	r.v.st.entities[e.ID] = &cp
	return nil
}

func (r *entityRepo) ListPublicIDsByCategories(_ context.Context, categoryIDs []int64) ([]string, error) {
	defer r.v.read()()
	var list []*entity.Entity
	for _, e := range r.v.st.entities {
		if slices.Contains(categoryIDs, e.CategoryID) {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.PublicID)
	}
	return out, nil
}

func (r *entityRepo) ListParents(_ context.Context, entityID int64) ([]*entity.Entity, error) {
	defer r.v.read()()
	var out []*entity.Entity
	for edge := range r.v.st.edges {
		if edge.EntityID != entityID {
			continue
		}
		if p, ok := r.v.st.entities[edge.ParentEntityID]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *entityRepo) AddParent(_ context.Context, edge entity.EntityParent) error {
	defer r.v.write()()
	r.v.st.edges[edge] = struct{}{}
	return nil
}

func (r *entityRepo) RemoveParent(_ context.Context, edge entity.EntityParent) error {
	defer r.v.write()()
	delete(r.v.st.edges, edge)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Valores y auditoría
// ──────────────────────────────────────────────────────────────────────────────

type entryRepo struct{ v view }

func (r *entryRepo) Get(_ context.Context, entityID, categoryFieldID int64) (*entity.EntityFieldEntry, error) {
	defer r.v.read()()
	e, ok := r.v.st.entries[entryKey{entityID, categoryFieldID}]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *entryRepo) Upsert(_ context.Context, entry *entity.EntityFieldEntry) error {
	defer r.v.write()()
	key := entryKey{entry.EntityID, entry.CategoryFieldID}
	cp := *entry
	if existing, ok := r.v.st.entries[key]; ok {
		cp.CreatedAt = existing.CreatedAt
	}
	r.v.st.entries[key] = &cp
	return nil
}

func (r *entryRepo) Archive(_ context.Context, entry *entity.EntityFieldEntry, archivedAt time.Time) error {
	defer r.v.write()()
	r.v.st.audit = append(r.v.st.audit, &entity.EntityFieldEntryAudit{
		EntityID:        entry.EntityID,
		CategoryFieldID: entry.CategoryFieldID,
		Value:           entry.Value,
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
		ArchivedAt:      archivedAt,
	})
	return nil
}

func (r *entryRepo) ListAudit(_ context.Context, entityID, categoryFieldID int64) ([]*entity.EntityFieldEntryAudit, error) {
	defer r.v.read()()
	var out []*entity.EntityFieldEntryAudit
	for _, a := range r.v.st.audit {
		if a.EntityID == entityID && a.CategoryFieldID == categoryFieldID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}
