package graph

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

// Repos repositorios atados a la misma transacción.
type Repos struct {
	Categories repository.CategoryRepository
	Entities   repository.EntityRepository
	Entries    repository.FieldEntryRepository
}

// ImportOutcome resume lo que hizo ImportEntity sobre una entidad.
type ImportOutcome struct {
	Entity        *entity.Entity
	Created       bool
	FieldsChanged int
	EdgesAdded    int
	EdgesRemoved  int
}

// ImportEntity crea o actualiza una entidad a partir de un Item ya validado:
//  1. Resuelve la entidad por publicId o asigna uno nuevo con NextPublicID.
//  2. Crea la fila si no existe.
//  3. Reconcilia las aristas de cada campo de enlace informado (reemplazo, no suma).
//  4. Delega el resto de atributos al almacén de valores.
//
// Un padre inexistente devuelve *domain.ReferenceError; el caller debe abortar la transacción.
func ImportEntity(ctx context.Context, repos Repos, item entity.Item, category *entity.Category, defs []entity.FieldDefinition, now time.Time) (*ImportOutcome, error) {
	out := &ImportOutcome{}

	publicID, _ := item[entity.FieldPublicID].(string)
	var e *entity.Entity
	if publicID != "" {
		found, err := repos.Entities.GetByPublicID(ctx, category.ID, publicID)
		if err != nil {
			return nil, fmt.Errorf("get entity %s: %w", publicID, err)
		}
		e = found
	} else {
		next, err := NextPublicID(ctx, repos.Categories, repos.Entities, category.ID)
		if err != nil {
			return nil, fmt.Errorf("next public id %s: %w", category.Name, err)
		}
		publicID = next
	}
	if e == nil {
		e = &entity.Entity{CategoryID: category.ID, PublicID: publicID, CreatedAt: now}
		if err := repos.Entities.Create(ctx, e); err != nil {
			return nil, fmt.Errorf("create entity %s: %w", publicID, err)
		}
		out.Created = true
	}
	out.Entity = e

	for _, def := range defs {
		if !def.IsParentLink {
			continue
		}
		raw, ok := item[def.Name]
		if !ok {
			continue
		}
		added, removed, err := reconcileParents(ctx, repos.Entities, e, def, StringList(raw))
		if err != nil {
			return nil, err
		}
		out.EdgesAdded += added
		out.EdgesRemoved += removed
	}

	for _, def := range defs {
		if def.IsSynthesized() {
			continue
		}
		raw, ok := item[def.Name]
		if !ok {
			continue
		}
		value := StringValue(raw)
		outcome, err := ImportFieldEntry(ctx, repos.Entries, FieldEntryInput{
			EntityID:        e.ID,
			CategoryFieldID: def.CategoryFieldID,
			Value:           &value,
		}, now)
		if err != nil {
			return nil, fmt.Errorf("import field %s of %s: %w", def.Name, publicID, err)
		}
		if outcome == EntryChanged {
			out.FieldsChanged++
		}
	}
	return out, nil
}

// reconcileParents deja como padres (dentro de las categorías del campo) exactamente los enviados.
func reconcileParents(ctx context.Context, entities repository.EntityRepository, e *entity.Entity, def entity.FieldDefinition, submitted []string) (added, removed int, err error) {
	wanted := make(map[int64]struct{}, len(submitted))
	for _, pid := range submitted {
		parent, err := entities.FindByPublicID(ctx, def.ParentCategoryIDs, pid)
		if err != nil {
			return 0, 0, fmt.Errorf("find parent %s: %w", pid, err)
		}
		if parent == nil {
			return 0, 0, &domain.ReferenceError{Field: def.Name, PublicID: pid}
		}
		wanted[parent.ID] = struct{}{}
	}

	current, err := entities.ListParents(ctx, e.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("list parents of %s: %w", e.PublicID, err)
	}
	have := make(map[int64]struct{}, len(current))
	for _, p := range current {
		if !slices.Contains(def.ParentCategoryIDs, p.CategoryID) {
			continue
		}
		have[p.ID] = struct{}{}
		if _, keep := wanted[p.ID]; keep {
			continue
		}
		if err := entities.RemoveParent(ctx, entity.EntityParent{EntityID: e.ID, ParentEntityID: p.ID}); err != nil {
			return 0, 0, fmt.Errorf("remove parent edge: %w", err)
		}
		removed++
	}
	for id := range wanted {
		if _, ok := have[id]; ok {
			continue
		}
		if err := entities.AddParent(ctx, entity.EntityParent{EntityID: e.ID, ParentEntityID: id}); err != nil {
			return 0, 0, fmt.Errorf("add parent edge: %w", err)
		}
		added++
	}
	return added, removed, nil
}

// StringList interpreta el valor de un campo Multiple.
func StringList(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case string:
		if x == "" {
			return nil
		}
		return []string{x}
	}
	return nil
}

// StringValue texto a almacenar para el valor de un Item.
func StringValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
