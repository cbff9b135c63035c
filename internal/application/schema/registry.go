package schema

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/field"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

// Schema categoría resuelta junto con su lista ordenada de definiciones.
type Schema struct {
	Category *entity.Category
	Fields   []entity.FieldDefinition
}

// Registry fuente única del esquema de cada categoría: la usan la importación y la presentación.
type Registry struct {
	categoryRepo repository.CategoryRepository
	entityRepo   repository.EntityRepository
}

// NewRegistry construye el registro de esquemas.
func NewRegistry(categoryRepo repository.CategoryRepository, entityRepo repository.EntityRepository) *Registry {
	return &Registry{categoryRepo: categoryRepo, entityRepo: entityRepo}
}

// FieldDefinitions devuelve la lista ordenada de campos de la categoría. Falla con *domain.SchemaError si no existe.
func (r *Registry) FieldDefinitions(ctx context.Context, categoryName string) ([]entity.FieldDefinition, error) {
	s, err := r.Resolve(ctx, categoryName)
	if err != nil {
		return nil, err
	}
	return s.Fields, nil
}

// Resolve arma el esquema: publicId siempre primero, luego parentPublicId si la categoría tiene
// padres (opciones = publicIds existentes en las categorías padre), y después los campos activos por prioridad.
func (r *Registry) Resolve(ctx context.Context, categoryName string) (*Schema, error) {
	category, err := r.categoryRepo.GetByName(ctx, categoryName)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return nil, &domain.SchemaError{Category: categoryName}
	}

	defs := []entity.FieldDefinition{{
		Name:        entity.FieldPublicID,
		DisplayName: "Public ID",
		Type:        field.String{},
		IsUnique:    true,
		Description: "Identificador público de la entidad; vacío para asignar uno nuevo",
	}}

	parents, err := r.categoryRepo.ListParents(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("list category parents: %w", err)
	}
	if len(parents) > 0 {
		parentIDs := make([]int64, 0, len(parents))
		required := false
		for _, p := range parents {
			parentIDs = append(parentIDs, p.ParentCategoryID)
			required = required || p.IsRequired
		}
		options, err := r.entityRepo.ListPublicIDsByCategories(ctx, parentIDs)
		if err != nil {
			return nil, fmt.Errorf("list parent public ids: %w", err)
		}
		defs = append(defs, entity.FieldDefinition{
			Name:              entity.FieldParentPublicID,
			DisplayName:       "Parent Public ID",
			Type:              field.Group{Options: options},
			IsRequired:        required,
			Description:       "Public ID de la entidad padre (varios separados por coma)",
			IsParentLink:      true,
			Multiple:          true,
			ParentCategoryIDs: parentIDs,
		})
	}

	rows, err := r.categoryRepo.ListActiveFields(ctx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("list category fields: %w", err)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Priority < rows[j].Priority })
	for _, f := range rows {
		t, err := field.Parse(f.Type, f.Config)
		if err != nil {
			return nil, &domain.SchemaError{Category: categoryName, Field: f.Name}
		}
		defs = append(defs, entity.FieldDefinition{
			CategoryFieldID: f.ID,
			Name:            f.Name,
			DisplayName:     f.DisplayName,
			Type:            t,
			IsRequired:      f.IsRequired,
			Description:     f.Description,
			Priority:        f.Priority,
		})
	}
	return &Schema{Category: category, Fields: defs}, nil
}
