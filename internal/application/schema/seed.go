package schema

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/field"
	"github.com/jhoicas/Tablero-api/internal/domain/repository"
)

// SeedFile definición declarativa de categorías y campos (tablero seed -f schema.yaml).
type SeedFile struct {
	Categories []SeedCategory `yaml:"categories"`
}

// SeedCategory una categoría con sus padres permitidos y sus campos.
type SeedCategory struct {
	Name           string       `yaml:"name"`
	PublicIDFormat string       `yaml:"publicIdFormat"`
	Parents        []SeedParent `yaml:"parents"`
	Fields         []SeedField  `yaml:"fields"`
}

// SeedParent categoría padre; Required nil = requerido.
type SeedParent struct {
	Category string `yaml:"category"`
	Required *bool  `yaml:"required"`
}

// SeedField definición de un campo; Active nil = activo.
type SeedField struct {
	Name        string   `yaml:"name"`
	DisplayName string   `yaml:"displayName"`
	Type        string   `yaml:"type"`
	Options     []string `yaml:"options"`
	Required    bool     `yaml:"required"`
	Active      *bool    `yaml:"active"`
	Priority    int      `yaml:"priority"`
	Description string   `yaml:"description"`
}

// ParseSeed decodifica y valida un archivo de esquema YAML.
func ParseSeed(data []byte) (*SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", domain.ErrInvalidInput, err)
	}
	names := map[string]struct{}{}
	for _, c := range f.Categories {
		if c.Name == "" || c.PublicIDFormat == "" {
			return nil, fmt.Errorf("%w: categoría sin name o publicIdFormat", domain.ErrInvalidInput)
		}
		names[c.Name] = struct{}{}
	}
	for _, c := range f.Categories {
		for _, p := range c.Parents {
			if _, ok := names[p.Category]; !ok {
				return nil, fmt.Errorf("%w: %s: categoría padre %q no definida", domain.ErrInvalidInput, c.Name, p.Category)
			}
		}
		for _, fd := range c.Fields {
			if fd.Name == entity.FieldPublicID || fd.Name == entity.FieldParentPublicID {
				return nil, fmt.Errorf("%w: %s: %q es un campo reservado", domain.ErrInvalidInput, c.Name, fd.Name)
			}
			if _, err := fd.fieldType(); err != nil {
				return nil, &domain.SchemaError{Category: c.Name, Field: fd.Name}
			}
		}
	}
	return &f, nil
}

func (f SeedField) fieldType() (field.Type, error) {
	if strings.EqualFold(strings.TrimSpace(f.Type), field.TypeNameGroup) {
		return field.Group{Options: f.Options}, nil
	}
	return field.Parse(f.Type, nil)
}

// Seed aplica el archivo sobre el repositorio, creando o actualizando por nombre.
// Debe ejecutarse dentro de una transacción para que el esquema quede completo o sin cambios.
func Seed(ctx context.Context, categories repository.CategoryRepository, f *SeedFile) error {
	ids := make(map[string]int64, len(f.Categories))
	for _, c := range f.Categories {
		cat := &entity.Category{Name: c.Name, PublicIDFormat: c.PublicIDFormat}
		if err := categories.Upsert(ctx, cat); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Name, err)
		}
		ids[c.Name] = cat.ID
	}
	for _, c := range f.Categories {
		for _, p := range c.Parents {
			required := p.Required == nil || *p.Required
			err := categories.UpsertParent(ctx, entity.CategoryParent{
				CategoryID:       ids[c.Name],
				ParentCategoryID: ids[p.Category],
				IsRequired:       required,
			})
			if err != nil {
				return fmt.Errorf("seed parent %s→%s: %w", c.Name, p.Category, err)
			}
		}
		for _, fd := range c.Fields {
			t, err := fd.fieldType()
			if err != nil {
				return &domain.SchemaError{Category: c.Name, Field: fd.Name}
			}
			display := fd.DisplayName
			if display == "" {
				display = fd.Name
			}
			err = categories.UpsertField(ctx, &entity.CategoryField{
				CategoryID:  ids[c.Name],
				Name:        fd.Name,
				DisplayName: display,
				Type:        t.Name(),
				Config:      field.Config(t),
				IsActive:    fd.Active == nil || *fd.Active,
				IsRequired:  fd.Required,
				Priority:    fd.Priority,
				Description: fd.Description,
			})
			if err != nil {
				return fmt.Errorf("seed field %s.%s: %w", c.Name, fd.Name, err)
			}
		}
	}
	return nil
}
