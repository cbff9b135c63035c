package entity

import "github.com/jhoicas/Tablero-api/internal/domain/field"

// Nombres internos de los campos sintetizados por el registro de esquemas.
const (
	FieldPublicID       = "publicId"
	FieldParentPublicID = "parentPublicId"
)

// FieldDefinition es la vista resuelta de un campo: la consumen la importación y la presentación.
type FieldDefinition struct {
	CategoryFieldID int64 // 0 para campos sintetizados
	Name            string
	DisplayName     string
	Type            field.Type
	IsRequired      bool
	IsUnique        bool
	Description     string
	Priority        int

	// Solo para el campo de enlace al padre.
	IsParentLink      bool
	Multiple          bool
	ParentCategoryIDs []int64
}

// IsSynthesized indica si el campo no tiene fila propia en category_field.
func (d FieldDefinition) IsSynthesized() bool {
	return d.CategoryFieldID == 0
}

// Item fila ya parseada: nombre interno → string, o []string en campos Multiple.
type Item map[string]any
