package dto

// FieldDefinitionResponse definición de un campo tal como la ve el cliente (plantillas de carga).
type FieldDefinitionResponse struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName"`
	Type        string   `json:"type"`
	Options     []string `json:"options,omitempty"`
	IsRequired  bool     `json:"isRequired"`
	IsUnique    bool     `json:"isUnique"`
	Multiple    bool     `json:"multiple,omitempty"`
	Description string   `json:"description,omitempty"`
}

// FieldDefinitionsResponse esquema ordenado de una categoría.
type FieldDefinitionsResponse struct {
	Category string                    `json:"category"`
	Fields   []FieldDefinitionResponse `json:"fields"`
}
