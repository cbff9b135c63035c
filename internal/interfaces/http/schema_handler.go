package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tablero-api/internal/application/dto"
	"github.com/jhoicas/Tablero-api/internal/application/schema"
	"github.com/jhoicas/Tablero-api/internal/domain/field"
)

// SchemaHandler expone el esquema de cada categoría.
type SchemaHandler struct {
	registry *schema.Registry
}

// NewSchemaHandler construye el handler.
func NewSchemaHandler(registry *schema.Registry) *SchemaHandler {
	return &SchemaHandler{registry: registry}
}

// Fields godoc
// @Summary      Esquema de una categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre de la categoría"
// @Success      200   {object}  dto.FieldDefinitionsResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{name}/fields [get]
func (h *SchemaHandler) Fields(c *fiber.Ctx) error {
	name := c.Params("name")
	defs, err := h.registry.FieldDefinitions(c.UserContext(), name)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.FieldDefinitionsResponse{Category: name, Fields: make([]dto.FieldDefinitionResponse, 0, len(defs))}
	for _, d := range defs {
		fd := dto.FieldDefinitionResponse{
			Name:        d.Name,
			DisplayName: d.DisplayName,
			Type:        d.Type.Name(),
			IsRequired:  d.IsRequired,
			IsUnique:    d.IsUnique,
			Multiple:    d.Multiple,
			Description: d.Description,
		}
		if g, ok := d.Type.(field.Group); ok {
			fd.Options = g.Options
		}
		out.Fields = append(out.Fields, fd)
	}
	return c.JSON(out)
}
