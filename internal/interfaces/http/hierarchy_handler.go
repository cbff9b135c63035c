package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tablero-api/internal/application/dto"
	"github.com/jhoicas/Tablero-api/internal/application/hierarchy"
)

// HierarchyHandler vistas materializadas con color.
type HierarchyHandler struct {
	svc *hierarchy.Service
}

// NewHierarchyHandler construye el handler.
func NewHierarchyHandler(svc *hierarchy.Service) *HierarchyHandler {
	return &HierarchyHandler{svc: svc}
}

// ByCategory godoc
// @Summary      Árboles de una categoría
// @Tags         hierarchy
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre de la categoría"
// @Success      200   {array}   entity.Node
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/hierarchy/categories/{name} [get]
func (h *HierarchyHandler) ByCategory(c *fiber.Ctx) error {
	roots, err := h.svc.CreateEntityHierarchy(c.UserContext(), c.Params("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(roots)
}

// ByTheme godoc
// @Summary      Árbol de un Theme
// @Tags         hierarchy
// @Security     Bearer
// @Produce      json
// @Param        publicId  path  string  true  "publicId del Theme"
// @Success      200       {object}  entity.Node
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/hierarchy/themes/{publicId} [get]
func (h *HierarchyHandler) ByTheme(c *fiber.Ctx) error {
	root, err := h.svc.CreateEntityHierarchyForTheme(c.UserContext(), c.Params("publicId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(root)
}

// Refresh godoc
// @Summary      Invalidar y reconstruir la caché de jerarquías
// @Tags         hierarchy
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.RefreshRequest  false  "Categorías a reconstruir"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/hierarchy/refresh [post]
func (h *HierarchyHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		if err := dto.Validate(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "categories no admite nombres vacíos"})
		}
	}
	if err := h.svc.Refresh(c.UserContext(), in.Categories...); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
