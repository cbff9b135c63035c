package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tablero-api/internal/application/dto"
	"github.com/jhoicas/Tablero-api/internal/application/graph"
)

// HistoryHandler historial de auditoría de un atributo.
type HistoryHandler struct {
	reader *graph.HistoryReader
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(reader *graph.HistoryReader) *HistoryHandler {
	return &HistoryHandler{reader: reader}
}

// Get godoc
// @Summary      Historial de un valor
// @Tags         entities
// @Security     Bearer
// @Produce      json
// @Param        id       path  int  true  "ID de la entidad"
// @Param        fieldId  path  int  true  "ID del campo"
// @Success      200      {object}  dto.FieldHistoryResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/entities/{id}/history/{fieldId} [get]
func (h *HistoryHandler) Get(c *fiber.Ctx) error {
	entityID, err1 := strconv.ParseInt(c.Params("id"), 10, 64)
	fieldID, err2 := strconv.ParseInt(c.Params("fieldId"), 10, 64)
	if err1 != nil || err2 != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id y fieldId deben ser numéricos"})
	}
	hist, err := h.reader.History(c.UserContext(), entityID, fieldID)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.FieldHistoryResponse{
		EntityID:        entityID,
		CategoryFieldID: fieldID,
		History:         make([]dto.FieldVersionResponse, 0, len(hist.Audit)),
	}
	if cur := hist.Current; cur != nil {
		out.Current = &dto.FieldVersionResponse{Value: cur.Value, CreatedAt: cur.CreatedAt, UpdatedAt: cur.UpdatedAt}
	}
	for _, a := range hist.Audit {
		archived := a.ArchivedAt
		out.History = append(out.History, dto.FieldVersionResponse{
			Value:      a.Value,
			CreatedAt:  a.CreatedAt,
			UpdatedAt:  a.UpdatedAt,
			ArchivedAt: &archived,
		})
	}
	return c.JSON(out)
}
