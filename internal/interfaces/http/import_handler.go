package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tablero-api/internal/application/dto"
	"github.com/jhoicas/Tablero-api/internal/application/importer"
)

// ImportHandler validación e importación de lotes tabulares.
type ImportHandler struct {
	uc *importer.ImportUseCase
}

// NewImportHandler construye el handler.
func NewImportHandler(uc *importer.ImportUseCase) *ImportHandler {
	return &ImportHandler{uc: uc}
}

func parseImportRequest(c *fiber.Ctx) (*dto.ImportRequest, error) {
	var in dto.ImportRequest
	if err := c.BodyParser(&in); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(&in); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rows es requerido (1 a 5000 filas)"})
	}
	return &in, nil
}

// Validate godoc
// @Summary      Validar un lote sin escribir
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string             true  "Nombre de la categoría"
// @Param        body  body  dto.ImportRequest  true  "Filas"
// @Success      200   {object}  dto.ValidationReportResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/categories/{name}/validate [post]
func (h *ImportHandler) Validate(c *fiber.Ctx) error {
	in, err := parseImportRequest(c)
	if in == nil {
		return err
	}
	report, err := h.uc.Validate(c.UserContext(), c.Params("name"), in.Rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toReportResponse(report))
}

// Import godoc
// @Summary      Importar un lote (atómico)
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string             true  "Nombre de la categoría"
// @Param        body  body  dto.ImportRequest  true  "Filas"
// @Success      201   {object}  dto.ImportResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationReportResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/categories/{name}/import [post]
func (h *ImportHandler) Import(c *fiber.Ctx) error {
	in, err := parseImportRequest(c)
	if in == nil {
		return err
	}
	res, err := h.uc.Import(c.UserContext(), c.Params("name"), in.Rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ImportResponse{
		BatchID:   res.BatchID,
		Created:   res.Created,
		Updated:   res.Updated,
		PublicIDs: res.PublicIDs,
	})
}
