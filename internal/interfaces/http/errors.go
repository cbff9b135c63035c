package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tablero-api/internal/application/dto"
	"github.com/jhoicas/Tablero-api/internal/application/importer"
	"github.com/jhoicas/Tablero-api/internal/domain"
)

// writeError traduce errores de dominio a respuestas HTTP. Los fallos no previstos de un lote
// se informan con un mensaje genérico; el detalle queda en el log del caso de uso.
func writeError(c *fiber.Ctx, err error) error {
	var vf *importer.ValidationFailedError
	if errors.As(err, &vf) {
		out := toReportResponse(vf.Report)
		out.Code = "VALIDATION"
		return c.Status(fiber.StatusUnprocessableEntity).JSON(out)
	}
	var se *domain.SchemaError
	if errors.As(err, &se) {
		code := "UNKNOWN_CATEGORY"
		if se.Field != "" {
			code = "UNKNOWN_FIELD"
		}
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: code, Message: se.Error()})
	}
	var re *domain.ReferenceError
	if errors.As(err, &re) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REFERENCE", Message: re.Error()})
	}
	switch {
	case errors.Is(err, domain.ErrConcurrency):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "CONCURRENCY", Message: "almacenamiento ocupado, reintente"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "publicId duplicado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo completar la operación"})
}

func toReportResponse(r *importer.Report) dto.ValidationReportResponse {
	out := dto.ValidationReportResponse{
		Valid:   !r.HasErrors(),
		Columns: make([]dto.ColumnErrorResponse, 0, len(r.Columns)),
		Items:   make([]dto.ItemErrorResponse, 0, len(r.Items)),
	}
	for _, ce := range r.Columns {
		out.Columns = append(out.Columns, dto.ColumnErrorResponse{Column: ce.Column, Error: ce.Error})
	}
	for _, ve := range r.Items {
		out.Items = append(out.Items, dto.ItemErrorResponse{ItemIndex: ve.ItemIndex, Field: ve.Field, Value: ve.Value, Error: ve.Error})
	}
	return out
}
