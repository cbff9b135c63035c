package dto

import "github.com/go-playground/validator/v10"

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// validate instancia compartida; validator.Validate es seguro para uso concurrente.
var validate = validator.New()

// Validate aplica las etiquetas `validate` del DTO.
func Validate(v any) error {
	return validate.Struct(v)
}
