package field

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Mensajes de validación por tipo; se muestran por fila y campo.
var (
	ErrNotBoolean = errors.New("debe ser un valor booleano (true/false, yes/no, y/n, 1/0)")
	ErrNotInteger = errors.New("debe ser un número entero")
	ErrNotFloat   = errors.New("debe ser un número")
	ErrNotDate    = errors.New("debe ser una fecha válida")
	ErrNotOption  = errors.New("no es una de las opciones permitidas")
)

// CleanString recorta espacios y normaliza a NFC para que celdas visualmente iguales comparen iguales.
func CleanString(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}

// Normalize limpia el texto y, para group, lo resuelve contra las opciones sin distinguir mayúsculas.
// Un valor de grupo que no coincide se devuelve limpio para que la validación lo reporte.
func Normalize(t Type, raw string) string {
	s := CleanString(raw)
	switch v := t.(type) {
	case String, Boolean, Integer, Float, Date:
		return s
	case Group:
		if opt, ok := v.Resolve(s); ok {
			return opt
		}
		return s
	default:
		panic(unsupported(t))
	}
}

// Resolve busca la opción equivalente a s (case folding Unicode) y la devuelve con su forma canónica.
func (g Group) Resolve(s string) (string, bool) {
	folder := cases.Fold()
	key := folder.String(CleanString(s))
	for _, opt := range g.Options {
		if folder.String(CleanString(opt)) == key {
			return opt, true
		}
	}
	return "", false
}

// Validate comprueba que raw sea conforme al tipo. raw se asume ya normalizado.
func Validate(t Type, raw string) error {
	switch v := t.(type) {
	case String:
		return nil
	case Boolean:
		if !IsBooleanToken(raw) {
			return ErrNotBoolean
		}
		return nil
	case Integer:
		if _, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err != nil {
			return ErrNotInteger
		}
		return nil
	case Float:
		if _, err := decimal.NewFromString(strings.TrimSpace(raw)); err != nil {
			return ErrNotFloat
		}
		return nil
	case Date:
		if _, ok := ParseDate(raw); !ok {
			return ErrNotDate
		}
		return nil
	case Group:
		if _, ok := v.Resolve(raw); !ok {
			return fmt.Errorf("%q %w: %s", raw, ErrNotOption, strings.Join(v.Options, ", "))
		}
		return nil
	default:
		panic(unsupported(t))
	}
}

// Decode convierte el texto almacenado al valor tipado que consume la presentación.
// Es una transformación pura; si raw no es conforme se devuelve tal cual.
func Decode(t Type, raw string) any {
	switch t.(type) {
	case String, Group:
		return raw
	case Boolean:
		return IsTruthy(raw)
	case Integer:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return raw
		}
		return n
	case Float:
		d, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return raw
		}
		f, _ := d.Float64()
		return f
	case Date:
		d, ok := ParseDate(raw)
		if !ok {
			return raw
		}
		return d.Format(DisplayDateLayout)
	default:
		panic(unsupported(t))
	}
}
