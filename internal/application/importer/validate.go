package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Tablero-api/internal/application/graph"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/field"
)

// Todas las funciones de este archivo son puras: sin I/O, operan sobre datos planos.

// maxStripDepth profundidad máxima al limpiar valores anidados de una fila.
const maxStripDepth = 8

// Mensajes de error de columnas y filas.
const (
	msgMissingColumn = "columna requerida ausente"
	msgUnknownColumn = "columna no permitida"
	msgRequired      = "es requerido"
	msgDuplicate     = "valor duplicado en la columna"
)

// ColumnError error a nivel de columna, previo a cualquier validación de filas.
type ColumnError struct {
	Column string `json:"column"`
	Error  string `json:"error"`
}

// ValidationError error de una celda (fila, campo).
type ValidationError struct {
	Item           entity.Item            `json:"item"`
	ItemDefinition entity.FieldDefinition `json:"-"`
	Field          string                 `json:"field"`
	Value          any                    `json:"value"`
	Error          string                 `json:"error"`
	ItemIndex      int                    `json:"itemIndex"`
}

// RequiredColumn columna requerida: se da por presente si llega con cualquiera de sus nombres.
type RequiredColumn struct {
	Column  string
	Aliases []string
}

// ValidateColumns marca cada columna requerida que falta en received y cada columna recibida
// que no está en allowed.
func ValidateColumns(received []string, required []RequiredColumn, allowed []string) []ColumnError {
	errs := []ColumnError{}
	got := make(map[string]struct{}, len(received))
	for _, c := range received {
		got[field.CleanString(c)] = struct{}{}
	}
	for _, r := range required {
		if !anyReceived(got, r) {
			errs = append(errs, ColumnError{Column: r.Column, Error: msgMissingColumn})
		}
	}
	permitted := make(map[string]struct{}, len(allowed))
	for _, c := range allowed {
		permitted[field.CleanString(c)] = struct{}{}
	}
	for _, c := range received {
		if _, ok := permitted[field.CleanString(c)]; !ok {
			errs = append(errs, ColumnError{Column: c, Error: msgUnknownColumn})
		}
	}
	return errs
}

func anyReceived(got map[string]struct{}, r RequiredColumn) bool {
	for _, a := range append([]string{r.Column}, r.Aliases...) {
		if _, ok := got[field.CleanString(a)]; ok {
			return true
		}
	}
	return false
}

// Columns devuelve las columnas requeridas y permitidas (visible e interno) del esquema.
// Una columna requerida se reporta por su nombre visible y acepta también el interno.
func Columns(defs []entity.FieldDefinition) (required []RequiredColumn, allowed []string) {
	for _, d := range defs {
		if d.IsRequired {
			r := RequiredColumn{Column: d.DisplayName}
			if d.Name != d.DisplayName {
				r.Aliases = []string{d.Name}
			}
			required = append(required, r)
		}
		allowed = append(allowed, d.DisplayName)
		if d.Name != d.DisplayName {
			allowed = append(allowed, d.Name)
		}
	}
	return required, allowed
}

// ParseItems traduce cada fila cruda (columna visible → celda) a un Item por nombre interno,
// limpia textos, resuelve opciones de grupo sin distinguir mayúsculas y descarta celdas vacías
// para no generar atributos con cadena vacía. Columnas desconocidas se ignoran.
// Si una fila trae el mismo campo por nombre visible y por nombre interno, gana el visible.
func ParseItems(rawRows []map[string]any, defs []entity.FieldDefinition) []entity.Item {
	type target struct {
		def     entity.FieldDefinition
		display bool
	}
	byColumn := make(map[string]target, len(defs)*2)
	for _, d := range defs {
		byColumn[field.CleanString(d.Name)] = target{def: d}
	}
	// El nombre visible tiene prioridad sobre un nombre interno igual de otro campo.
	for _, d := range defs {
		byColumn[field.CleanString(d.DisplayName)] = target{def: d, display: true}
	}

	items := make([]entity.Item, 0, len(rawRows))
	for _, row := range rawRows {
		item := entity.Item{}
		fromDisplay := map[string]bool{}
		cleaned, _ := stripEmpty(row, maxStripDepth)
		cells, _ := cleaned.(map[string]any)
		for col, cell := range cells {
			tg, ok := byColumn[field.CleanString(col)]
			if !ok {
				continue
			}
			name := tg.def.Name
			if !tg.display && fromDisplay[name] {
				continue
			}
			if v, ok := parseCell(tg.def, cell); ok {
				item[name] = v
				if tg.display {
					fromDisplay[name] = true
				}
			}
		}
		items = append(items, item)
	}
	return items
}

func parseCell(def entity.FieldDefinition, cell any) (any, bool) {
	if def.Multiple {
		var parts []string
		for _, s := range cellTexts(cell) {
			for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
				if v := field.Normalize(def.Type, p); v != "" {
					parts = append(parts, v)
				}
			}
		}
		return parts, len(parts) > 0
	}
	texts := cellTexts(cell)
	if len(texts) == 0 {
		return nil, false
	}
	v := field.Normalize(def.Type, strings.Join(texts, ","))
	return v, v != ""
}

// cellTexts convierte una celda ya limpia en sus textos hoja.
func cellTexts(cell any) []string {
	switch v := cell.(type) {
	case nil:
		return nil
	case []any:
		var out []string
		for _, x := range v {
			out = append(out, cellTexts(x)...)
		}
		return out
	case []string:
		return v
	}
	s := toText(cell)
	if s == "" {
		return nil
	}
	return []string{s}
}

func toText(v any) string {
	switch x := v.(type) {
	case string:
		return field.CleanString(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	case fmt.Stringer:
		return field.CleanString(x.String())
	}
	return field.CleanString(fmt.Sprint(v))
}

// stripEmpty elimina recursivamente hojas nil o vacías (profundidad acotada).
// Devuelve false si el valor completo queda vacío.
func stripEmpty(v any, depth int) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case string:
		s := field.CleanString(x)
		return s, s != ""
	case map[string]any:
		if depth <= 0 {
			return x, len(x) > 0
		}
		out := make(map[string]any, len(x))
		for k, val := range x {
			if c, ok := stripEmpty(val, depth-1); ok {
				out[k] = c
			}
		}
		return out, len(out) > 0
	case []any:
		if depth <= 0 {
			return x, len(x) > 0
		}
		out := make([]any, 0, len(x))
		for _, val := range x {
			if c, ok := stripEmpty(val, depth-1); ok {
				out = append(out, c)
			}
		}
		return out, len(out) > 0
	}
	return v, true
}

// ValidateItems revisa cada par (fila, definición) en orden: requerido, único entre filas y tipo.
// Nunca corta a mitad de pasada: devuelve todos los errores del lote.
func ValidateItems(items []entity.Item, defs []entity.FieldDefinition) []ValidationError {
	counts := make(map[string]map[string]int, len(defs))
	for _, d := range defs {
		if !d.IsUnique {
			continue
		}
		c := map[string]int{}
		for _, item := range items {
			if v, ok := item[d.Name]; ok {
				c[graph.StringValue(v)]++
			}
		}
		counts[d.Name] = c
	}

	errs := []ValidationError{}
	for i, item := range items {
		for _, d := range defs {
			v, present := item[d.Name]
			if !present {
				if d.IsRequired {
					errs = append(errs, newValidationError(item, d, nil, msgRequired, i))
				}
				continue
			}
			if d.IsUnique && counts[d.Name][graph.StringValue(v)] > 1 {
				errs = append(errs, newValidationError(item, d, v, msgDuplicate, i))
			}
			values := []string{graph.StringValue(v)}
			if d.Multiple {
				values = graph.StringList(v)
			}
			for _, s := range values {
				if err := field.Validate(d.Type, s); err != nil {
					errs = append(errs, newValidationError(item, d, s, err.Error(), i))
				}
			}
		}
	}
	return errs
}

func newValidationError(item entity.Item, d entity.FieldDefinition, v any, msg string, i int) ValidationError {
	return ValidationError{
		Item:           item,
		ItemDefinition: d,
		Field:          d.Name,
		Value:          v,
		Error:          msg,
		ItemIndex:      i,
	}
}
