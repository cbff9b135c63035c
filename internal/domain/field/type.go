// Package field define los tipos de atributo dinámicos de una categoría como una unión cerrada
// y las operaciones puras (normalizar, validar, decodificar) que despachan sobre ella.
package field

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jhoicas/Tablero-api/internal/domain"
)

// Nombres de tipo tal como se persisten en category_field.type.
const (
	TypeNameString  = "string"
	TypeNameBoolean = "boolean"
	TypeNameInteger = "integer"
	TypeNameFloat   = "float"
	TypeNameDate    = "date"
	TypeNameGroup   = "group"
)

// Type es la unión cerrada de tipos de campo. Solo los tipos de este paquete la implementan.
type Type interface {
	Name() string
	sealed()
}

type (
	// String texto libre.
	String struct{}
	// Boolean token verdadero/falso de un conjunto fijo.
	Boolean struct{}
	// Integer entero con signo.
	Integer struct{}
	// Float número decimal.
	Float struct{}
	// Date fecha de calendario.
	Date struct{}
	// Group valor restringido a un conjunto de opciones.
	Group struct {
		Options []string
	}
)

func (String) Name() string  { return TypeNameString }
func (Boolean) Name() string { return TypeNameBoolean }
func (Integer) Name() string { return TypeNameInteger }
func (Float) Name() string   { return TypeNameFloat }
func (Date) Name() string    { return TypeNameDate }
func (Group) Name() string   { return TypeNameGroup }

func (String) sealed()  {}
func (Boolean) sealed() {}
func (Integer) sealed() {}
func (Float) sealed()   {}
func (Date) sealed()    {}
func (Group) sealed()   {}

// groupConfig forma del JSON category_field.config para campos group.
type groupConfig struct {
	Options []string `json:"options"`
}

// Parse construye el Type a partir del nombre persistido y su config JSON (solo usado por group).
func Parse(typeName string, config json.RawMessage) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(typeName)) {
	case TypeNameString:
		return String{}, nil
	case TypeNameBoolean:
		return Boolean{}, nil
	case TypeNameInteger:
		return Integer{}, nil
	case TypeNameFloat:
		return Float{}, nil
	case TypeNameDate:
		return Date{}, nil
	case TypeNameGroup:
		var cfg groupConfig
		if len(config) > 0 && string(config) != "null" {
			if err := json.Unmarshal(config, &cfg); err != nil {
				return nil, fmt.Errorf("config de grupo inválida: %w", err)
			}
		}
		return Group{Options: cfg.Options}, nil
	}
	return nil, fmt.Errorf("tipo %q: %w", typeName, domain.ErrUnknownField)
}

// Config serializa la parte configurable del tipo (opciones de group); nil para el resto.
func Config(t Type) json.RawMessage {
	g, ok := t.(Group)
	if !ok {
		return nil
	}
	b, _ := json.Marshal(groupConfig{Options: g.Options})
	return b
}

// unsupported se usa en los default de los switch: la unión es cerrada, llegar aquí es un bug.
func unsupported(t Type) string {
	return fmt.Sprintf("field: tipo no soportado %T", t)
}
