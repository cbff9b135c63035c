package field

import (
	"strings"
	"time"
)

// Tokens booleanos aceptados (comparación sin mayúsculas).
var (
	truthyTokens = map[string]struct{}{"true": {}, "yes": {}, "y": {}, "1": {}}
	falseyTokens = map[string]struct{}{"false": {}, "no": {}, "n": {}, "0": {}}
)

// Formatos de fecha aceptados en la importación, en orden de prueba.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	time.RFC3339,
}

// DisplayDateLayout formato con el que se decodifican las fechas para presentación.
const DisplayDateLayout = "02/01/2006"

// IsTruthy indica si raw pertenece al conjunto de tokens verdaderos.
func IsTruthy(raw string) bool {
	_, ok := truthyTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// IsBooleanToken indica si raw es un token verdadero o falso reconocido.
func IsBooleanToken(raw string) bool {
	key := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := truthyTokens[key]; ok {
		return true
	}
	_, ok := falseyTokens[key]
	return ok
}

// ParseDate interpreta raw con los formatos aceptados. time.Parse rechaza fechas fuera de calendario (31/02).
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
