package hierarchy

import (
	"fmt"

	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Atributos que alimentan el color de una hoja.
const (
	FieldHMGConfidence      = "hmgConfidence"
	FieldDeliveryConfidence = "deliveryConfidence"
	FieldRedThreshold       = "redThreshold"
	FieldAYThreshold        = "aYThreshold"
	FieldGreenThreshold     = "greenThreshold"
	FieldValue              = "value"
)

// confidenceColors ordinal 0..3 → color.
var confidenceColors = []entity.Color{entity.ColorRed, entity.ColorAmber, entity.ColorYellow, entity.ColorGreen}

// ApplyRagRollups devuelve una copia del árbol con Color calculado de abajo hacia arriba.
// No modifica n: los árboles cacheados nunca comparten nodos con el resultado.
//   - Nodo con hijos coloreados: el peor color entre sus hijos (red > amber > yellow > green).
//   - Si no (hoja, o hijos sin color): hmgConfidence/deliveryConfidence, o umbrales sobre value.
func ApplyRagRollups(n *entity.Node) *entity.Node {
	if n == nil {
		return nil
	}
	out := &entity.Node{
		ID:       n.ID,
		PublicID: n.PublicID,
		Category: n.Category,
		Fields:   make(map[string]any, len(n.Fields)),
		Children: make([]*entity.Node, 0, len(n.Children)),
	}
	for k, v := range n.Fields {
		out.Fields[k] = v
	}
	colors := make([]entity.Color, 0, len(n.Children))
	for _, c := range n.Children {
		rc := ApplyRagRollups(c)
		out.Children = append(out.Children, rc)
		if rc.Color != "" {
			colors = append(colors, rc.Color)
		}
	}
	if worst, ok := WorstColor(colors); ok {
		out.Color = worst
		return out
	}
	if c, ok := LeafColor(out.Fields); ok {
		out.Color = c
	}
	return out
}

// WorstColor primer color presente siguiendo el orden fijo de severidad. No es un promedio.
func WorstColor(colors []entity.Color) (entity.Color, bool) {
	present := make(map[entity.Color]struct{}, len(colors))
	for _, c := range colors {
		present[c] = struct{}{}
	}
	for _, c := range entity.Severity {
		if _, ok := present[c]; ok {
			return c, true
		}
	}
	return "", false
}

// LeafColor color propio de un nodo a partir de sus atributos.
func LeafColor(fields map[string]any) (entity.Color, bool) {
	for _, key := range []string{FieldHMGConfidence, FieldDeliveryConfidence} {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if c, ok := ConfidenceColor(v); ok {
			return c, true
		}
	}
	value, ok1 := toDecimal(fields[FieldValue])
	red, ok2 := toDecimal(fields[FieldRedThreshold])
	ay, ok3 := toDecimal(fields[FieldAYThreshold])
	green, ok4 := toDecimal(fields[FieldGreenThreshold])
	if ok1 && ok2 && ok3 && ok4 {
		return ThresholdColor(value, red, ay, green), true
	}
	return "", false
}

// ConfidenceColor ordinal 0/1/2/3 → red/amber/yellow/green.
func ConfidenceColor(v any) (entity.Color, bool) {
	d, ok := toDecimal(v)
	if !ok || !d.IsInteger() {
		return "", false
	}
	i := d.IntPart()
	if i < 0 || i >= int64(len(confidenceColors)) {
		return "", false
	}
	return confidenceColors[i], true
}

// ThresholdColor clasifica value. Solo la rama green es inclusiva (>=); el resto es estricto.
func ThresholdColor(value, red, ay, green decimal.Decimal) entity.Color {
	switch {
	case value.GreaterThanOrEqual(green):
		return entity.ColorGreen
	case value.GreaterThan(ay):
		return entity.ColorYellow
	case value.GreaterThan(red):
		return entity.ColorAmber
	default:
		return entity.ColorRed
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return x, true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case float64:
		return decimal.NewFromFloat(x), true
	case string:
		d, err := decimal.NewFromString(x)
		return d, err == nil
	case bool:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(fmt.Sprint(v))
	return d, err == nil
}
