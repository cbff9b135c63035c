package hierarchy_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablero-api/internal/application/hierarchy"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
)

func leaf(id int64, fields map[string]any) *entity.Node {
	return &entity.Node{ID: id, Category: hierarchy.CategoryMeasure, Fields: fields}
}

func thresholds(value any) map[string]any {
	return map[string]any{
		hierarchy.FieldRedThreshold:   1.0,
		hierarchy.FieldAYThreshold:    2.0,
		hierarchy.FieldGreenThreshold: 3.0,
		hierarchy.FieldValue:          value,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Umbrales
// ──────────────────────────────────────────────────────────────────────────────

func TestThresholdColor_Fronteras(t *testing.T) {
	red, ay, green := decimal.NewFromInt(1), decimal.NewFromInt(2), decimal.NewFromInt(3)
	cases := map[string]entity.Color{
		"0":   entity.ColorRed,
		"1":   entity.ColorRed,
		"1.5": entity.ColorAmber,
		"2":   entity.ColorAmber,
		"2.5": entity.ColorYellow,
		"3":   entity.ColorGreen,
		"9":   entity.ColorGreen,
	}
	for v, want := range cases {
		assert.Equal(t, want, hierarchy.ThresholdColor(decimal.RequireFromString(v), red, ay, green), v)
	}
}

func TestLeafColor_UmbralesDesdeAtributos(t *testing.T) {
	c, ok := hierarchy.LeafColor(thresholds(2.5))
	require.True(t, ok)
	assert.Equal(t, entity.ColorYellow, c)

	// Faltando un umbral no hay color.
	f := thresholds(2.5)
	delete(f, hierarchy.FieldGreenThreshold)
	_, ok = hierarchy.LeafColor(f)
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Confianza
// ──────────────────────────────────────────────────────────────────────────────

func TestConfidenceColor(t *testing.T) {
	for v, want := range map[any]entity.Color{
		int64(0): entity.ColorRed,
		int64(1): entity.ColorAmber,
		2.0:      entity.ColorYellow,
		"3":      entity.ColorGreen,
	} {
		c, ok := hierarchy.ConfidenceColor(v)
		require.True(t, ok, v)
		assert.Equal(t, want, c, v)
	}
	for _, bad := range []any{int64(4), int64(-1), 1.5, "alto", nil, true} {
		_, ok := hierarchy.ConfidenceColor(bad)
		assert.False(t, ok, bad)
	}
}

func TestLeafColor_ConfianzaAntesQueUmbrales(t *testing.T) {
	f := thresholds(9.0)
	f[hierarchy.FieldHMGConfidence] = int64(0)
	c, ok := hierarchy.LeafColor(f)
	require.True(t, ok)
	assert.Equal(t, entity.ColorRed, c)

	f = map[string]any{hierarchy.FieldDeliveryConfidence: int64(2)}
	c, ok = hierarchy.LeafColor(f)
	require.True(t, ok)
	assert.Equal(t, entity.ColorYellow, c)
}

// ──────────────────────────────────────────────────────────────────────────────
// ApplyRagRollups
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyRagRollups_PeorColorSinImportarOrden(t *testing.T) {
	children := [][]int64{{0, 1, 3}, {3, 1, 0}, {1, 0, 3}}
	for _, order := range children {
		root := &entity.Node{ID: 1, Category: hierarchy.CategoryTheme, Fields: map[string]any{}}
		for i, ord := range order {
			root.Children = append(root.Children, leaf(int64(10+i), map[string]any{hierarchy.FieldHMGConfidence: ord}))
		}
		out := hierarchy.ApplyRagRollups(root)
		assert.Equal(t, entity.ColorRed, out.Color, order)
	}
}

func TestApplyRagRollups_Anidado(t *testing.T) {
	root := &entity.Node{ID: 1, Category: hierarchy.CategoryTheme, Fields: map[string]any{}, Children: []*entity.Node{
		{ID: 2, Category: hierarchy.CategoryProject, Fields: map[string]any{}, Children: []*entity.Node{
			leaf(3, thresholds(3.0)),
			leaf(4, thresholds(2.5)),
		}},
		{ID: 5, Category: hierarchy.CategoryProject, Fields: map[string]any{hierarchy.FieldDeliveryConfidence: int64(3)}},
	}}
	out := hierarchy.ApplyRagRollups(root)

	assert.Equal(t, entity.ColorYellow, out.Color)
	assert.Equal(t, entity.ColorYellow, out.Children[0].Color)
	assert.Equal(t, entity.ColorGreen, out.Children[0].Children[0].Color)
	assert.Equal(t, entity.ColorGreen, out.Children[1].Color)
}

func TestApplyRagRollups_HijosSinColorUsaReglasPropias(t *testing.T) {
	root := &entity.Node{ID: 1, Category: hierarchy.CategoryProject,
		Fields:   map[string]any{hierarchy.FieldHMGConfidence: int64(1)},
		Children: []*entity.Node{leaf(2, map[string]any{"title": "sin datos"})},
	}
	out := hierarchy.ApplyRagRollups(root)
	assert.Equal(t, entity.ColorAmber, out.Color)
	assert.Empty(t, out.Children[0].Color)
}

func TestApplyRagRollups_NoModificaEntrada(t *testing.T) {
	child := leaf(2, thresholds(0.0))
	root := &entity.Node{ID: 1, Fields: map[string]any{}, Children: []*entity.Node{child}}
	out := hierarchy.ApplyRagRollups(root)

	assert.Equal(t, entity.ColorRed, out.Color)
	assert.Empty(t, root.Color)
	assert.Empty(t, child.Color)
	assert.NotSame(t, child, out.Children[0])

	out.Fields["x"] = 1
	assert.NotContains(t, root.Fields, "x")
	assert.Nil(t, hierarchy.ApplyRagRollups(nil))
}

func TestWorstColor(t *testing.T) {
	c, ok := hierarchy.WorstColor([]entity.Color{entity.ColorGreen, entity.ColorYellow})
	require.True(t, ok)
	assert.Equal(t, entity.ColorYellow, c)

	_, ok = hierarchy.WorstColor(nil)
	assert.False(t, ok)
}
