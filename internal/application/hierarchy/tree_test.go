package hierarchy_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablero-api/internal/application/hierarchy"
	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
)

// sampleGraph Theme(1) → Project(2) → Measure(3 RAYG, 4 variante); Theme(1) → Measure(5 RAYG).
func sampleGraph() *entity.GraphData {
	return &entity.GraphData{
		Categories: []*entity.Category{
			{ID: 1, Name: hierarchy.CategoryTheme},
			{ID: 2, Name: hierarchy.CategoryProject},
			{ID: 3, Name: hierarchy.CategoryMeasure},
			{ID: 4, Name: "Empty"},
		},
		Fields: []*entity.CategoryField{
			{ID: 10, CategoryID: 3, Name: hierarchy.FilterField, Type: "group", Config: []byte(`{"options":["RAYG","None"]}`)},
			{ID: 11, CategoryID: 3, Name: hierarchy.FieldValue, Type: "float"},
			{ID: 12, CategoryID: 2, Name: hierarchy.FieldHMGConfidence, Type: "integer"},
			{ID: 13, CategoryID: 1, Name: "title", Type: "string"},
		},
		Entities: []*entity.Entity{
			{ID: 1, CategoryID: 1, PublicID: "theme-01"},
			{ID: 2, CategoryID: 2, PublicID: "project-01"},
			{ID: 3, CategoryID: 3, PublicID: "measure-01"},
			{ID: 4, CategoryID: 3, PublicID: "measure-02"},
			{ID: 5, CategoryID: 3, PublicID: "measure-03"},
		},
		Edges: []entity.EntityParent{
			{EntityID: 2, ParentEntityID: 1},
			{EntityID: 4, ParentEntityID: 2},
			{EntityID: 3, ParentEntityID: 2},
			{EntityID: 5, ParentEntityID: 1},
		},
		Entries: []*entity.EntityFieldEntry{
			{EntityID: 1, CategoryFieldID: 13, Value: "Growth"},
			{EntityID: 3, CategoryFieldID: 10, Value: "RAYG"},
			{EntityID: 3, CategoryFieldID: 11, Value: "2.5"},
			{EntityID: 4, CategoryFieldID: 10, Value: "None"},
			{EntityID: 5, CategoryFieldID: 10, Value: "RAYG"},
			{EntityID: 2, CategoryFieldID: 12, Value: "3"},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// BuildGraph
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildGraph_IndicesYDecodificacion(t *testing.T) {
	g := hierarchy.BuildGraph(sampleGraph())

	assert.Equal(t, []int64{3, 4, 5}, g.ByCategory(hierarchy.CategoryMeasure))
	assert.True(t, g.HasCategory("Empty"))
	assert.Empty(t, g.ByCategory("Empty"))
	assert.False(t, g.HasCategory("Nope"))

	n := g.Node(2)
	require.NotNil(t, n)
	assert.Equal(t, []int64{3, 4}, n.Children)
	assert.Equal(t, []int64{1}, n.Parents)
	assert.Equal(t, int64(3), n.Fields[hierarchy.FieldHMGConfidence])
	assert.Equal(t, 2.5, g.Node(3).Fields[hierarchy.FieldValue])

	assert.Equal(t, int64(1), g.FindByPublicID(hierarchy.CategoryTheme, "theme-01").ID)
	assert.Nil(t, g.FindByPublicID(hierarchy.CategoryTheme, "theme-99"))
}

// ──────────────────────────────────────────────────────────────────────────────
// MapEntityChildren
// ──────────────────────────────────────────────────────────────────────────────

func TestMapEntityChildren_SoloMedidasRAYG(t *testing.T) {
	g := hierarchy.BuildGraph(sampleGraph())
	tree, err := hierarchy.MapEntityChildren(g, 1)
	require.NoError(t, err)

	assert.Equal(t, "theme-01", tree.PublicID)
	assert.Equal(t, "Growth", tree.Fields["title"])
	require.Len(t, tree.Children, 2)
	project := tree.Children[0]
	assert.Equal(t, "project-01", project.PublicID)
	require.Len(t, project.Children, 1, "la variante filter=None se descarta")
	assert.Equal(t, "measure-01", project.Children[0].PublicID)
	assert.Equal(t, "measure-03", tree.Children[1].PublicID)
}

func TestMapEntityChildren_FiltroTextoSinMayusculas(t *testing.T) {
	data := sampleGraph()
	data.Fields[0] = &entity.CategoryField{ID: 10, CategoryID: 3, Name: hierarchy.FilterField, Type: "string"}
	data.Entries[1] = &entity.EntityFieldEntry{EntityID: 3, CategoryFieldID: 10, Value: "rayg"}
	data.Entries[3] = &entity.EntityFieldEntry{EntityID: 4, CategoryFieldID: 10, Value: "none"}
	g := hierarchy.BuildGraph(data)

	tree, err := hierarchy.MapEntityChildren(g, 1)
	require.NoError(t, err)
	project := tree.Children[0]
	require.Len(t, project.Children, 1)
	assert.Equal(t, "measure-01", project.Children[0].PublicID)
}

func TestMapEntityChildren_ReferenciaColgante(t *testing.T) {
	data := sampleGraph()
	data.Edges = append(data.Edges, entity.EntityParent{EntityID: 99, ParentEntityID: 1})
	g := hierarchy.BuildGraph(data)

	_, err := hierarchy.MapEntityChildren(g, 1)
	assert.ErrorIs(t, err, domain.ErrDanglingReference)

	_, err = hierarchy.MapEntityChildren(g, 42)
	assert.ErrorIs(t, err, domain.ErrDanglingReference)
}

// ──────────────────────────────────────────────────────────────────────────────
// Proyectos
// ──────────────────────────────────────────────────────────────────────────────

func TestMapProjectsToEntities(t *testing.T) {
	g := hierarchy.BuildGraph(sampleGraph())
	tree, err := hierarchy.MapEntityChildren(g, 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"project-01"}, hierarchy.CollectProjectIDs(tree))

	conf := 1
	due := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	projects := map[string]*entity.ProjectSummary{
		"project-01": {
			PublicID: "project-01", Title: "Checkout", Status: "active",
			DeliveryConfidence: &conf, PercentComplete: decimal.RequireFromString("42.5"),
			NextMilestone: "Beta", NextMilestoneDue: &due,
		},
	}
	out := hierarchy.MapProjectsToEntities(tree, projects)
	p := out.Children[0].Fields
	assert.Equal(t, "Checkout", p[hierarchy.FieldProjectTitle])
	assert.Equal(t, "active", p[hierarchy.FieldProjectStatus])
	assert.Equal(t, int64(1), p[hierarchy.FieldDeliveryConfidence])
	assert.Equal(t, 42.5, p[hierarchy.FieldPercentComplete])
	assert.Equal(t, "Beta", p[hierarchy.FieldNextMilestone])
	assert.Equal(t, "15/07/2024", p[hierarchy.FieldNextMilestoneDue])

	// La entrada no cambia.
	assert.NotContains(t, tree.Children[0].Fields, hierarchy.FieldProjectTitle)

	// Un proyecto sin fila queda intacto.
	same := hierarchy.MapProjectsToEntities(tree, map[string]*entity.ProjectSummary{})
	assert.Equal(t, tree, same)
}
