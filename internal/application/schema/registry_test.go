package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablero-api/internal/application/graph"
	"github.com/jhoicas/Tablero-api/internal/application/schema"
	"github.com/jhoicas/Tablero-api/internal/domain"
	"github.com/jhoicas/Tablero-api/internal/domain/entity"
	"github.com/jhoicas/Tablero-api/internal/domain/field"
	"github.com/jhoicas/Tablero-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testSchema = `
categories:
  - name: Theme
    publicIdFormat: theme-
    fields:
      - name: title
        displayName: Title
        type: string
        required: true
        priority: 1
  - name: Measure
    publicIdFormat: measure-
    parents:
      - category: Theme
    fields:
      - name: value
        displayName: Value
        type: float
        priority: 3
      - name: title
        displayName: Title
        type: string
        required: true
        priority: 1
      - name: filter
        displayName: Filter
        type: group
        options: [RAYG, None]
        priority: 2
      - name: legacy
        displayName: Legacy
        type: string
        active: false
        priority: 0
`

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	f, err := schema.ParseSeed([]byte(testSchema))
	require.NoError(t, err)
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Run(ctx, func(repos graph.Repos) error {
		return schema.Seed(ctx, repos.Categories, f)
	}))
	return store
}

func names(defs []entity.FieldDefinition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Name)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// FieldDefinitions
// ──────────────────────────────────────────────────────────────────────────────

func TestFieldDefinitions_OrdenYSintetizados(t *testing.T) {
	store := seededStore(t)
	reg := schema.NewRegistry(store.Categories(), store.Entities())

	defs, err := reg.FieldDefinitions(context.Background(), "Measure")
	require.NoError(t, err)

	// publicId, parentPublicId y luego activos por prioridad; "legacy" está inactivo.
	assert.Equal(t, []string{"publicId", "parentPublicId", "title", "filter", "value"}, names(defs))

	pub := defs[0]
	assert.True(t, pub.IsUnique)
	assert.False(t, pub.IsRequired)
	assert.True(t, pub.IsSynthesized())
	assert.Equal(t, "Public ID", pub.DisplayName)

	parent := defs[1]
	assert.True(t, parent.IsParentLink)
	assert.True(t, parent.Multiple)
	assert.True(t, parent.IsRequired)
	assert.Equal(t, "Parent Public ID", parent.DisplayName)
	assert.Equal(t, field.Group{Options: []string{}}, normalizeGroup(parent.Type))

	assert.Equal(t, field.Group{Options: []string{"RAYG", "None"}}, defs[3].Type)
}

func normalizeGroup(t field.Type) field.Type {
	g, ok := t.(field.Group)
	if ok && g.Options == nil {
		g.Options = []string{}
	}
	return g
}

func TestFieldDefinitions_OpcionesDelPadreSonPublicIDsExistentes(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()
	theme, err := store.Categories().GetByName(ctx, "Theme")
	require.NoError(t, err)
	for _, pid := range []string{"theme-01", "theme-02"} {
		require.NoError(t, store.Entities().Create(ctx, &entity.Entity{CategoryID: theme.ID, PublicID: pid}))
	}

	reg := schema.NewRegistry(store.Categories(), store.Entities())
	defs, err := reg.FieldDefinitions(ctx, "Measure")
	require.NoError(t, err)
	assert.Equal(t, field.Group{Options: []string{"theme-01", "theme-02"}}, defs[1].Type)
}

func TestFieldDefinitions_SinPadresNoHayParentPublicID(t *testing.T) {
	store := seededStore(t)
	reg := schema.NewRegistry(store.Categories(), store.Entities())

	defs, err := reg.FieldDefinitions(context.Background(), "Theme")
	require.NoError(t, err)
	assert.Equal(t, []string{"publicId", "title"}, names(defs))
}

func TestFieldDefinitions_CategoriaDesconocida(t *testing.T) {
	store := seededStore(t)
	reg := schema.NewRegistry(store.Categories(), store.Entities())

	_, err := reg.FieldDefinitions(context.Background(), "Nope")
	require.Error(t, err)
	var se *domain.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Nope", se.Category)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestFieldDefinitions_TipoPersistidoDesconocido(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()
	theme, err := store.Categories().GetByName(ctx, "Theme")
	require.NoError(t, err)
	require.NoError(t, store.Categories().UpsertField(ctx, &entity.CategoryField{
		CategoryID: theme.ID, Name: "budget", DisplayName: "Budget", Type: "money", IsActive: true,
	}))

	reg := schema.NewRegistry(store.Categories(), store.Entities())
	_, err = reg.FieldDefinitions(ctx, "Theme")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

// ──────────────────────────────────────────────────────────────────────────────
// Seed
// ──────────────────────────────────────────────────────────────────────────────

func TestSeed_IdempotenteConservaContador(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()
	theme, err := store.Categories().GetByName(ctx, "Theme")
	require.NoError(t, err)
	require.NoError(t, store.Categories().UpdateCurrentMaxID(ctx, theme.ID, 7))

	f, err := schema.ParseSeed([]byte(testSchema))
	require.NoError(t, err)
	require.NoError(t, store.Run(ctx, func(repos graph.Repos) error {
		return schema.Seed(ctx, repos.Categories, f)
	}))

	again, err := store.Categories().GetByName(ctx, "Theme")
	require.NoError(t, err)
	assert.Equal(t, theme.ID, again.ID)
	assert.Equal(t, int64(7), again.CurrentMaxID)

	fields, err := store.Categories().ListActiveFields(ctx, theme.ID)
	require.NoError(t, err)
	assert.Len(t, fields, 1)
}

func TestParseSeed_Errores(t *testing.T) {
	cases := map[string]string{
		"yaml roto":        "categories: [",
		"sin prefijo":      "categories:\n  - name: Theme\n",
		"padre indefinido": "categories:\n  - name: A\n    publicIdFormat: a-\n    parents:\n      - category: B\n",
		"campo reservado":  "categories:\n  - name: A\n    publicIdFormat: a-\n    fields:\n      - name: publicId\n        type: string\n",
		"tipo desconocido": "categories:\n  - name: A\n    publicIdFormat: a-\n    fields:\n      - name: x\n        type: money\n",
	}
	for name, doc := range cases {
		_, err := schema.ParseSeed([]byte(doc))
		assert.Error(t, err, name)
	}
}
