package cache_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tablero-api/internal/application/hierarchy"
	"github.com/jhoicas/Tablero-api/internal/infrastructure/cache"
)

func stores(t *testing.T) map[string]hierarchy.SnapshotStore {
	t.Helper()
	b, err := cache.OpenBadger("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return map[string]hierarchy.SnapshotStore{
		"memory": cache.NewMemoryStore(),
		"badger": b,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Contrato común de SnapshotStore
// ──────────────────────────────────────────────────────────────────────────────

func TestSnapshotStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, "k", []byte(`{"a":1}`)))
			v, ok, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.JSONEq(t, `{"a":1}`, string(v))

			require.NoError(t, s.Set(ctx, "k", []byte(`{"a":2}`)))
			v, _, _ = s.Get(ctx, "k")
			assert.JSONEq(t, `{"a":2}`, string(v))

			require.NoError(t, s.Delete(ctx, "k"))
			_, ok, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.NoError(t, s.Delete(ctx, "k"), "borrar una clave ausente no falla")
		})
	}
}

func TestSnapshotStore_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Set(ctx, hierarchy.CategoryKey("Theme"), []byte("1")))
			require.NoError(t, s.Set(ctx, hierarchy.ThemeKey("theme-01"), []byte("2")))
			require.NoError(t, s.Set(ctx, "other:key", []byte("3")))

			require.NoError(t, s.DeletePrefix(ctx, hierarchy.KeyPrefix))

			_, ok, _ := s.Get(ctx, hierarchy.CategoryKey("Theme"))
			assert.False(t, ok)
			_, ok, _ = s.Get(ctx, hierarchy.ThemeKey("theme-01"))
			assert.False(t, ok)
			v, ok, _ := s.Get(ctx, "other:key")
			assert.True(t, ok)
			assert.Equal(t, "3", string(v))
		})
	}
}

func TestMemoryStore_CopiaValores(t *testing.T) {
	ctx := context.Background()
	s := cache.NewMemoryStore()
	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'x'

	out, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(out))
	out[1] = 'y'

	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
	assert.Equal(t, 1, s.Len())
}

func TestBadgerStore_PersisteEnDisco(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := cache.OpenBadger(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	s, err = cache.OpenBadger(dir)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", string(v))
}
