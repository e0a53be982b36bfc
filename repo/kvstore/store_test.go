package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kv.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	store, err := NewGormStore(db, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func storesUnderTest(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, store.Set(ctx, "k", []byte(`[1,2]`)))
			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))

			require.NoError(t, store.Set(ctx, "k", []byte(`[3]`)))
			got, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, `[3]`, string(got))

			require.NoError(t, store.Delete(ctx, "k"))
			_, err = store.Get(ctx, "k")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			assert.NoError(t, store.Delete(ctx, "k"))
		})
	}
}

func TestStore_SetMany(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "a", []byte(`"old"`)))
			require.NoError(t, store.SetMany(ctx, map[string][]byte{
				"a": []byte(`"new"`),
				"b": []byte(`{}`),
			}))

			a, err := store.Get(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, `"new"`, string(a))
			b, err := store.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, `{}`, string(b))
		})
	}
}

func TestAdapter_GetJSONDegradesToAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	adapter := NewAdapter(store, zaptest.NewLogger(t))

	var out []string
	assert.False(t, adapter.GetJSON(ctx, "missing", &out))

	require.NoError(t, store.Set(ctx, "broken", []byte(`{not json`)))
	assert.False(t, adapter.GetJSON(ctx, "broken", &out))

	require.NoError(t, store.Set(ctx, "empty", []byte{}))
	assert.False(t, adapter.GetJSON(ctx, "empty", &out))

	require.NoError(t, adapter.SetJSON(ctx, "ok", []string{"x", "y"}))
	assert.True(t, adapter.GetJSON(ctx, "ok", &out))
	assert.Equal(t, []string{"x", "y"}, out)
}

func TestAdapter_SetManyJSON(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter(newSQLiteStore(t), zaptest.NewLogger(t))

	require.NoError(t, adapter.SetManyJSON(ctx, map[string]any{
		"nums": []int{1, 2},
		"obj":  map[string]string{"k": "v"},
	}))

	var nums []int
	require.True(t, adapter.GetJSON(ctx, "nums", &nums))
	assert.Equal(t, []int{1, 2}, nums)

	raw, ok := adapter.GetRaw(ctx, "obj")
	require.True(t, ok)
	assert.JSONEq(t, `{"k":"v"}`, string(raw))

	assert.NoError(t, adapter.SetManyJSON(ctx, nil))
}
