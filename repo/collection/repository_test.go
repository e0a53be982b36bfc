package collection

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Xushengqwer/fruitmaster_service/repo/kvstore"
)

type item struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func (i item) GetID() string { return i.ID }

func newRepo(t *testing.T) (*Repository, kvstore.Store) {
	store := kvstore.NewMemoryStore()
	return NewRepository(kvstore.NewAdapter(store, zaptest.NewLogger(t)), zaptest.NewLogger(t)), store
}

func TestRead_FallbackOnMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)
	fallback := []item{{ID: "fb"}}

	assert.Equal(t, fallback, Read(ctx, repo, "items", fallback))

	require.NoError(t, store.Set(ctx, "items", []byte(`"not a list"`)))
	assert.Equal(t, fallback, Read(ctx, repo, "items", fallback))

	require.NoError(t, store.Set(ctx, "items", []byte(`null`)))
	assert.Equal(t, fallback, Read(ctx, repo, "items", fallback))

	require.NoError(t, store.Set(ctx, "items", []byte(`[]`)))
	assert.Empty(t, Read(ctx, repo, "items", fallback))
}

func TestMutate_PersistsAndAbortsOnError(t *testing.T) {
	ctx := context.Background()
	repo, store := newRepo(t)

	list, err := Mutate(ctx, repo, "items", func(cur []item) ([]item, error) {
		assert.Empty(t, cur)
		return append(cur, item{ID: "a", Count: 1}), nil
	})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	boom := errors.New("boom")
	_, err = Mutate(ctx, repo, "items", func(cur []item) ([]item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	raw, err := store.Get(ctx, "items")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a","count":1}]`, string(raw))

	_, err = Mutate(ctx, repo, "items", func(cur []item) ([]item, error) {
		return nil, nil
	})
	require.NoError(t, err)
	raw, err = store.Get(ctx, "items")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))
}

func TestSerialize_NoLostUpdates(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	require.NoError(t, Write(ctx, repo, "items", []item{{ID: "counter"}}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Serialize(func() error {
				_, err := Mutate(ctx, repo, "items", func(cur []item) ([]item, error) {
					cur[0].Count++
					return cur, nil
				})
				return err
			})
		}()
	}
	wg.Wait()

	list := Read[item](ctx, repo, "items", nil)
	require.Len(t, list, 1)
	assert.Equal(t, 50, list[0].Count)
}

func TestReadWriteValue(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)

	_, ok := ReadValue[item](ctx, repo, "session")
	assert.False(t, ok)

	require.NoError(t, WriteValue(ctx, repo, "session", &item{ID: "s"}))
	got, ok := ReadValue[item](ctx, repo, "session")
	require.True(t, ok)
	assert.Equal(t, "s", got.ID)

	require.NoError(t, WriteValue[item](ctx, repo, "session", nil))
	_, ok = ReadValue[item](ctx, repo, "session")
	assert.False(t, ok)
}

func TestBatch_CommitsAllStagedCollections(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	require.NoError(t, Write(ctx, repo, "a", []item{{ID: "1"}, {ID: "2"}}))

	batch := repo.NewBatch()
	_, err := Stage(ctx, batch, "a", func(cur []item) ([]item, error) {
		return Filter(cur, func(i item) bool { return i.ID != "1" }), nil
	})
	require.NoError(t, err)
	_, err = Stage(ctx, batch, "a", func(cur []item) ([]item, error) {
		assert.Len(t, cur, 1)
		return cur, nil
	})
	require.NoError(t, err)
	_, err = Stage(ctx, batch, "b", func(cur []item) ([]item, error) {
		return append(cur, item{ID: "x"}), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Len())

	// 提交前未落盘
	assert.Len(t, Read[item](ctx, repo, "a", nil), 2)

	require.NoError(t, batch.Commit(ctx))
	a := Read[item](ctx, repo, "a", nil)
	assert.Equal(t, -1, IndexOf(a, "1"))
	assert.Equal(t, 0, IndexOf(a, "2"))
	assert.Len(t, Read[item](ctx, repo, "b", nil), 1)
}
