package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/fruitmaster_service/myErrors"
)

func TestMemoryHotRankCache(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryHotRankCache()

	_, err := cache.GetRange(ctx, 0, 9)
	assert.ErrorIs(t, err, myErrors.ErrCacheMiss)

	require.NoError(t, cache.ReplaceSnapshot(ctx, []string{"p_2", "p_1", "p_3"}))

	ids, err := cache.GetRange(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"p_2", "p_1"}, ids)

	ids, err = cache.GetRange(ctx, 1, 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"p_1", "p_3"}, ids)

	ids, err = cache.GetRange(ctx, 5, 9)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, cache.ReplaceSnapshot(ctx, nil))
	ids, err = cache.GetRange(ctx, 0, 9)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
