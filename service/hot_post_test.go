package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
)

func TestListHotPostsFallsBackWithoutSnapshot(t *testing.T) {
	env := newTestEnv(t)

	hot, err := env.store.hotPosts.ListHotPosts(env.ctx, Guest(), 2)
	require.NoError(t, err)
	assert.False(t, hot.FromSnapshot)
	assert.Equal(t, []string{"p_2", "p_1"}, viewIDs(hot.Posts))
}

func TestListHotPostsFromSnapshot(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)

	// 未审核的草稿不进入快照
	_, err := env.store.posts.CreatePost(env.ctx, env.user(t), &dto.CreatePostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)

	n, err := env.store.hotPosts.RefreshSnapshot(env.ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	hot, err := env.store.hotPosts.ListHotPosts(env.ctx, Guest(), 10)
	require.NoError(t, err)
	assert.True(t, hot.FromSnapshot)
	assert.Equal(t, []string{"p_2", "p_1", "p_3"}, viewIDs(hot.Posts))

	// 快照之后被隐藏或删除的帖子直接跳过，计数实时计算
	_, err = env.store.moderation.ModeratePost(env.ctx, admin, "p_2", &dto.ModeratePostRequest{Action: constant.ModerateHide})
	require.NoError(t, err)
	require.NoError(t, env.store.posts.DeletePost(env.ctx, admin, "p_3"))
	_, err = env.store.interaction.ToggleLike(env.ctx, "p_1", "u_user")
	require.NoError(t, err)

	hot, err = env.store.hotPosts.ListHotPosts(env.ctx, Guest(), 10)
	require.NoError(t, err)
	require.Equal(t, []string{"p_1"}, viewIDs(hot.Posts))
	assert.Equal(t, 2, hot.Posts[0].LikeCount)
}
