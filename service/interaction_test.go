package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
)

func (e *testEnv) likeCount(postID string) int {
	n := 0
	e.repo.View(func() {
		for _, l := range collection.Read(e.ctx, e.repo, constant.LikesKey, []entities.Like{}) {
			if l.PostID == postID {
				n++
			}
		}
	})
	return n
}

func TestToggleLikeTwiceRestoresCount(t *testing.T) {
	env := newTestEnv(t)
	before := env.likeCount("p_1")

	first, err := env.store.interaction.ToggleLike(env.ctx, "p_1", "u_maintainer")
	require.NoError(t, err)
	assert.True(t, first.Liked)
	assert.Equal(t, before+1, env.likeCount("p_1"))

	second, err := env.store.interaction.ToggleLike(env.ctx, "p_1", "u_maintainer")
	require.NoError(t, err)
	assert.False(t, second.Liked)
	assert.Equal(t, before, env.likeCount("p_1"))
}

func TestToggleLikeConcurrentKeepsUniqueness(t *testing.T) {
	env := newTestEnv(t)

	var wg sync.WaitGroup
	for i := 0; i < 21; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.store.interaction.ToggleLike(env.ctx, "p_3", "u_maintainer")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// 奇数次切换后恰好剩一条
	assert.Equal(t, 1, env.likeCount("p_3"))
}

func TestToggleFavorite(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.store.interaction.ToggleFavorite(env.ctx, "p_1", "u_user")
	require.NoError(t, err)
	assert.False(t, out.Favorited)

	out, err = env.store.interaction.ToggleFavorite(env.ctx, "p_1", "u_user")
	require.NoError(t, err)
	assert.True(t, out.Favorited)

	_, err = env.store.interaction.ToggleFavorite(env.ctx, "p_404", "u_user")
	assert.ErrorIs(t, err, myErrors.ErrNotFound)

	_, err = env.store.interaction.ToggleLike(env.ctx, "p_1", "")
	assert.ErrorIs(t, err, myErrors.ErrPermission)
}

func TestCommentsFlatChronological(t *testing.T) {
	env := newTestEnv(t)

	env.clock.Advance(time.Minute)
	parent := "c_1"
	reply, err := env.store.interaction.AddComment(env.ctx, &dto.AddCommentRequest{PostID: "p_1", UserID: "u_user", Content: " 同意 ", ParentID: &parent})
	require.NoError(t, err)
	assert.Equal(t, "同意", reply.Content)

	env.clock.Advance(time.Minute)
	top, err := env.store.interaction.AddComment(env.ctx, &dto.AddCommentRequest{PostID: "p_1", UserID: "u_maintainer", Content: "好"})
	require.NoError(t, err)
	assert.Nil(t, top.ParentID)

	comments, err := env.store.interaction.GetCommentsByPost(env.ctx, env.user(t), "p_1")
	require.NoError(t, err)
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c_1", reply.ID, top.ID}, ids)
}

func TestAddCommentValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.store.interaction.AddComment(env.ctx, &dto.AddCommentRequest{PostID: "p_1", UserID: "u_user", Content: "   "})
	assert.ErrorIs(t, err, myErrors.ErrValidation)

	_, err = env.store.interaction.AddComment(env.ctx, &dto.AddCommentRequest{PostID: "p_1", Content: "hi"})
	assert.ErrorIs(t, err, myErrors.ErrPermission)

	// 父评论属于另一个帖子
	other := "c_2"
	_, err = env.store.interaction.AddComment(env.ctx, &dto.AddCommentRequest{PostID: "p_1", UserID: "u_user", Content: "hi", ParentID: &other})
	assert.ErrorIs(t, err, myErrors.ErrNotFound)

	_, err = env.store.interaction.AddComment(env.ctx, &dto.AddCommentRequest{PostID: "p_404", UserID: "u_user", Content: "hi"})
	assert.ErrorIs(t, err, myErrors.ErrNotFound)

	// 不校验 userId 是否为当前会话用户
	_, err = env.store.interaction.AddComment(env.ctx, &dto.AddCommentRequest{PostID: "p_1", UserID: "u_maintainer", Content: "hi"})
	assert.NoError(t, err)
}

func TestDeleteComment(t *testing.T) {
	env := newTestEnv(t)

	err := env.store.interaction.DeleteComment(env.ctx, env.user(t), "c_1")
	assert.ErrorIs(t, err, myErrors.ErrPermission)

	require.NoError(t, env.store.interaction.DeleteComment(env.ctx, env.user(t), "c_2"))
	require.NoError(t, env.store.interaction.DeleteComment(env.ctx, env.admin(t), "c_1"))

	err = env.store.interaction.DeleteComment(env.ctx, env.admin(t), "c_1")
	assert.ErrorIs(t, err, myErrors.ErrNotFound)
}
