package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
)

func TestInitStoreIsIdempotent(t *testing.T) {
	env := newTestEnv(t)

	again := env.store.InitStore(env.ctx)
	require.True(t, again.Success)
	assert.Empty(t, again.Data.Migrated)
	assert.Empty(t, again.Data.Seeded)
	assert.Equal(t, again.Data.FromVersion, again.Data.ToVersion)
}

func TestStoreResultShape(t *testing.T) {
	env := newTestEnv(t)

	bad := env.store.Login(env.ctx, &dto.LoginRequest{Account: "user", Password: "wrongpw"})
	assert.False(t, bad.Success)
	assert.Equal(t, "密码错误", bad.Message)

	ok := env.store.Login(env.ctx, &dto.LoginRequest{Account: "user", Password: "user123"})
	require.True(t, ok.Success)
	assert.True(t, ok.Data.IsAuthenticated)
	assert.Equal(t, constant.RoleUser, ok.Data.Role)

	session := env.store.HydrateSession(env.ctx)
	require.True(t, session.Success)
	assert.Equal(t, "u_user", session.Data.User.ID)

	like := env.store.ToggleLike(env.ctx, "p_404", "u_user")
	assert.False(t, like.Success)
	assert.Equal(t, "帖子不存在", like.Message)
	assert.Nil(t, like.Data)
	assert.ErrorIs(t, like.Err(), myErrors.ErrNotFound)
	assert.NoError(t, ok.Err())
}

func TestResetStore(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)
	require.NoError(t, env.store.posts.DeletePost(env.ctx, admin, "p_1"))

	denied := env.store.ResetStore(env.ctx, env.user(t))
	assert.False(t, denied.Success)

	require.True(t, env.store.ResetStore(env.ctx, admin).Success)
	assert.Contains(t, postIDs(env.posts()), "p_1")

	p, err := env.store.Principal(env.ctx)
	require.NoError(t, err)
	assert.False(t, p.IsAuthenticated())
}
