package service

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/models/vo"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
)

func viewIDs(views []vo.PostView) []string {
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}
	return ids
}

func (e *testEnv) query(t *testing.T, actor Principal, req *dto.QueryPostsRequest) *vo.PostPage {
	t.Helper()
	page, err := e.store.posts.QueryPosts(e.ctx, actor, req)
	require.NoError(t, err)
	return page
}

func TestCreatePostApproval(t *testing.T) {
	env := newTestEnv(t)

	draft, err := env.store.posts.CreatePost(env.ctx, env.user(t), &dto.CreatePostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.False(t, draft.IsApproved)
	assert.Equal(t, "u_user", draft.AuthorID)
	assert.Zero(t, draft.LikeCount)
	assert.False(t, draft.IsLiked)
	assert.Eventually(t, func() bool { return env.pub.has(&env.pub.pending, draft.ID) }, time.Second, 10*time.Millisecond)

	official, err := env.store.posts.CreatePost(env.ctx, env.admin(t), &dto.CreatePostRequest{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.True(t, official.IsApproved)

	_, err = env.store.posts.CreatePost(env.ctx, Guest(), &dto.CreatePostRequest{Title: "T", Content: "C"})
	assert.ErrorIs(t, err, myErrors.ErrPermission)

	_, err = env.store.posts.CreatePost(env.ctx, env.user(t), &dto.CreatePostRequest{Title: "  ", Content: "C"})
	assert.ErrorIs(t, err, myErrors.ErrValidation)
}

func TestCreatePostCapsImages(t *testing.T) {
	env := newTestEnv(t)
	images := []string{"", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

	post, err := env.store.posts.CreatePost(env.ctx, env.user(t), &dto.CreatePostRequest{Title: "T", Content: "C", Images: images})
	require.NoError(t, err)
	assert.Len(t, post.Images, constant.MaxPostImages)
	assert.Equal(t, "1", post.Images[0])
	assert.NotNil(t, post.Tags)
}

func TestQueryPostsVisibility(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Advance(time.Minute)
	draft, err := env.store.posts.CreatePost(env.ctx, env.user(t), &dto.CreatePostRequest{Title: "草稿", Content: "待审核"})
	require.NoError(t, err)
	_, err = env.store.moderation.ModeratePost(env.ctx, env.admin(t), "p_3", &dto.ModeratePostRequest{Action: constant.ModerateHide})
	require.NoError(t, err)

	guest := env.query(t, Guest(), nil)
	assert.ElementsMatch(t, []string{"p_1", "p_2"}, viewIDs(guest.Items))

	other := env.query(t, env.maintainer(t), nil)
	assert.ElementsMatch(t, []string{"p_1", "p_2"}, viewIDs(other.Items))

	// 作者能看到自己未审核的帖子，但看不到被隐藏的帖子
	author := env.query(t, env.user(t), nil)
	assert.ElementsMatch(t, []string{draft.ID, "p_1", "p_2"}, viewIDs(author.Items))

	admin := env.query(t, env.admin(t), nil)
	assert.ElementsMatch(t, []string{draft.ID, "p_1", "p_2", "p_3"}, viewIDs(admin.Items))

	_, err = env.store.posts.GetPostByID(env.ctx, Guest(), draft.ID)
	assert.ErrorIs(t, err, myErrors.ErrNotFound)
	_, err = env.store.posts.GetPostByID(env.ctx, env.user(t), draft.ID)
	assert.NoError(t, err)
}

func TestQueryPostsSortModes(t *testing.T) {
	env := newTestEnv(t)
	guest := Guest()

	latest := env.query(t, guest, &dto.QueryPostsRequest{Sort: constant.SortLatest})
	assert.Equal(t, []string{"p_2", "p_1", "p_3"}, viewIDs(latest.Items))

	// p_2: 2 赞 1 评 = 5；p_1: 1 赞 1 评 = 3；p_3: 0
	hot := env.query(t, guest, &dto.QueryPostsRequest{Sort: constant.SortHot})
	assert.Equal(t, []string{"p_2", "p_1", "p_3"}, viewIDs(hot.Items))
	assert.Equal(t, 5, hot.Items[0].HotScore)
	assert.Equal(t, 3, hot.Items[1].HotScore)

	featured := env.query(t, guest, &dto.QueryPostsRequest{Sort: constant.SortFeatured})
	assert.Equal(t, []string{"p_2", "p_1", "p_3"}, viewIDs(featured.Items))

	// 取消 p_2 置顶后按时间排序
	_, err := env.store.moderation.ModeratePost(env.ctx, env.admin(t), "p_2", &dto.ModeratePostRequest{Action: constant.ModeratePin})
	require.NoError(t, err)
	latest = env.query(t, guest, nil)
	assert.Equal(t, []string{"p_1", "p_2", "p_3"}, viewIDs(latest.Items))
}

func TestQueryPostsPinnedAlwaysFirst(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)

	// 比所有帖子都新的未置顶帖子
	env.clock.Advance(time.Hour)
	fresh, err := env.store.posts.CreatePost(env.ctx, admin, &dto.CreatePostRequest{Title: "新鲜", Content: "刚刚发布"})
	require.NoError(t, err)

	for _, mode := range []string{constant.SortLatest, constant.SortFeatured} {
		page := env.query(t, Guest(), &dto.QueryPostsRequest{Sort: mode})
		require.NotEmpty(t, page.Items)
		assert.Equal(t, "p_2", page.Items[0].ID, mode)
		assert.Equal(t, fresh.ID, page.Items[1].ID, mode)
	}
}

func TestQueryPostsTagFilter(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)

	env.clock.Advance(time.Minute)
	canned, err := env.store.posts.CreatePost(env.ctx, admin, &dto.CreatePostRequest{Title: "橘子罐头", Content: "酸甜", Tags: []string{"罐头"}})
	require.NoError(t, err)

	page := env.query(t, Guest(), &dto.QueryPostsRequest{Tag: "罐头"})
	assert.Equal(t, []string{"p_2", canned.ID}, viewIDs(page.Items))
	for _, item := range page.Items {
		assert.Contains(t, item.Tags, "罐头")
	}

	for _, sentinel := range []string{"全部", "all", "ALL", ""} {
		all := env.query(t, Guest(), &dto.QueryPostsRequest{Tag: sentinel})
		assert.Equal(t, 4, all.Total, sentinel)
	}
}

func TestQueryPostsSearchAndPaging(t *testing.T) {
	env := newTestEnv(t)

	byTitle := env.query(t, Guest(), &dto.QueryPostsRequest{Search: "西瓜"})
	assert.Equal(t, []string{"p_1"}, viewIDs(byTitle.Items))

	byTag := env.query(t, Guest(), &dto.QueryPostsRequest{Search: "果盘"})
	assert.Equal(t, []string{"p_3"}, viewIDs(byTag.Items))

	page1 := env.query(t, Guest(), &dto.QueryPostsRequest{Page: 1, PageSize: 2})
	assert.Equal(t, 3, page1.Total)
	assert.Len(t, page1.Items, 2)
	assert.True(t, page1.HasMore)

	page2 := env.query(t, Guest(), &dto.QueryPostsRequest{Page: 2, PageSize: 2})
	assert.Equal(t, []string{"p_3"}, viewIDs(page2.Items))
	assert.False(t, page2.HasMore)

	page9 := env.query(t, Guest(), &dto.QueryPostsRequest{Page: 9, PageSize: 2})
	assert.Empty(t, page9.Items)
	assert.False(t, page9.HasMore)

	_, err := env.store.posts.QueryPosts(env.ctx, Guest(), &dto.QueryPostsRequest{Sort: "random"})
	assert.ErrorIs(t, err, myErrors.ErrValidation)
}

func TestPostViewCounters(t *testing.T) {
	env := newTestEnv(t)

	page := env.query(t, env.user(t), &dto.QueryPostsRequest{Search: "黄桃"})
	require.Len(t, page.Items, 1)
	v := page.Items[0]
	assert.Equal(t, 2, v.LikeCount)
	assert.Equal(t, 1, v.CommentCount)
	assert.Equal(t, 1, v.FavoriteCount)
	assert.True(t, v.IsLiked)
	assert.True(t, v.IsFavorited)

	guest := env.query(t, Guest(), &dto.QueryPostsRequest{Search: "黄桃"})
	assert.False(t, guest.Items[0].IsLiked)
}

func TestUpdatePostOwnership(t *testing.T) {
	env := newTestEnv(t)
	title := "改过的标题"

	_, err := env.store.posts.UpdatePost(env.ctx, env.maintainer(t), "p_1", &dto.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, myErrors.ErrPermission)

	env.clock.Advance(time.Minute)
	updated, err := env.store.posts.UpdatePost(env.ctx, env.user(t), "p_1", &dto.UpdatePostRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, updated.UpdatedAt.Equal(env.clock.Now()))
	assert.Equal(t, []string{"果汁", "健康"}, updated.Tags)
	assert.Equal(t, 1, updated.LikeCount)
	assert.Equal(t, 1, updated.CommentCount)
	assert.True(t, updated.IsFavorited)

	_, err = env.store.posts.UpdatePost(env.ctx, env.admin(t), "p_1", &dto.UpdatePostRequest{Tags: []string{"夏日"}})
	assert.NoError(t, err)

	_, err = env.store.posts.UpdatePost(env.ctx, env.admin(t), "missing", &dto.UpdatePostRequest{Title: &title})
	assert.ErrorIs(t, err, myErrors.ErrNotFound)
}

func TestDeletePostCascades(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.store.reports.AddReport(env.ctx, &dto.AddReportRequest{PostID: "p_2", ReporterID: "u_user", Reason: "广告"})
	require.NoError(t, err)

	err = env.store.posts.DeletePost(env.ctx, env.user(t), "p_2")
	assert.ErrorIs(t, err, myErrors.ErrPermission)

	require.NoError(t, env.store.posts.DeletePost(env.ctx, env.admin(t), "p_2"))
	assert.NotContains(t, postIDs(env.posts()), "p_2")

	env.repo.View(func() {
		for _, c := range collection.Read(env.ctx, env.repo, constant.CommentsKey, []entities.Comment{}) {
			assert.NotEqual(t, "p_2", c.PostID)
		}
		for _, l := range collection.Read(env.ctx, env.repo, constant.LikesKey, []entities.Like{}) {
			assert.NotEqual(t, "p_2", l.PostID)
		}
		for _, f := range collection.Read(env.ctx, env.repo, constant.FavoritesKey, []entities.Favorite{}) {
			assert.NotEqual(t, "p_2", f.PostID)
		}
		for _, r := range collection.Read(env.ctx, env.repo, constant.ReportsKey, []entities.Report{}) {
			assert.NotEqual(t, "p_2", r.PostID)
		}
	})

	_, err = env.store.interaction.GetCommentsByPost(env.ctx, env.admin(t), "p_2")
	assert.ErrorIs(t, err, myErrors.ErrNotFound)
	assert.Eventually(t, func() bool { return env.pub.has(&env.pub.deleted, "p_2") }, time.Second, 10*time.Millisecond)

	// 作者可以删除自己的帖子
	require.NoError(t, env.store.posts.DeletePost(env.ctx, env.user(t), "p_1"))
	err = env.store.posts.DeletePost(env.ctx, env.user(t), "p_1")
	assert.ErrorIs(t, err, myErrors.ErrNotFound)
}

func TestGetUserContent(t *testing.T) {
	env := newTestEnv(t)

	content, err := env.store.posts.GetUserContent(env.ctx, "u_user")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p_1", "p_3"}, viewIDs(content.MyPosts))
	assert.ElementsMatch(t, []string{"p_2"}, viewIDs(content.LikedPosts))
	assert.ElementsMatch(t, []string{"p_1", "p_2"}, viewIDs(content.FavoritePosts))
	require.Len(t, content.MyComments, 1)
	assert.Equal(t, "c_2", content.MyComments[0].ID)

	liked := content.LikedPosts[0]
	assert.Equal(t, 2, liked.LikeCount)
	assert.True(t, liked.IsLiked)
	assert.True(t, liked.IsFavorited)

	_, err = env.store.posts.GetUserContent(env.ctx, "")
	assert.ErrorIs(t, err, myErrors.ErrPermission)
}

func TestGetUserContentHonoursVisibility(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)

	_, err := env.store.moderation.ModeratePost(env.ctx, admin, "p_2", &dto.ModeratePostRequest{Action: constant.ModerateHide})
	require.NoError(t, err)
	_, err = env.store.moderation.ModeratePost(env.ctx, admin, "p_3", &dto.ModeratePostRequest{Action: constant.ModerateHide})
	require.NoError(t, err)

	content, err := env.store.posts.GetUserContent(env.ctx, "u_user")
	require.NoError(t, err)
	assert.Empty(t, content.LikedPosts)
	assert.Equal(t, []string{"p_1"}, viewIDs(content.FavoritePosts))
	// 自己被隐藏的帖子同样不可见，与社区列表一致
	assert.Equal(t, []string{"p_1"}, viewIDs(content.MyPosts))
	for _, v := range append(content.LikedPosts, content.FavoritePosts...) {
		assert.False(t, v.IsHidden)
	}

	// 管理员视角不过滤
	adminContent, err := env.store.posts.GetUserContent(env.ctx, "u_admin")
	require.NoError(t, err)
	assert.Contains(t, viewIDs(adminContent.MyPosts), "p_2")
}

func TestGetCommentsHonoursVisibility(t *testing.T) {
	env := newTestEnv(t)
	admin := env.admin(t)

	_, err := env.store.moderation.ModeratePost(env.ctx, admin, "p_2", &dto.ModeratePostRequest{Action: constant.ModerateHide})
	require.NoError(t, err)

	_, err = env.store.interaction.GetCommentsByPost(env.ctx, env.user(t), "p_2")
	assert.ErrorIs(t, err, myErrors.ErrNotFound)
	_, err = env.store.interaction.GetCommentsByPost(env.ctx, Guest(), "p_2")
	assert.ErrorIs(t, err, myErrors.ErrNotFound)

	comments, err := env.store.interaction.GetCommentsByPost(env.ctx, admin, "p_2")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "c_2", comments[0].ID)

	_, err = env.store.interaction.GetCommentsByPost(env.ctx, admin, "p_404")
	assert.ErrorIs(t, err, myErrors.ErrNotFound)
}

func TestQueryPostsHugePageIsSafe(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.store.posts.QueryPosts(env.ctx, Guest(), &dto.QueryPostsRequest{Page: math.MaxInt/100 + 7, PageSize: 100})
	assert.ErrorIs(t, err, myErrors.ErrValidation)

	res := env.store.QueryPosts(env.ctx, env.user(t), &dto.QueryPostsRequest{Page: math.MaxInt})
	assert.False(t, res.Success)

	last := env.query(t, env.user(t), &dto.QueryPostsRequest{Page: 1000000, PageSize: 100})
	assert.Empty(t, last.Items)
	assert.False(t, last.HasMore)
	assert.Equal(t, 3, last.Total)
}

func TestPaginateBounds(t *testing.T) {
	views := make([]vo.PostView, 5)
	for i := range views {
		views[i].ID = fmt.Sprintf("p_%d", i)
	}

	page := paginate(views, math.MaxInt, 100)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)

	page = paginate(views, math.MaxInt/100+7, 100)
	assert.Empty(t, page.Items)

	page = paginate(views, 2, 2)
	assert.Equal(t, []string{"p_2", "p_3"}, viewIDs(page.Items))
	assert.True(t, page.HasMore)

	page = paginate(views, 3, 2)
	assert.Equal(t, []string{"p_4"}, viewIDs(page.Items))
	assert.False(t, page.HasMore)

	page = paginate(views, 1, math.MaxInt)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasMore)

	page = paginate(nil, 1, 10)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
}
