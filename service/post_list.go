package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/vo"
)

// QueryPosts 社区列表查询
// - 意图: 为社区首页提供过滤、排序、分页后的帖子聚合视图
// - 输入: actor 调用者上下文（决定可见性与 isLiked/isFavorited），req 查询条件
// - 输出: 分页结果，Total 为过滤后的总数
func (s *postService) QueryPosts(ctx context.Context, actor Principal, req *dto.QueryPostsRequest) (*vo.PostPage, error) {
	if req == nil {
		req = &dto.QueryPostsRequest{}
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	// 1. 读取快照并按可见性、标签、关键字过滤
	snap := snapshotCommunity(ctx, s.repo)
	keyword := strings.ToLower(strings.TrimSpace(req.Search))
	filterTag := !isTagSentinel(req.Tag)

	builder := newViewBuilder(snap, actor.UserID())
	views := make([]vo.PostView, 0, len(snap.posts))
	for i := range snap.posts {
		post := &snap.posts[i]
		if !visibleTo(post, actor) {
			continue
		}
		if filterTag && !post.HasTag(req.Tag) {
			continue
		}
		if !matchesKeyword(post, keyword) {
			continue
		}
		views = append(views, builder.build(*post))
	}

	// 2. 排序
	sortMode := req.Sort
	if sortMode == "" {
		sortMode = constant.SortLatest
	}
	sortViews(views, sortMode)

	// 3. 分页
	page := paginate(views, req.Page, req.PageSize)
	s.logger.Debug("社区列表查询完成",
		zap.String("actorID", actor.UserID()),
		zap.String("sort", sortMode),
		zap.String("tag", req.Tag),
		zap.Int("total", page.Total),
		zap.Int("page", page.Page))
	return &page, nil
}
