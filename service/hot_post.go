package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/models/vo"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
	"github.com/Xushengqwer/fruitmaster_service/repo/redis"
)

// HotPostService 定义了热榜相关的业务接口。
type HotPostService interface {
	// ListHotPosts 获取热榜前 limit 条。
	// - 优先读取定时任务写入的快照，快照缺失 (myErrors.ErrCacheMiss) 时实时计算兜底。
	// - 计数总是按当前互动集合实时聚合，快照只决定顺序。
	ListHotPosts(ctx context.Context, actor Principal, limit int) (*vo.HotPostsVO, error)

	// RefreshSnapshot 重新计算公开可见帖子的热度排名，并整体替换快照。返回快照中的帖子数量。
	RefreshSnapshot(ctx context.Context, size int) (int, error)
}

type hotPostService struct {
	repo   *collection.Repository
	cache  redis.HotRankCache
	logger *zap.Logger
}

// NewHotPostService 是 HotPostService 的构造函数。
func NewHotPostService(repo *collection.Repository, cache redis.HotRankCache, logger *zap.Logger) HotPostService {
	return &hotPostService{repo: repo, cache: cache, logger: logger}
}

func (s *hotPostService) ListHotPosts(ctx context.Context, actor Principal, limit int) (*vo.HotPostsVO, error) {
	if limit <= 0 {
		limit = constant.DefaultPageSize
	}

	ids, err := s.cache.GetRange(ctx, 0, int64(limit)-1)
	switch {
	case err == nil:
		return s.fromSnapshot(ctx, actor, ids), nil
	case errors.Is(err, myErrors.ErrCacheMiss):
		s.logger.Info("热榜快照缺失，实时计算兜底", zap.Int("limit", limit))
	default:
		s.logger.Warn("读取热榜快照失败，实时计算兜底", zap.Int("limit", limit), zap.Error(err))
	}

	views := rankPublicPosts(snapshotCommunity(ctx, s.repo), actor.UserID())
	if len(views) > limit {
		views = views[:limit]
	}
	return &vo.HotPostsVO{Posts: views, FromSnapshot: false}, nil
}

// fromSnapshot 按快照顺序组装视图；快照生成后被删除或隐藏的帖子直接跳过。
func (s *hotPostService) fromSnapshot(ctx context.Context, actor Principal, ids []string) *vo.HotPostsVO {
	snap := snapshotCommunity(ctx, s.repo)
	builder := newViewBuilder(snap, actor.UserID())

	byID := make(map[string]*entities.Post, len(snap.posts))
	for i := range snap.posts {
		byID[snap.posts[i].ID] = &snap.posts[i]
	}

	views := make([]vo.PostView, 0, len(ids))
	for _, id := range ids {
		post, ok := byID[id]
		if !ok || !publiclyVisible(post) {
			continue
		}
		views = append(views, builder.build(*post))
	}
	return &vo.HotPostsVO{Posts: views, FromSnapshot: true}
}

func (s *hotPostService) RefreshSnapshot(ctx context.Context, size int) (int, error) {
	if size <= 0 {
		size = constant.HotPostsCacheSize
	}

	views := rankPublicPosts(snapshotCommunity(ctx, s.repo), "")
	if len(views) > size {
		views = views[:size]
	}
	ids := make([]string, 0, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
	}

	if err := s.cache.ReplaceSnapshot(ctx, ids); err != nil {
		return 0, fmt.Errorf("刷新热榜快照失败: %w", err)
	}
	s.logger.Info("热榜快照已刷新", zap.Int("size", len(ids)))
	return len(ids), nil
}

// rankPublicPosts 公开可见帖子按热度排序。
func rankPublicPosts(snap communitySnapshot, userID string) []vo.PostView {
	builder := newViewBuilder(snap, userID)
	views := make([]vo.PostView, 0, len(snap.posts))
	for i := range snap.posts {
		if publiclyVisible(&snap.posts[i]) {
			views = append(views, builder.build(snap.posts[i]))
		}
	}
	sortViews(views, constant.SortHot)
	return views
}
