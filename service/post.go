package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/models/vo"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
)

// PostService 定义了社区帖子的核心业务接口。
type PostService interface {
	// QueryPosts 按可见性、标签、关键字过滤后排序并分页。
	QueryPosts(ctx context.Context, actor Principal, req *dto.QueryPostsRequest) (*vo.PostPage, error)

	// GetPostByID 获取帖子聚合视图和按时间正序的评论。对调用者不可见的帖子视为不存在。
	GetPostByID(ctx context.Context, actor Principal, postID string) (*vo.PostDetailVO, error)

	// CreatePost 发帖。
	// - 需要登录，标题和正文去空白后必填。
	// - 管理员发帖自动审核通过，其余进入待审核，并异步发送待审核事件。
	CreatePost(ctx context.Context, actor Principal, req *dto.CreatePostRequest) (*vo.PostView, error)

	// UpdatePost 编辑帖子内容字段，仅作者或管理员。
	UpdatePost(ctx context.Context, actor Principal, postID string, req *dto.UpdatePostRequest) (*vo.PostView, error)

	// DeletePost 删除帖子，仅作者或管理员。
	// - 帖子与引用它的评论、点赞、收藏、举报在一次原子写入中一起删除。
	DeletePost(ctx context.Context, actor Principal, postID string) error

	// GetUserContent 某个用户发布、点赞、收藏的帖子及其评论。
	GetUserContent(ctx context.Context, userID string) (*vo.UserContentVO, error)
}

type postService struct {
	repo      *collection.Repository
	publisher EventPublisher
	now       func() time.Time
	logger    *zap.Logger
}

// NewPostService 创建帖子服务。now 为 nil 时使用 time.Now。
func NewPostService(repo *collection.Repository, publisher EventPublisher, now func() time.Time, logger *zap.Logger) PostService {
	if now == nil {
		now = time.Now
	}
	return &postService{repo: repo, publisher: publisher, now: now, logger: logger}
}

func (s *postService) GetPostByID(ctx context.Context, actor Principal, postID string) (*vo.PostDetailVO, error) {
	snap := snapshotCommunity(ctx, s.repo)
	idx := collection.IndexOf(snap.posts, postID)
	if idx < 0 || !visibleTo(&snap.posts[idx], actor) {
		return nil, myErrors.New(myErrors.ErrNotFound, "帖子不存在")
	}
	return &vo.PostDetailVO{
		Post:     newViewBuilder(snap, actor.UserID()).build(snap.posts[idx]),
		Comments: commentsOfPost(snap.comments, postID),
	}, nil
}

func (s *postService) CreatePost(ctx context.Context, actor Principal, req *dto.CreatePostRequest) (*vo.PostView, error) {
	if !actor.IsAuthenticated() {
		return nil, myErrors.New(myErrors.ErrPermission, "未登录")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		return nil, myErrors.New(myErrors.ErrValidation, "标题和正文必填")
	}

	now := s.now().UTC()
	post := entities.Post{
		ID:         entities.NewID(entities.PostIDPrefix),
		AuthorID:   actor.UserID(),
		Title:      title,
		Content:    content,
		Tags:       cleanTags(req.Tags),
		Images:     cleanImages(req.Images),
		Recipe:     req.Recipe,
		IsApproved: actor.IsAdmin(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.PostsKey, func(posts []entities.Post) ([]entities.Post, error) {
			return append([]entities.Post{post}, posts...), nil
		})
		return err
	})
	if err != nil {
		s.logger.Error("写入新帖子失败", zap.String("authorID", post.AuthorID), zap.Error(err))
		return nil, fmt.Errorf("创建帖子失败: %w", err)
	}

	s.logger.Info("帖子创建成功",
		zap.String("postID", post.ID),
		zap.String("authorID", post.AuthorID),
		zap.Bool("autoApproved", post.IsApproved))
	if !post.IsApproved {
		publishAsync(s.logger, "post_pending_audit", func(ctx context.Context) error {
			return s.publisher.PublishPostPendingAudit(ctx, post)
		})
	}
	// 新帖没有任何互动，计数全为 0
	view := newViewBuilder(communitySnapshot{}, actor.UserID()).build(post)
	return &view, nil
}

func (s *postService) UpdatePost(ctx context.Context, actor Principal, postID string, req *dto.UpdatePostRequest) (*vo.PostView, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if (req.Title != nil && strings.TrimSpace(*req.Title) == "") || (req.Content != nil && strings.TrimSpace(*req.Content) == "") {
		return nil, myErrors.New(myErrors.ErrValidation, "标题和正文必填")
	}

	var updated vo.PostView
	err := s.repo.Serialize(func() error {
		var post entities.Post
		_, err := collection.Mutate(ctx, s.repo, constant.PostsKey, func(posts []entities.Post) ([]entities.Post, error) {
			idx := collection.IndexOf(posts, postID)
			if idx < 0 {
				return nil, myErrors.New(myErrors.ErrNotFound, "帖子不存在")
			}
			p := &posts[idx]
			if !actor.IsAdmin() && (actor.UserID() == "" || p.AuthorID != actor.UserID()) {
				return nil, myErrors.New(myErrors.ErrPermission, "无权限编辑")
			}
			if req.Title != nil {
				p.Title = strings.TrimSpace(*req.Title)
			}
			if req.Content != nil {
				p.Content = strings.TrimSpace(*req.Content)
			}
			if req.Tags != nil {
				p.Tags = cleanTags(req.Tags)
			}
			if req.Images != nil {
				p.Images = cleanImages(req.Images)
			}
			if len(req.Recipe) > 0 {
				p.Recipe = req.Recipe
			}
			p.UpdatedAt = s.now().UTC()
			post = *p
			return posts, nil
		})
		if err != nil {
			return err
		}
		updated = newViewBuilder(loadCommunity(ctx, s.repo), actor.UserID()).build(post)
		return nil
	})
	if err != nil {
		s.logger.Info("编辑帖子被拒绝或失败", zap.String("postID", postID), zap.String("actorID", actor.UserID()), zap.Error(err))
		return nil, err
	}
	s.logger.Info("帖子已更新", zap.String("postID", postID), zap.String("actorID", actor.UserID()))
	return &updated, nil
}

func (s *postService) DeletePost(ctx context.Context, actor Principal, postID string) error {
	err := s.repo.Serialize(func() error {
		posts := collection.Read(ctx, s.repo, constant.PostsKey, []entities.Post{})
		idx := collection.IndexOf(posts, postID)
		if idx < 0 {
			return myErrors.New(myErrors.ErrNotFound, "帖子不存在")
		}
		if !actor.IsAdmin() && (actor.UserID() == "" || posts[idx].AuthorID != actor.UserID()) {
			return myErrors.New(myErrors.ErrPermission, "无权限删除")
		}
		return cascadeDeletePost(ctx, s.repo, postID)
	})
	if err != nil {
		s.logger.Info("删除帖子被拒绝或失败", zap.String("postID", postID), zap.String("actorID", actor.UserID()), zap.Error(err))
		return err
	}

	s.logger.Info("帖子已删除（含级联数据）", zap.String("postID", postID), zap.String("actorID", actor.UserID()))
	deletedBy := actor.UserID()
	publishAsync(s.logger, "post_deleted", func(ctx context.Context) error {
		return s.publisher.PublishPostDeleted(ctx, postID, deletedBy)
	})
	return nil
}

// cascadeDeletePost 在一个批次里删除帖子及所有引用它的记录。调用方必须持有写锁。
func cascadeDeletePost(ctx context.Context, repo *collection.Repository, postID string) error {
	batch := repo.NewBatch()
	if _, err := collection.Stage(ctx, batch, constant.CommentsKey, func(list []entities.Comment) ([]entities.Comment, error) {
		return collection.Filter(list, func(c entities.Comment) bool { return c.PostID != postID }), nil
	}); err != nil {
		return err
	}
	if _, err := collection.Stage(ctx, batch, constant.LikesKey, func(list []entities.Like) ([]entities.Like, error) {
		return collection.Filter(list, func(l entities.Like) bool { return l.PostID != postID }), nil
	}); err != nil {
		return err
	}
	if _, err := collection.Stage(ctx, batch, constant.FavoritesKey, func(list []entities.Favorite) ([]entities.Favorite, error) {
		return collection.Filter(list, func(f entities.Favorite) bool { return f.PostID != postID }), nil
	}); err != nil {
		return err
	}
	if _, err := collection.Stage(ctx, batch, constant.ReportsKey, func(list []entities.Report) ([]entities.Report, error) {
		return collection.Filter(list, func(r entities.Report) bool { return r.PostID != postID }), nil
	}); err != nil {
		return err
	}
	if _, err := collection.Stage(ctx, batch, constant.PostsKey, func(list []entities.Post) ([]entities.Post, error) {
		return collection.Filter(list, func(p entities.Post) bool { return p.ID != postID }), nil
	}); err != nil {
		return err
	}
	if err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("级联删除帖子 %s 失败: %w", postID, err)
	}
	return nil
}

func (s *postService) GetUserContent(ctx context.Context, userID string) (*vo.UserContentVO, error) {
	if userID == "" {
		return nil, myErrors.New(myErrors.ErrPermission, "请先登录")
	}
	var snap communitySnapshot
	var owner Principal
	s.repo.View(func() {
		snap = loadCommunity(ctx, s.repo)
		owner = principalFor(collection.Read(ctx, s.repo, constant.UsersKey, []entities.User{}), userID)
	})

	liked := make(map[string]bool)
	for _, l := range snap.likes {
		if l.UserID == userID {
			liked[l.PostID] = true
		}
	}
	faved := make(map[string]bool)
	for _, f := range snap.favorites {
		if f.UserID == userID {
			faved[f.PostID] = true
		}
	}

	builder := newViewBuilder(snap, userID)
	out := &vo.UserContentVO{
		MyPosts:       []vo.PostView{},
		LikedPosts:    []vo.PostView{},
		FavoritePosts: []vo.PostView{},
		MyComments:    collection.Filter(snap.comments, func(c entities.Comment) bool { return c.UserID == userID }),
	}
	for i := range snap.posts {
		post := &snap.posts[i]
		if !visibleTo(post, owner) {
			continue
		}
		mine, isLiked, isFaved := post.AuthorID == userID, liked[post.ID], faved[post.ID]
		if !mine && !isLiked && !isFaved {
			continue
		}
		view := builder.build(*post)
		if mine {
			out.MyPosts = append(out.MyPosts, view)
		}
		if isLiked {
			out.LikedPosts = append(out.LikedPosts, view)
		}
		if isFaved {
			out.FavoritePosts = append(out.FavoritePosts, view)
		}
	}
	return out, nil
}

// principalFor 以某个用户的身份构造只读上下文，用于按该用户的可见性过滤。
// 用户已被删除时按普通用户处理。
func principalFor(users []entities.User, userID string) Principal {
	user := entities.User{ID: userID, Role: constant.RoleUser}
	for i := range users {
		if users[i].ID == userID {
			user = users[i]
			break
		}
	}
	return Principal{Session: &entities.Session{UserID: userID, Role: user.Role}, User: &user}
}
