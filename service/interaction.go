package service

import (
	"context"
	"sort"
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

// InteractionService 点赞、收藏与评论。
type InteractionService interface {
	// ToggleLike 切换 (postID, userID) 的点赞状态，同一对至多一条点赞记录。
	ToggleLike(ctx context.Context, postID, userID string) (*vo.LikeToggleVO, error)

	// ToggleFavorite 切换收藏状态，语义同 ToggleLike。
	ToggleFavorite(ctx context.Context, postID, userID string) (*vo.FavoriteToggleVO, error)

	// AddComment 发表评论，只要求 userId 非空。
	AddComment(ctx context.Context, req *dto.AddCommentRequest) (*entities.Comment, error)

	// DeleteComment 删除评论，仅评论作者或管理员。不会连带删除回复。
	DeleteComment(ctx context.Context, actor Principal, commentID string) error

	// GetCommentsByPost 帖子下的评论，按时间正序平铺。帖子对调用者不可见时视为不存在。
	GetCommentsByPost(ctx context.Context, actor Principal, postID string) ([]entities.Comment, error)
}

type interactionService struct {
	repo   *collection.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewInteractionService 创建互动服务。
func NewInteractionService(repo *collection.Repository, now func() time.Time, logger *zap.Logger) InteractionService {
	if now == nil {
		now = time.Now
	}
	return &interactionService{repo: repo, now: now, logger: logger}
}

func (s *interactionService) ToggleLike(ctx context.Context, postID, userID string) (*vo.LikeToggleVO, error) {
	if userID == "" {
		return nil, myErrors.New(myErrors.ErrPermission, "请先登录")
	}
	var liked bool
	err := s.repo.Serialize(func() error {
		if err := s.ensurePostExists(ctx, postID); err != nil {
			return err
		}
		_, err := collection.Mutate(ctx, s.repo, constant.LikesKey, func(likes []entities.Like) ([]entities.Like, error) {
			for i, l := range likes {
				if l.PostID == postID && l.UserID == userID {
					liked = false
					return append(likes[:i], likes[i+1:]...), nil
				}
			}
			liked = true
			return append(likes, entities.Like{
				ID:        entities.NewID(entities.LikeIDPrefix),
				PostID:    postID,
				UserID:    userID,
				CreatedAt: s.now().UTC(),
			}), nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("点赞状态切换", zap.String("postID", postID), zap.String("userID", userID), zap.Bool("liked", liked))
	return &vo.LikeToggleVO{Liked: liked}, nil
}

func (s *interactionService) ToggleFavorite(ctx context.Context, postID, userID string) (*vo.FavoriteToggleVO, error) {
	if userID == "" {
		return nil, myErrors.New(myErrors.ErrPermission, "请先登录")
	}
	var favorited bool
	err := s.repo.Serialize(func() error {
		if err := s.ensurePostExists(ctx, postID); err != nil {
			return err
		}
		_, err := collection.Mutate(ctx, s.repo, constant.FavoritesKey, func(favs []entities.Favorite) ([]entities.Favorite, error) {
			for i, f := range favs {
				if f.PostID == postID && f.UserID == userID {
					favorited = false
					return append(favs[:i], favs[i+1:]...), nil
				}
			}
			favorited = true
			return append(favs, entities.Favorite{
				ID:        entities.NewID(entities.FavoriteIDPrefix),
				PostID:    postID,
				UserID:    userID,
				CreatedAt: s.now().UTC(),
			}), nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("收藏状态切换", zap.String("postID", postID), zap.String("userID", userID), zap.Bool("favorited", favorited))
	return &vo.FavoriteToggleVO{Favorited: favorited}, nil
}

func (s *interactionService) AddComment(ctx context.Context, req *dto.AddCommentRequest) (*entities.Comment, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, myErrors.New(myErrors.ErrValidation, "评论不能为空")
	}
	if req.UserID == "" {
		return nil, myErrors.New(myErrors.ErrPermission, "请先登录")
	}

	var parentID *string
	if req.ParentID != nil && *req.ParentID != "" {
		pid := *req.ParentID
		parentID = &pid
	}

	comment := entities.Comment{
		ID:        entities.NewID(entities.CommentIDPrefix),
		PostID:    req.PostID,
		UserID:    req.UserID,
		Content:   content,
		ParentID:  parentID,
		CreatedAt: s.now().UTC(),
	}
	err := s.repo.Serialize(func() error {
		if err := s.ensurePostExists(ctx, req.PostID); err != nil {
			return err
		}
		_, err := collection.Mutate(ctx, s.repo, constant.CommentsKey, func(comments []entities.Comment) ([]entities.Comment, error) {
			if parentID != nil {
				idx := collection.IndexOf(comments, *parentID)
				if idx < 0 || comments[idx].PostID != req.PostID {
					return nil, myErrors.New(myErrors.ErrNotFound, "评论不存在")
				}
			}
			return append(comments, comment), nil
		})
		return err
	})
	if err != nil {
		s.logger.Info("发表评论被拒绝或失败", zap.String("postID", req.PostID), zap.String("userID", req.UserID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("评论发表成功", zap.String("commentID", comment.ID), zap.String("postID", comment.PostID))
	return &comment, nil
}

func (s *interactionService) DeleteComment(ctx context.Context, actor Principal, commentID string) error {
	return s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.CommentsKey, func(comments []entities.Comment) ([]entities.Comment, error) {
			idx := collection.IndexOf(comments, commentID)
			if idx < 0 {
				return nil, myErrors.New(myErrors.ErrNotFound, "评论不存在")
			}
			if !actor.IsAdmin() && (actor.UserID() == "" || comments[idx].UserID != actor.UserID()) {
				return nil, myErrors.New(myErrors.ErrPermission, "无权限")
			}
			return append(comments[:idx], comments[idx+1:]...), nil
		})
		if err == nil {
			s.logger.Info("评论已删除", zap.String("commentID", commentID), zap.String("actorID", actor.UserID()))
		}
		return err
	})
}

func (s *interactionService) GetCommentsByPost(ctx context.Context, actor Principal, postID string) ([]entities.Comment, error) {
	var posts []entities.Post
	var comments []entities.Comment
	s.repo.View(func() {
		posts = collection.Read(ctx, s.repo, constant.PostsKey, []entities.Post{})
		comments = collection.Read(ctx, s.repo, constant.CommentsKey, []entities.Comment{})
	})
	idx := collection.IndexOf(posts, postID)
	if idx < 0 || !visibleTo(&posts[idx], actor) {
		return nil, myErrors.New(myErrors.ErrNotFound, "帖子不存在")
	}
	return commentsOfPost(comments, postID), nil
}

// ensurePostExists 调用方必须持有写锁。
func (s *interactionService) ensurePostExists(ctx context.Context, postID string) error {
	posts := collection.Read(ctx, s.repo, constant.PostsKey, []entities.Post{})
	if postID == "" || collection.IndexOf(posts, postID) < 0 {
		return myErrors.New(myErrors.ErrNotFound, "帖子不存在")
	}
	return nil
}

// commentsOfPost 过滤出某帖子的评论并按创建时间正序排列。
func commentsOfPost(comments []entities.Comment, postID string) []entities.Comment {
	out := collection.Filter(comments, func(c entities.Comment) bool { return c.PostID == postID })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
