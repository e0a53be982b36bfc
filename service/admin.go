package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/models/vo"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
)

// ModerationService 定义帖子审核相关的接口。
// - 所有动作只改一个布尔字段，并且总是刷新 updatedAt。
type ModerationService interface {
	// ModeratePost 管理员执行审核动作：approve / hide / show / pin（pin 为切换）。
	ModeratePost(ctx context.Context, actor Principal, postID string, req *dto.ModeratePostRequest) (*vo.PostView, error)

	// ApplyAuditVerdict 应用外部审核结论：通过即 approve，拒绝即 hide。
	// - 由 Kafka 消费者以系统身份调用，不做角色校验。
	ApplyAuditVerdict(ctx context.Context, postID string, approved bool, reason string) error
}

type moderationService struct {
	repo   *collection.Repository
	now    func() time.Time
	logger *zap.Logger
}

// NewModerationService 初始化审核服务。
func NewModerationService(repo *collection.Repository, now func() time.Time, logger *zap.Logger) ModerationService {
	if now == nil {
		now = time.Now
	}
	return &moderationService{repo: repo, now: now, logger: logger}
}

func (s *moderationService) ModeratePost(ctx context.Context, actor Principal, postID string, req *dto.ModeratePostRequest) (*vo.PostView, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("非管理员尝试审核帖子", zap.String("actorID", actor.UserID()), zap.String("postID", postID))
		return nil, myErrors.New(myErrors.ErrPermission, "仅管理员可操作")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	post, err := s.apply(ctx, actor.UserID(), postID, req.Action)
	if err != nil {
		return nil, err
	}
	s.logger.Info("管理员执行审核动作",
		zap.String("actorID", actor.UserID()),
		zap.String("postID", postID),
		zap.String("action", req.Action))
	return post, nil
}

func (s *moderationService) ApplyAuditVerdict(ctx context.Context, postID string, approved bool, reason string) error {
	action := constant.ModerateHide
	if approved {
		action = constant.ModerateApprove
	}
	if _, err := s.apply(ctx, "", postID, action); err != nil {
		return err
	}
	s.logger.Info("已应用外部审核结论",
		zap.String("postID", postID),
		zap.Bool("approved", approved),
		zap.String("reason", reason))
	return nil
}

// apply 执行单个审核动作，返回以 viewerID 视角聚合的帖子视图。
func (s *moderationService) apply(ctx context.Context, viewerID, postID, action string) (*vo.PostView, error) {
	var updated vo.PostView
	err := s.repo.Serialize(func() error {
		var post entities.Post
		_, err := collection.Mutate(ctx, s.repo, constant.PostsKey, func(posts []entities.Post) ([]entities.Post, error) {
			idx := collection.IndexOf(posts, postID)
			if idx < 0 {
				return nil, myErrors.New(myErrors.ErrNotFound, "帖子不存在")
			}
			p := &posts[idx]
			switch action {
			case constant.ModerateApprove:
				p.IsApproved = true
			case constant.ModerateHide:
				p.IsHidden = true
			case constant.ModerateShow:
				p.IsHidden = false
			case constant.ModeratePin:
				p.IsPinned = !p.IsPinned
			default:
				return nil, myErrors.New(myErrors.ErrValidation, "未知的审核动作")
			}
			p.UpdatedAt = s.now().UTC()
			post = *p
			return posts, nil
		})
		if err != nil {
			return err
		}
		updated = newViewBuilder(loadCommunity(ctx, s.repo), viewerID).build(post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
