package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Xushengqwer/fruitmaster_service/models/dto"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/models/vo"
	"github.com/Xushengqwer/fruitmaster_service/mq/producer"
	"github.com/Xushengqwer/fruitmaster_service/myErrors"
	"github.com/Xushengqwer/fruitmaster_service/repo/collection"
	"github.com/Xushengqwer/fruitmaster_service/repo/migration"
	"github.com/Xushengqwer/fruitmaster_service/repo/redis"
	"github.com/Xushengqwer/fruitmaster_service/security"
)

// StoreDeps 组装 Store 所需的依赖。
type StoreDeps struct {
	Repo       *collection.Repository
	Hasher     security.Hasher
	Publisher  EventPublisher
	HotRank    redis.HotRankCache
	SessionTTL time.Duration
	Now        func() time.Time
	Logger     *zap.Logger
}

// Store 是面向界面层的统一入口。
// - 每个操作都返回 vo.Result，业务规则拒绝体现为 Success=false 和提示文案。
// - 非业务错误（存储故障等）同样转成失败结果，并记录 Error 日志。
// - InitStore 必须在其他操作之前调用一次。
type Store struct {
	repo     *collection.Repository
	migrator *migration.Manager
	logger   *zap.Logger

	auth        AuthService
	posts       PostService
	interaction InteractionService
	reports     ReportService
	moderation  ModerationService
	hotPosts    HotPostService
	nutrition   NutritionService
	production  ProductionService
}

// NewStore 创建 Store。Publisher 为 nil 时不发布事件，HotRank 为 nil 时使用进程内快照。
func NewStore(deps StoreDeps) *Store {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Publisher == nil {
		deps.Publisher = producer.NopPublisher{}
	}
	if deps.HotRank == nil {
		deps.HotRank = redis.NewMemoryHotRankCache()
	}
	logger := deps.Logger
	return &Store{
		repo:        deps.Repo,
		migrator:    migration.NewManager(deps.Repo.Adapter(), deps.Hasher, logger, deps.Now),
		logger:      logger,
		auth:        NewAuthService(deps.Repo, deps.Hasher, deps.SessionTTL, deps.Now, logger),
		posts:       NewPostService(deps.Repo, deps.Publisher, deps.Now, logger),
		interaction: NewInteractionService(deps.Repo, deps.Now, logger),
		reports:     NewReportService(deps.Repo, deps.Publisher, deps.Now, logger),
		moderation:  NewModerationService(deps.Repo, deps.Now, logger),
		hotPosts:    NewHotPostService(deps.Repo, deps.HotRank, logger),
		nutrition:   NewNutritionService(deps.Repo, deps.Now, logger),
		production:  NewProductionService(deps.Repo, deps.Now, logger),
	}
}

// HotPosts 供定时任务刷新快照。
func (s *Store) HotPosts() HotPostService { return s.hotPosts }

// Moderation 供审核结论消费者使用。
func (s *Store) Moderation() ModerationService { return s.moderation }

// result 把 (data, err) 转成统一结果，非业务错误记录 Error 日志。
func result[T any](logger *zap.Logger, op string, data T, err error) vo.Result[T] {
	if err != nil && !myErrors.IsBusiness(err) {
		logger.Error("操作发生非预期错误", zap.String("op", op), zap.Error(err))
	}
	return vo.From(data, err)
}

func empty(logger *zap.Logger, op string, err error) vo.Result[vo.Empty] {
	return result(logger, op, vo.Empty{}, err)
}

// ---- 存储 ----

// InitStore 执行迁移与默认数据填充。
func (s *Store) InitStore(ctx context.Context) vo.Result[*vo.InitStoreVO] {
	var outcome *migration.Outcome
	err := s.repo.Serialize(func() error {
		var err error
		outcome, err = s.migrator.Run(ctx)
		return err
	})
	if err != nil {
		return result[*vo.InitStoreVO](s.logger, "initStore", nil, err)
	}
	return vo.Ok(&vo.InitStoreVO{
		FromVersion: outcome.FromVersion,
		ToVersion:   outcome.ToVersion,
		Migrated:    outcome.Migrated,
		Seeded:      outcome.Seeded,
	})
}

// ResetStore 管理员把存储重置为默认数据，当前会话随之失效。
func (s *Store) ResetStore(ctx context.Context, actor Principal) vo.Result[vo.Empty] {
	if !actor.IsAdmin() {
		return vo.Fail[vo.Empty](myErrors.New(myErrors.ErrPermission, "仅管理员可操作"))
	}
	err := s.repo.Serialize(func() error {
		return s.migrator.Reset(ctx)
	})
	return empty(s.logger, "resetStore", err)
}

// ---- 认证与会话 ----

// Principal 水合会话并返回调用上下文，供路由守卫和控制器使用。
func (s *Store) Principal(ctx context.Context) (Principal, error) {
	return s.auth.HydrateSession(ctx)
}

func (s *Store) HydrateSession(ctx context.Context) vo.Result[vo.SessionView] {
	p, err := s.auth.HydrateSession(ctx)
	return result(s.logger, "hydrateSession", p.View(), err)
}

func (s *Store) Register(ctx context.Context, req *dto.RegisterRequest) vo.Result[*vo.UserView] {
	user, err := s.auth.Register(ctx, req)
	return result(s.logger, "register", user, err)
}

func (s *Store) Login(ctx context.Context, req *dto.LoginRequest) vo.Result[vo.SessionView] {
	p, err := s.auth.Login(ctx, req)
	if err != nil {
		return result(s.logger, "login", vo.SessionView{}, err)
	}
	return vo.Ok(p.View())
}

func (s *Store) Logout(ctx context.Context) vo.Result[vo.Empty] {
	return empty(s.logger, "logout", s.auth.Logout(ctx))
}

func (s *Store) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) vo.Result[vo.Empty] {
	return empty(s.logger, "resetPassword", s.auth.ResetPassword(ctx, req))
}

func (s *Store) UpdateProfile(ctx context.Context, actor Principal, req *dto.UpdateProfileRequest) vo.Result[*vo.UserView] {
	user, err := s.auth.UpdateProfile(ctx, actor, req)
	return result(s.logger, "updateProfile", user, err)
}

func (s *Store) UpdatePreference(ctx context.Context, actor Principal, patch *dto.PreferencePatch) vo.Result[*vo.UserView] {
	user, err := s.auth.UpdatePreference(ctx, actor, patch)
	return result(s.logger, "updatePreference", user, err)
}

func (s *Store) AdminUpsertUser(ctx context.Context, actor Principal, req *dto.AdminUpsertUserRequest) vo.Result[*vo.UserView] {
	user, err := s.auth.AdminUpsertUser(ctx, actor, req)
	return result(s.logger, "adminUpsertUser", user, err)
}

func (s *Store) AdminDeleteUser(ctx context.Context, actor Principal, userID string) vo.Result[vo.Empty] {
	return empty(s.logger, "adminDeleteUser", s.auth.AdminDeleteUser(ctx, actor, userID))
}

func (s *Store) ListUsers(ctx context.Context, actor Principal) vo.Result[[]vo.UserView] {
	users, err := s.auth.ListUsers(ctx, actor)
	return result(s.logger, "listUsers", users, err)
}

// ---- 帖子 ----

func (s *Store) QueryPosts(ctx context.Context, actor Principal, req *dto.QueryPostsRequest) vo.Result[*vo.PostPage] {
	page, err := s.posts.QueryPosts(ctx, actor, req)
	return result(s.logger, "queryPosts", page, err)
}

func (s *Store) GetPostByID(ctx context.Context, actor Principal, postID string) vo.Result[*vo.PostDetailVO] {
	detail, err := s.posts.GetPostByID(ctx, actor, postID)
	return result(s.logger, "getPostById", detail, err)
}

func (s *Store) CreatePost(ctx context.Context, actor Principal, req *dto.CreatePostRequest) vo.Result[*vo.PostView] {
	post, err := s.posts.CreatePost(ctx, actor, req)
	return result(s.logger, "createPost", post, err)
}

func (s *Store) UpdatePost(ctx context.Context, actor Principal, postID string, req *dto.UpdatePostRequest) vo.Result[*vo.PostView] {
	post, err := s.posts.UpdatePost(ctx, actor, postID, req)
	return result(s.logger, "updatePost", post, err)
}

func (s *Store) DeletePost(ctx context.Context, actor Principal, postID string) vo.Result[vo.Empty] {
	return empty(s.logger, "deletePost", s.posts.DeletePost(ctx, actor, postID))
}

func (s *Store) GetUserContent(ctx context.Context, userID string) vo.Result[*vo.UserContentVO] {
	content, err := s.posts.GetUserContent(ctx, userID)
	return result(s.logger, "getUserContent", content, err)
}

func (s *Store) ListHotPosts(ctx context.Context, actor Principal, limit int) vo.Result[*vo.HotPostsVO] {
	hot, err := s.hotPosts.ListHotPosts(ctx, actor, limit)
	return result(s.logger, "listHotPosts", hot, err)
}

// ---- 互动 ----

func (s *Store) ToggleLike(ctx context.Context, postID, userID string) vo.Result[*vo.LikeToggleVO] {
	out, err := s.interaction.ToggleLike(ctx, postID, userID)
	return result(s.logger, "toggleLike", out, err)
}

func (s *Store) ToggleFavorite(ctx context.Context, postID, userID string) vo.Result[*vo.FavoriteToggleVO] {
	out, err := s.interaction.ToggleFavorite(ctx, postID, userID)
	return result(s.logger, "toggleFavorite", out, err)
}

func (s *Store) AddComment(ctx context.Context, req *dto.AddCommentRequest) vo.Result[*entities.Comment] {
	comment, err := s.interaction.AddComment(ctx, req)
	return result(s.logger, "addComment", comment, err)
}

func (s *Store) DeleteComment(ctx context.Context, actor Principal, commentID string) vo.Result[vo.Empty] {
	return empty(s.logger, "deleteComment", s.interaction.DeleteComment(ctx, actor, commentID))
}

func (s *Store) GetCommentsByPost(ctx context.Context, actor Principal, postID string) vo.Result[[]entities.Comment] {
	comments, err := s.interaction.GetCommentsByPost(ctx, actor, postID)
	return result(s.logger, "getCommentsByPost", comments, err)
}

// ---- 举报与审核 ----

func (s *Store) AddReport(ctx context.Context, req *dto.AddReportRequest) vo.Result[*entities.Report] {
	report, err := s.reports.AddReport(ctx, req)
	return result(s.logger, "addReport", report, err)
}

func (s *Store) HandleReport(ctx context.Context, actor Principal, req *dto.HandleReportRequest) vo.Result[*entities.Report] {
	report, err := s.reports.HandleReport(ctx, actor, req)
	return result(s.logger, "handleReport", report, err)
}

func (s *Store) ListReports(ctx context.Context, actor Principal, req *dto.ListReportsRequest) vo.Result[[]entities.Report] {
	reports, err := s.reports.ListReports(ctx, actor, req)
	return result(s.logger, "listReports", reports, err)
}

func (s *Store) ModeratePost(ctx context.Context, actor Principal, postID string, req *dto.ModeratePostRequest) vo.Result[*vo.PostView] {
	post, err := s.moderation.ModeratePost(ctx, actor, postID, req)
	return result(s.logger, "moderatePost", post, err)
}

// ---- 营养科普 ----

func (s *Store) ListNutritionItems(ctx context.Context) vo.Result[[]entities.NutritionContentItem] {
	items, err := s.nutrition.ListItems(ctx)
	return result(s.logger, "listNutritionItems", items, err)
}

func (s *Store) GetNutritionItem(ctx context.Context, id string) vo.Result[*entities.NutritionContentItem] {
	item, err := s.nutrition.GetByID(ctx, id)
	return result(s.logger, "getNutritionItem", item, err)
}

func (s *Store) CreateNutritionItem(ctx context.Context, req *dto.NutritionItemRequest) vo.Result[*entities.NutritionContentItem] {
	item, err := s.nutrition.CreateItem(ctx, req)
	return result(s.logger, "createNutritionItem", item, err)
}

func (s *Store) UpdateNutritionItem(ctx context.Context, id string, req *dto.UpdateNutritionItemRequest) vo.Result[*entities.NutritionContentItem] {
	item, err := s.nutrition.UpdateItem(ctx, id, req)
	return result(s.logger, "updateNutritionItem", item, err)
}

func (s *Store) DeleteNutritionItem(ctx context.Context, id string) vo.Result[vo.Empty] {
	return empty(s.logger, "deleteNutritionItem", s.nutrition.DeleteItem(ctx, id))
}

// ---- 制作记录 ----

func (s *Store) AddHistoryRecord(ctx context.Context, req *dto.AddHistoryRecordRequest) vo.Result[*entities.ProductionHistoryRecord] {
	record, err := s.production.AddHistoryRecord(ctx, req)
	return result(s.logger, "addHistoryRecord", record, err)
}

func (s *Store) GetHistoryByUser(ctx context.Context, userID string) vo.Result[[]entities.ProductionHistoryRecord] {
	records, err := s.production.GetHistoryByUser(ctx, userID)
	return result(s.logger, "getHistoryByUser", records, err)
}
