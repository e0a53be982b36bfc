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
	"github.com/Xushengqwer/fruitmaster_service/security"
)

// AuthService 定义认证与会话相关的业务接口。
type AuthService interface {
	// Register 注册新用户，不自动登录。
	Register(ctx context.Context, req *dto.RegisterRequest) (*vo.UserView, error)

	// Login 校验凭证并签发会话（有效期默认 7 天）。
	Login(ctx context.Context, req *dto.LoginRequest) (Principal, error)

	// Logout 清除会话。
	Logout(ctx context.Context) error

	// HydrateSession 重新读取持久化的会话。
	// - 会话缺失：返回 Guest。
	// - 会话过期：清除并写回存储，返回 Guest。
	// - 会话指向的用户已不存在：返回 Guest（不改写存储）。
	// 每次鉴权前都必须先调用。
	HydrateSession(ctx context.Context) (Principal, error)

	// ResetPassword 按账号重置密码。
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error

	// UpdateProfile 更新当前用户资料，偏好按子字段合并。
	UpdateProfile(ctx context.Context, actor Principal, req *dto.UpdateProfileRequest) (*vo.UserView, error)

	// UpdatePreference 只更新偏好，等价于仅携带 preference 的 UpdateProfile。
	UpdatePreference(ctx context.Context, actor Principal, patch *dto.PreferencePatch) (*vo.UserView, error)

	// AdminUpsertUser 管理员新增（委托 Register）或编辑用户。
	AdminUpsertUser(ctx context.Context, actor Principal, req *dto.AdminUpsertUserRequest) (*vo.UserView, error)

	// AdminDeleteUser 管理员删除用户。只删除用户记录，不级联删除其帖子、评论、点赞。
	AdminDeleteUser(ctx context.Context, actor Principal, userID string) error

	// ListUsers 管理员查看全部用户。
	ListUsers(ctx context.Context, actor Principal) ([]vo.UserView, error)
}

type authService struct {
	repo       *collection.Repository
	hasher     security.Hasher
	sessionTTL time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// NewAuthService 创建认证服务。sessionTTL <= 0 时使用 constant.DefaultSessionTTL；now 为 nil 时使用 time.Now。
func NewAuthService(repo *collection.Repository, hasher security.Hasher, sessionTTL time.Duration, now func() time.Time, logger *zap.Logger) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = constant.DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &authService{repo: repo, hasher: hasher, sessionTTL: sessionTTL, now: now, logger: logger}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*vo.UserView, error) {
	var created entities.User
	err := s.repo.Serialize(func() error {
		user, err := s.register(ctx, req)
		if err != nil {
			return err
		}
		created = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vo.NewUserView(&created), nil
}

// register 在已持有写锁的前提下完成注册。
func (s *authService) register(ctx context.Context, req *dto.RegisterRequest) (*entities.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	account := strings.TrimSpace(req.Account)
	password := strings.TrimSpace(req.Password)
	nickname := strings.TrimSpace(req.Nickname)
	avatar := strings.TrimSpace(req.Avatar)
	if account == "" || password == "" || nickname == "" || avatar == "" {
		return nil, myErrors.New(myErrors.ErrValidation, "请填写必填项（账号、密码、昵称、头像）")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("计算口令摘要失败", zap.Error(err))
		return nil, fmt.Errorf("计算口令摘要失败: %w", err)
	}

	user := entities.User{
		ID:           entities.NewID(entities.UserIDPrefix),
		Account:      account,
		PasswordHash: hash,
		Role:         entities.NormalizeRole(req.Role),
		Nickname:     nickname,
		Avatar:       avatar,
		Gender:       req.Gender,
		Birthday:     req.Birthday,
		Region:       req.Region,
		Preference:   mergePreference(entities.Preference{Allergies: []string{}}, req.Preference),
		CreatedAt:    s.now().UTC(),
	}

	_, err = collection.Mutate(ctx, s.repo, constant.UsersKey, func(users []entities.User) ([]entities.User, error) {
		for _, u := range users {
			if u.Account == account {
				return nil, myErrors.New(myErrors.ErrConflict, "账号已存在")
			}
		}
		return append([]entities.User{user}, users...), nil
	})
	if err != nil {
		if myErrors.IsBusiness(err) {
			s.logger.Info("注册被拒绝", zap.String("account", account), zap.Error(err))
		}
		return nil, err
	}
	s.logger.Info("新用户注册成功", zap.String("userID", user.ID), zap.String("role", user.Role))
	return &user, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (Principal, error) {
	account := strings.TrimSpace(req.Account)
	var principal Principal
	err := s.repo.Serialize(func() error {
		users := collection.Read(ctx, s.repo, constant.UsersKey, []entities.User{})
		var target *entities.User
		for i := range users {
			if users[i].Account == account {
				target = &users[i]
				break
			}
		}
		if target == nil {
			return myErrors.New(myErrors.ErrNotFound, "账号不存在")
		}
		if !s.hasher.Verify(req.Password, target.PasswordHash) {
			return myErrors.New(myErrors.ErrAuth, "密码错误")
		}

		now := s.now().UTC()
		session := &entities.Session{
			UserID:   target.ID,
			Role:     target.Role,
			ExpireAt: now.Add(s.sessionTTL),
			LoginAt:  now,
		}
		if err := collection.WriteValue(ctx, s.repo, constant.SessionKey, session); err != nil {
			return fmt.Errorf("写入会话失败: %w", err)
		}
		principal = Principal{Session: session, User: target}
		return nil
	})
	if err != nil {
		s.logger.Info("登录失败", zap.String("account", account), zap.Error(err))
		return Guest(), err
	}
	s.logger.Info("登录成功", zap.String("userID", principal.User.ID), zap.String("role", principal.Role()))
	return principal, nil
}

func (s *authService) Logout(ctx context.Context) error {
	return s.repo.Serialize(func() error {
		if err := collection.WriteValue[entities.Session](ctx, s.repo, constant.SessionKey, nil); err != nil {
			return fmt.Errorf("清除会话失败: %w", err)
		}
		return nil
	})
}

func (s *authService) HydrateSession(ctx context.Context) (Principal, error) {
	principal := Guest()
	err := s.repo.Serialize(func() error {
		session, ok := collection.ReadValue[entities.Session](ctx, s.repo, constant.SessionKey)
		if !ok {
			return nil
		}
		if session.Expired(s.now()) {
			s.logger.Info("会话已过期，清除", zap.String("userID", session.UserID), zap.Time("expireAt", session.ExpireAt))
			if err := collection.WriteValue[entities.Session](ctx, s.repo, constant.SessionKey, nil); err != nil {
				return fmt.Errorf("清除过期会话失败: %w", err)
			}
			return nil
		}
		users := collection.Read(ctx, s.repo, constant.UsersKey, []entities.User{})
		idx := collection.IndexOf(users, session.UserID)
		if idx < 0 {
			s.logger.Warn("会话指向的用户不存在，按未登录处理", zap.String("userID", session.UserID))
			return nil
		}
		user := users[idx]
		principal = Principal{Session: session, User: &user}
		return nil
	})
	if err != nil {
		return Guest(), err
	}
	return principal, nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	account := strings.TrimSpace(req.Account)
	password := strings.TrimSpace(req.NewPassword)
	if password == "" {
		return myErrors.New(myErrors.ErrValidation, "新密码不能为空")
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("计算口令摘要失败: %w", err)
	}

	return s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.UsersKey, func(users []entities.User) ([]entities.User, error) {
			for i := range users {
				if users[i].Account == account {
					users[i].PasswordHash = hash
					return users, nil
				}
			}
			return nil, myErrors.New(myErrors.ErrNotFound, "账号不存在")
		})
		if err == nil {
			s.logger.Info("密码已重置", zap.String("account", account))
		}
		return err
	})
}

func (s *authService) UpdateProfile(ctx context.Context, actor Principal, req *dto.UpdateProfileRequest) (*vo.UserView, error) {
	if !actor.IsAuthenticated() {
		return nil, myErrors.New(myErrors.ErrPermission, "未登录")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var updated entities.User
	err := s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.UsersKey, func(users []entities.User) ([]entities.User, error) {
			idx := collection.IndexOf(users, actor.UserID())
			if idx < 0 {
				return nil, myErrors.New(myErrors.ErrNotFound, "用户不存在")
			}
			u := &users[idx]
			assignIfSet(&u.Nickname, req.Nickname)
			assignIfSet(&u.Avatar, req.Avatar)
			assignIfSet(&u.Gender, req.Gender)
			assignIfSet(&u.Birthday, req.Birthday)
			assignIfSet(&u.Region, req.Region)
			u.Preference = mergePreference(u.Preference, req.Preference)
			updated = *u
			return users, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("用户资料已更新", zap.String("userID", updated.ID))
	return vo.NewUserView(&updated), nil
}

func (s *authService) UpdatePreference(ctx context.Context, actor Principal, patch *dto.PreferencePatch) (*vo.UserView, error) {
	return s.UpdateProfile(ctx, actor, &dto.UpdateProfileRequest{Preference: patch})
}

func (s *authService) AdminUpsertUser(ctx context.Context, actor Principal, req *dto.AdminUpsertUserRequest) (*vo.UserView, error) {
	if !actor.CanAccess(constant.RoleAdmin) {
		s.logger.Warn("非管理员尝试维护用户", zap.String("actorID", actor.UserID()), zap.String("role", actor.Role()))
		return nil, myErrors.New(myErrors.ErrPermission, "无权限")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	if req.ID == "" {
		nickname := derefString(req.Nickname)
		if req.Account == "" || req.Password == "" || nickname == "" {
			return nil, myErrors.New(myErrors.ErrValidation, "新增用户需要账号、密码、昵称")
		}
		return s.Register(ctx, &dto.RegisterRequest{
			Account:    req.Account,
			Password:   req.Password,
			Nickname:   nickname,
			Avatar:     derefString(req.Avatar),
			Role:       derefString(req.Role),
			Gender:     derefString(req.Gender),
			Birthday:   derefString(req.Birthday),
			Region:     derefString(req.Region),
			Preference: req.Preference,
		})
	}

	var newHash string
	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("计算口令摘要失败: %w", err)
		}
		newHash = hash
	}

	var updated entities.User
	err := s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.UsersKey, func(users []entities.User) ([]entities.User, error) {
			idx := collection.IndexOf(users, req.ID)
			if idx < 0 {
				return nil, myErrors.New(myErrors.ErrNotFound, "用户不存在")
			}
			u := &users[idx]
			assignIfSet(&u.Nickname, req.Nickname)
			assignIfSet(&u.Avatar, req.Avatar)
			assignIfSet(&u.Gender, req.Gender)
			assignIfSet(&u.Birthday, req.Birthday)
			assignIfSet(&u.Region, req.Region)
			if req.Role != nil && *req.Role != "" {
				u.Role = entities.NormalizeRole(*req.Role)
			}
			u.Preference = mergePreference(u.Preference, req.Preference)
			if newHash != "" {
				u.PasswordHash = newHash
			}
			updated = *u
			return users, nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("管理员更新了用户", zap.String("actorID", actor.UserID()), zap.String("userID", updated.ID))
	return vo.NewUserView(&updated), nil
}

func (s *authService) AdminDeleteUser(ctx context.Context, actor Principal, userID string) error {
	if !actor.CanAccess(constant.RoleAdmin) {
		s.logger.Warn("非管理员尝试删除用户", zap.String("actorID", actor.UserID()), zap.String("targetID", userID))
		return myErrors.New(myErrors.ErrPermission, "无权限")
	}
	if actor.Session != nil && actor.Session.UserID == userID {
		return myErrors.New(myErrors.ErrSelfDelete, "不能删除当前登录用户")
	}

	return s.repo.Serialize(func() error {
		_, err := collection.Mutate(ctx, s.repo, constant.UsersKey, func(users []entities.User) ([]entities.User, error) {
			return collection.Filter(users, func(u entities.User) bool { return u.ID != userID }), nil
		})
		if err == nil {
			s.logger.Info("管理员删除了用户（不级联其内容）", zap.String("actorID", actor.UserID()), zap.String("userID", userID))
		}
		return err
	})
}

func (s *authService) ListUsers(ctx context.Context, actor Principal) ([]vo.UserView, error) {
	if !actor.CanAccess(constant.RoleAdmin) {
		return nil, myErrors.New(myErrors.ErrPermission, "无权限")
	}
	var users []entities.User
	s.repo.View(func() {
		users = collection.Read(ctx, s.repo, constant.UsersKey, []entities.User{})
	})
	views := make([]vo.UserView, 0, len(users))
	for i := range users {
		views = append(views, *vo.NewUserView(&users[i]))
	}
	return views, nil
}

// mergePreference 按子字段合并偏好，patch 中为 nil 的字段保持原值。
func mergePreference(base entities.Preference, patch *dto.PreferencePatch) entities.Preference {
	if base.Allergies == nil {
		base.Allergies = []string{}
	}
	if patch == nil {
		return base
	}
	if patch.LowSugar != nil {
		base.LowSugar = *patch.LowSugar
	}
	if patch.HighFiber != nil {
		base.HighFiber = *patch.HighFiber
	}
	if patch.Allergies != nil {
		base.Allergies = append([]string{}, patch.Allergies...)
	}
	return base
}

func assignIfSet(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
