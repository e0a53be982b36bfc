package service

import (
	"github.com/Xushengqwer/fruitmaster_service/constant"
	"github.com/Xushengqwer/fruitmaster_service/models/entities"
	"github.com/Xushengqwer/fruitmaster_service/models/vo"
)

// Principal 是一次调用的会话上下文：持久化的会话加上会话指向的实时用户记录。
// - 由 AuthService.HydrateSession 产生，显式传入每个需要身份的操作，不存在全局"当前用户"。
// - 角色以用户记录上的实时角色为准，会话里的角色只是登录时的快照。
type Principal struct {
	Session *entities.Session
	User    *entities.User
}

// Guest 未登录的上下文。
func Guest() Principal {
	return Principal{}
}

// IsAuthenticated 会话存在且指向一个仍然存在的用户。
func (p Principal) IsAuthenticated() bool {
	return p.Session != nil && p.User != nil
}

// UserID 未登录时返回空字符串。
func (p Principal) UserID() string {
	if !p.IsAuthenticated() {
		return ""
	}
	return p.User.ID
}

// Role 未登录时为 guest。
func (p Principal) Role() string {
	if !p.IsAuthenticated() {
		return constant.RoleGuest
	}
	return p.User.Role
}

// IsAdmin 是否为管理员。
func (p Principal) IsAdmin() bool {
	return p.Role() == constant.RoleAdmin
}

// CanAccess roles 为空表示公开；否则要求当前角色在列表中。
func (p Principal) CanAccess(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	role := p.Role()
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// View 转为导航守卫使用的会话快照。
func (p Principal) View() vo.SessionView {
	view := vo.SessionView{IsAuthenticated: p.IsAuthenticated(), Role: p.Role()}
	if p.IsAuthenticated() {
		view.User = vo.NewUserView(p.User)
		expireAt, loginAt := p.Session.ExpireAt, p.Session.LoginAt
		view.ExpireAt, view.LoginAt = &expireAt, &loginAt
	}
	return view
}
