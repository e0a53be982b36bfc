package vo

import (
	"time"

	"github.com/Xushengqwer/fruitmaster_service/models/entities"
)

// UserView 对外展示的用户信息，不包含口令摘要。
type UserView struct {
	ID         string              `json:"id"`
	Account    string              `json:"account"`
	Role       string              `json:"role"`
	Nickname   string              `json:"nickname"`
	Avatar     string              `json:"avatar"`
	Gender     string              `json:"gender"`
	Birthday   string              `json:"birthday"`
	Region     string              `json:"region"`
	Preference entities.Preference `json:"preference"`
	CreatedAt  time.Time           `json:"createdAt"`
}

// NewUserView 从实体构造视图。
func NewUserView(u *entities.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{
		ID:         u.ID,
		Account:    u.Account,
		Role:       u.Role,
		Nickname:   u.Nickname,
		Avatar:     u.Avatar,
		Gender:     u.Gender,
		Birthday:   u.Birthday,
		Region:     u.Region,
		Preference: u.Preference,
		CreatedAt:  u.CreatedAt,
	}
}

// SessionView 导航守卫使用的会话快照。
type SessionView struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	Role            string     `json:"role"` // 未登录时为 guest
	User            *UserView  `json:"user,omitempty"`
	ExpireAt        *time.Time `json:"expireAt,omitempty"`
	LoginAt         *time.Time `json:"loginAt,omitempty"`
}
