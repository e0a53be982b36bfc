package entities

import (
	"time"

	"github.com/Xushengqwer/fruitmaster_service/constant"
)

// Preference 用户饮食偏好，随用户记录一起存储。
type Preference struct {
	LowSugar  bool     `json:"lowSugar"`
	HighFiber bool     `json:"highFiber"`
	Allergies []string `json:"allergies"`
}

// User 用户实体
// - 存储位置: constant.UsersKey 集合
// - Account 创建后不可变且区分大小写；PasswordHash 由可插拔的 security.Hasher 生成。
type User struct {
	ID           string     `json:"id"`
	Account      string     `json:"account"`
	PasswordHash string     `json:"passwordHash"`
	Role         string     `json:"role"`
	Nickname     string     `json:"nickname"`
	Avatar       string     `json:"avatar"`
	Gender       string     `json:"gender"`
	Birthday     string     `json:"birthday"`
	Region       string     `json:"region"`
	Preference   Preference `json:"preference"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (u User) GetID() string { return u.ID }

// Session 当前会话，每个存储至多一个，不是集合。
// - Role 是登录时的角色快照，鉴权以用户记录上的实时角色为准。
type Session struct {
	UserID   string    `json:"userId"`
	Role     string    `json:"role"`
	ExpireAt time.Time `json:"expireAt"`
	LoginAt  time.Time `json:"loginAt"`
}

// Expired 判断会话在 now 时刻是否已过期。
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpireAt.IsZero() && s.ExpireAt.Before(now)
}

// NormalizeRole 把任意输入归一到三个合法角色之一，非法值静默变为 user。
func NormalizeRole(role string) string {
	switch role {
	case constant.RoleAdmin, constant.RoleMaintainer, constant.RoleUser:
		return role
	default:
		return constant.RoleUser
	}
}
