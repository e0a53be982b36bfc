package dto

// PreferencePatch 偏好的局部更新，nil 字段表示保持不变。
type PreferencePatch struct {
	LowSugar  *bool    `json:"lowSugar"`
	HighFiber *bool    `json:"highFiber"`
	Allergies []string `json:"allergies"` // nil 表示不修改，空数组表示清空
}

// RegisterRequest 注册请求。
// - 账号、密码、昵称、头像去空白后必填，由认证服务校验并给出统一提示。
type RegisterRequest struct {
	Account    string           `json:"account" binding:"max=64"`
	Password   string           `json:"password" binding:"max=128"`
	Nickname   string           `json:"nickname" binding:"max=50"`
	Avatar     string           `json:"avatar"`
	Role       string           `json:"role"` // 非法值静默归一为 user
	Gender     string           `json:"gender"`
	Birthday   string           `json:"birthday"`
	Region     string           `json:"region"`
	Preference *PreferencePatch `json:"preference"`
}

// LoginRequest 登录请求。
type LoginRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
}

// ResetPasswordRequest 找回密码：按账号重置。
type ResetPasswordRequest struct {
	Account     string `json:"account"`
	NewPassword string `json:"newPassword" binding:"max=128"`
}

// UpdateProfileRequest 资料更新，nil 字段保持原值；Preference 按子字段合并。
type UpdateProfileRequest struct {
	Nickname   *string          `json:"nickname" binding:"omitempty,max=50"`
	Avatar     *string          `json:"avatar"`
	Gender     *string          `json:"gender"`
	Birthday   *string          `json:"birthday"`
	Region     *string          `json:"region"`
	Preference *PreferencePatch `json:"preference"`
}

// AdminUpsertUserRequest 管理员新增或编辑用户。
// - ID 为空：新增，账号、密码、昵称必填。
// - ID 非空：合并到已有用户；Account 不可修改会被忽略；Password 非空时才重新计算摘要。
type AdminUpsertUserRequest struct {
	ID         string           `json:"id"`
	Account    string           `json:"account" binding:"max=64"`
	Password   string           `json:"password" binding:"max=128"`
	Nickname   *string          `json:"nickname" binding:"omitempty,max=50"`
	Avatar     *string          `json:"avatar"`
	Role       *string          `json:"role"`
	Gender     *string          `json:"gender"`
	Birthday   *string          `json:"birthday"`
	Region     *string          `json:"region"`
	Preference *PreferencePatch `json:"preference"`
}
