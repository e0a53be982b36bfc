package constant

import "time"

// 服务元信息
const (
	ServiceName    = "fruitmaster-service"
	ServiceVersion = "1.0.0"
)

// 角色
const (
	RoleAdmin      = "admin"
	RoleMaintainer = "maintainer"
	RoleUser       = "user"
	// RoleGuest 不会被持久化，仅表示"未登录"。
	RoleGuest = "guest"
)

// 帖子排序方式
const (
	SortLatest   = "latest"
	SortHot      = "hot"
	SortFeatured = "featured"
)

// 审核动作
const (
	ModerateApprove = "approve"
	ModerateHide    = "hide"
	ModerateShow    = "show"
	ModeratePin     = "pin"
)

// 举报状态
const (
	ReportPending  = "pending"
	ReportResolved = "resolved"
)

// 制作模式
const (
	ModeJuice  = "juice"
	ModeCanned = "canned"
	ModeCut    = "cut"
)

const (
	// TagAll 标签筛选哨兵值，等价于不筛选。"all" 同样被接受。
	TagAll = "全部"

	// MaxPostImages 单个帖子最多图片数。
	MaxPostImages = 9

	// DefaultPageSize 分页默认每页数量。
	DefaultPageSize = 10

	// MinFruitCount / MaxFruitCount 制作记录中水果数量的合法区间。
	MinFruitCount = 1
	MaxFruitCount = 6

	// DefaultSessionTTL 会话有效期：7 天。
	DefaultSessionTTL = 7 * 24 * time.Hour

	// DefaultReportResult 处理举报时未填写结果的默认文案。
	DefaultReportResult = "已处理"

	// HotPostsCacheCronSpec 热榜快照刷新周期 (cron 表达式，分钟级)。
	HotPostsCacheCronSpec = "*/5 * * * *"

	// HotPostsCacheSize 热榜快照保留的帖子数量。
	HotPostsCacheSize = 50
)
