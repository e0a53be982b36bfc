package dto

// QueryPostsRequest 社区帖子列表查询条件。调用者身份由会话上下文提供。
type QueryPostsRequest struct {
	// Search 关键字，大小写不敏感，匹配标题、正文、标签
	Search string `json:"search" form:"search"`
	// Sort 排序方式，默认 latest
	Sort string `json:"sort" form:"sort" binding:"omitempty,oneof=latest hot featured"`
	// Tag 标签筛选，"全部" 或 "all" 表示不过滤
	Tag string `json:"tag" form:"tag"`
	// Page 页码，从 1 开始，默认 1
	Page int `json:"page" form:"page" binding:"omitempty,gte=1,lte=1000000"`
	// PageSize 每页数量，默认 10
	PageSize int `json:"pageSize" form:"pageSize" binding:"omitempty,gte=1,lte=100"`
}
