package dto

import "encoding/json"

// CreatePostRequest 发帖请求。
// - 标题和正文必填（由内容引擎校验）。
// - Images 超过上限的部分会被截断，空字符串会被过滤。
type CreatePostRequest struct {
	Title   string          `json:"title" binding:"max=100"`    // 帖子标题
	Content string          `json:"content" binding:"max=5000"` // 帖子正文
	Tags    []string        `json:"tags"`                       // 标签
	Images  []string        `json:"images"`                     // 图片 URL
	Recipe  json.RawMessage `json:"recipe"`                     // 配方，可选，原样透传
}

// UpdatePostRequest 编辑帖子，只允许修改内容字段；nil 表示保持原值。
// 置顶、隐藏、审核状态只能通过审核动作修改。
type UpdatePostRequest struct {
	Title   *string         `json:"title" binding:"omitempty,max=100"`
	Content *string         `json:"content" binding:"omitempty,max=5000"`
	Tags    []string        `json:"tags"`
	Images  []string        `json:"images"`
	Recipe  json.RawMessage `json:"recipe"`
}

// AddCommentRequest 发表评论。
// - UserID 只要求非空，不校验是否为当前会话用户。
// - ParentID 非空时必须指向同一帖子下的评论。
type AddCommentRequest struct {
	PostID   string  `json:"postId"`
	UserID   string  `json:"userId"`
	Content  string  `json:"content" binding:"max=1000"`
	ParentID *string `json:"parentId"`
}
