package entities

import "time"

// Report 举报实体
// - 状态只会 pending -> resolved，不存在回退。
// - HandledBy / HandledAt 在处理前为 null。
type Report struct {
	ID          string     `json:"id"`
	PostID      string     `json:"postId"`
	ReporterID  string     `json:"reporterId"`
	Reason      string     `json:"reason"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	HandledBy   *string    `json:"handledBy"`
	HandledAt   *time.Time `json:"handledAt"`
	Result      string     `json:"result"`
}

func (r Report) GetID() string { return r.ID }
