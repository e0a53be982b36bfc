package events

import "time"

// PostData 事件中携带的帖子核心数据。
type PostData struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostPendingAuditEvent 非管理员发帖后发出，外部审核方据此给出结论。
type PostPendingAuditEvent struct {
	EventID   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	Post      PostData  `json:"post"`
}

// PostDeletedEvent 帖子被删除（已级联清理依赖数据）。
type PostDeletedEvent struct {
	EventID   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	PostID    string    `json:"postId"`
	DeletedBy string    `json:"deletedBy"`
}

// ReportFiledEvent 新的举报进入待处理状态。
type ReportFiledEvent struct {
	EventID    string    `json:"eventId"`
	Timestamp  time.Time `json:"timestamp"`
	ReportID   string    `json:"reportId"`
	PostID     string    `json:"postId"`
	ReporterID string    `json:"reporterId"`
	Reason     string    `json:"reason"`
}

// PostAuditVerdictEvent 外部审核结论。通过与拒绝分别投递到不同主题，结构相同。
type PostAuditVerdictEvent struct {
	EventID   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	PostID    string    `json:"postId"`
	Reason    string    `json:"reason"`
	// Labels 拒绝时命中的标签，仅用于日志
	Labels []string `json:"labels"`
}
