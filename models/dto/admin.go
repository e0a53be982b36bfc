package dto

// ModeratePostRequest 审核动作。
type ModeratePostRequest struct {
	Action string `json:"action" binding:"required,oneof=approve hide show pin"` // approve / hide / show / pin(切换)
}

// AddReportRequest 举报帖子。
type AddReportRequest struct {
	PostID      string `json:"postId"`
	ReporterID  string `json:"reporterId"`
	Reason      string `json:"reason" binding:"max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// HandleReportRequest 处理举报，Result 为空时使用默认文案。
type HandleReportRequest struct {
	ReportID string `json:"reportId" binding:"required"`
	Result   string `json:"result" binding:"max=500"`
}

// ListReportsRequest 举报列表筛选，Status 为空表示全部。
type ListReportsRequest struct {
	Status string `json:"status" form:"status" binding:"omitempty,oneof=pending resolved"`
}
