package dto

// ── 反馈模块 DTO ──

// CreateFeedbackRequest 创建反馈请求（归属身份以调用者为准）
type CreateFeedbackRequest struct {
	Title   string `json:"title"   binding:"required,min=1,max=200"`
	Message string `json:"message" binding:"required,min=1,max=2000"`
}

// UpdateFeedbackRequest 更新反馈请求
// 标题/内容仅限本人修改；状态流转仅限管理员
type UpdateFeedbackRequest struct {
	Title   *string `json:"title"   binding:"omitempty,min=1,max=200"`
	Message *string `json:"message" binding:"omitempty,min=1,max=2000"`
	Status  *string `json:"status"  binding:"omitempty,oneof=pending reviewed resolved"`
}

// FeedbackListRequest 反馈列表查询参数
type FeedbackListRequest struct {
	Page     int `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// FeedbackResponse 反馈信息响应
type FeedbackResponse struct {
	ID         string `json:"id"`
	IdentityID string `json:"identity_id"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}
