package model

// 反馈状态枚举
const (
	FeedbackPending  = "pending"
	FeedbackReviewed = "reviewed"
	FeedbackResolved = "resolved"
)

// ValidFeedbackStatus 判断反馈状态是否为合法枚举值
func ValidFeedbackStatus(status string) bool {
	switch status {
	case FeedbackPending, FeedbackReviewed, FeedbackResolved:
		return true
	}
	return false
}

// Feedback 反馈表 — 对应 feedback
type Feedback struct {
	FeedbackID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"feedback_id"`
	IdentityID string `gorm:"type:uuid;not null;index:idx_feedback_identity_id" json:"identity_id"`
	Title      string `gorm:"type:varchar(200);not null"                     json:"title"`
	Message    string `gorm:"type:text;not null"                             json:"message"`
	Status     string `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | reviewed | resolved
	BaseModel
}

// TableName 指定表名
func (Feedback) TableName() string { return "feedback" }
