package dto

// ── 档案模块 DTO ──

// UpdateProfileRequest 更新档案请求（仅本人）
// 角色不在可更新字段之列：角色变更属于管理操作
type UpdateProfileRequest struct {
	Name       *string `json:"name"       binding:"omitempty,min=1,max=100"`
	Department *string `json:"department" binding:"omitempty,max=100"`
	Phone      *string `json:"phone"      binding:"omitempty,max=20"`
}

// ProfileListRequest 档案目录查询参数
type ProfileListRequest struct {
	Page     int `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// ProfileResponse 档案信息响应
type ProfileResponse struct {
	ID         string `json:"id"`
	IdentityID string `json:"identity_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Phone      string `json:"phone,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}
