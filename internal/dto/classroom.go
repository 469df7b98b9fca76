package dto

// ── 教室模块 DTO ──

// CreateClassroomRequest 创建教室请求
type CreateClassroomRequest struct {
	Name      string   `json:"name"      binding:"required,min=1,max=100"`
	Capacity  int      `json:"capacity"  binding:"required,gt=0"`
	Equipment []string `json:"equipment" binding:"omitempty,dive,max=50"`
	Location  string   `json:"location"  binding:"omitempty,max=200"`
	Remarks   string   `json:"remarks"   binding:"omitempty,max=500"`
}

// UpdateClassroomRequest 更新教室请求
type UpdateClassroomRequest struct {
	Name        *string   `json:"name"         binding:"omitempty,min=1,max=100"`
	Capacity    *int      `json:"capacity"     binding:"omitempty,gt=0"`
	Equipment   *[]string `json:"equipment"    binding:"omitempty,dive,max=50"`
	Location    *string   `json:"location"     binding:"omitempty,max=200"`
	IsAvailable *bool     `json:"is_available"`
	Remarks     *string   `json:"remarks"      binding:"omitempty,max=500"`
}

// ClassroomListRequest 教室列表查询参数
type ClassroomListRequest struct {
	IncludeUnavailable bool `form:"include_unavailable"`
}

// ClassroomResponse 教室信息响应
type ClassroomResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Capacity    int      `json:"capacity"`
	Equipment   []string `json:"equipment"`
	Location    string   `json:"location,omitempty"`
	IsAvailable bool     `json:"is_available"`
	Remarks     string   `json:"remarks,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}
