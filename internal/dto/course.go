package dto

// ── 课程模块 DTO ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Code        string `json:"code"        binding:"required,min=2,max=20"`
	Name        string `json:"name"        binding:"required,min=1,max=200"`
	Department  string `json:"department"  binding:"omitempty,max=100"`
	Credits     int    `json:"credits"     binding:"omitempty,gt=0"` // 缺省 3 学分
	Description string `json:"description" binding:"omitempty,max=1000"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Code        *string `json:"code"        binding:"omitempty,min=2,max=20"`
	Name        *string `json:"name"        binding:"omitempty,min=1,max=200"`
	Department  *string `json:"department"  binding:"omitempty,max=100"`
	Credits     *int    `json:"credits"     binding:"omitempty,gt=0"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	Department string `form:"department" binding:"omitempty,max=100"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Department  string `json:"department,omitempty"`
	Credits     int    `json:"credits"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
