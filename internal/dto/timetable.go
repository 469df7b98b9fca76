package dto

// ── 课程安排模块 DTO ──

// CreateTimetableEntryRequest 创建课程安排请求
type CreateTimetableEntryRequest struct {
	CourseID     string `json:"course_id"     binding:"required,uuid"`
	FacultyID    string `json:"faculty_id"    binding:"required,uuid"`
	ClassroomID  string `json:"classroom_id"  binding:"required,uuid"`
	DayOfWeek    string `json:"day_of_week"   binding:"required"`
	StartTime    string `json:"start_time"    binding:"required"` // HH:MM
	EndTime      string `json:"end_time"      binding:"required"` // HH:MM
	Semester     string `json:"semester"      binding:"omitempty,max=50"`
	AcademicYear string `json:"academic_year" binding:"omitempty,max=20"`
}

// UpdateTimetableEntryRequest 更新课程安排请求
type UpdateTimetableEntryRequest struct {
	CourseID     *string `json:"course_id"     binding:"omitempty,uuid"`
	FacultyID    *string `json:"faculty_id"    binding:"omitempty,uuid"`
	ClassroomID  *string `json:"classroom_id"  binding:"omitempty,uuid"`
	DayOfWeek    *string `json:"day_of_week"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Semester     *string `json:"semester"      binding:"omitempty,max=50"`
	AcademicYear *string `json:"academic_year" binding:"omitempty,max=20"`
}

// TimetableListRequest 课程安排查询参数（仪表盘联表查询）
type TimetableListRequest struct {
	DayOfWeek string `form:"day"`
	FacultyID string `form:"faculty_id" binding:"omitempty,uuid"`
	Limit     int    `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
}

// TimetableEntryResponse 课程安排响应（含联表摘要）
type TimetableEntryResponse struct {
	ID           string `json:"id"`
	CourseID     string `json:"course_id"`
	CourseCode   string `json:"course_code,omitempty"`
	CourseName   string `json:"course_name,omitempty"`
	FacultyID    string `json:"faculty_id"`
	FacultyName  string `json:"faculty_name,omitempty"`
	ClassroomID  string `json:"classroom_id"`
	RoomName     string `json:"room_name,omitempty"`
	DayOfWeek    string `json:"day_of_week"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Semester     string `json:"semester,omitempty"`
	AcademicYear string `json:"academic_year,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
