package handler

import "smart-class-flow/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Classroom *ClassroomHandler
	Course    *CourseHandler
	Timetable *TimetableHandler
	Feedback  *FeedbackHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Profile:   NewProfileHandler(svc.Profile),
		Classroom: NewClassroomHandler(svc.Classroom),
		Course:    NewCourseHandler(svc.Course),
		Timetable: NewTimetableHandler(svc.Timetable),
		Feedback:  NewFeedbackHandler(svc.Feedback),
		Export:    NewExportHandler(svc.Export),
	}
}
