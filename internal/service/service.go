package service

import (
	"time"

	"go.uber.org/zap"

	"smart-class-flow/backend/config"
	"smart-class-flow/backend/internal/authz"
	"smart-class-flow/backend/internal/repository"
	"smart-class-flow/backend/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	Profile   ProfileService
	Classroom ClassroomService
	Course    CourseService
	Timetable TimetableService
	Feedback  FeedbackService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	az *authz.Authorizer,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	timetable := NewTimetableService(repo, az, logger)
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, logger),
		Profile:   NewProfileService(repo, az, logger),
		Classroom: NewClassroomService(repo, az, logger),
		Course:    NewCourseService(repo, az, logger),
		Timetable: timetable,
		Feedback:  NewFeedbackService(repo, az, logger),
		Export:    NewExportService(repo, logger),
	}
}

// formatTime 统一时间戳输出格式
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
