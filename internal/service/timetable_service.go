package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-class-flow/backend/internal/authz"
	"smart-class-flow/backend/internal/dto"
	"smart-class-flow/backend/internal/model"
	"smart-class-flow/backend/internal/repository"
	pkgerrors "smart-class-flow/backend/pkg/errors"
)

// ── 课程安排模块业务错误 ──

var (
	ErrEntryNotFound    = errors.New("课程安排不存在")
	ErrInvalidTimeRange = errors.New("结束时间必须晚于开始时间")
	ErrInvalidDayOfWeek = errors.New("无效的星期")
	ErrInvalidClock     = errors.New("时间格式无效，应为 HH:MM")
	ErrEntryRefMissing  = errors.New("引用的课程/教师/教室不存在")
)

// TimetableService 课程安排业务接口
// 读操作对所有已认证身份开放；写操作经策略层校验管理员或教师角色。
// 服务层在落库前先校验时段与星期，数据库 CHECK 约束兜底。
type TimetableService interface {
	Create(ctx context.Context, identityID string, req *dto.CreateTimetableEntryRequest) (*dto.TimetableEntryResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimetableEntryResponse, error)
	List(ctx context.Context, req *dto.TimetableListRequest) ([]dto.TimetableEntryResponse, error)
	Update(ctx context.Context, identityID, id string, req *dto.UpdateTimetableEntryRequest) (*dto.TimetableEntryResponse, error)
	Delete(ctx context.Context, identityID, id string) error
}

type timetableService struct {
	repo   *repository.Repository
	az     *authz.Authorizer
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, az *authz.Authorizer, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, az: az, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timetableService) Create(ctx context.Context, identityID string, req *dto.CreateTimetableEntryRequest) (*dto.TimetableEntryResponse, error) {
	if err := s.az.Authorize(ctx, identityID, authz.ResourceTimetable, authz.ActionInsert, authz.Row{}); err != nil {
		return nil, err
	}

	start, end, err := validateSlot(req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	entry := &model.TimetableEntry{
		CourseID:     req.CourseID,
		FacultyID:    req.FacultyID,
		ClassroomID:  req.ClassroomID,
		DayOfWeek:    req.DayOfWeek,
		StartTime:    start,
		EndTime:      end,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
	}

	if err := s.repo.Timetable.Create(ctx, entry); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, ErrEntryRefMissing
		}
		if pkgerrors.IsCheckViolation(err) {
			return nil, ErrInvalidTimeRange
		}
		s.logger.Error("创建课程安排失败", zap.Error(err))
		return nil, err
	}

	// 重新读取以带出联表摘要
	return s.GetByID(ctx, entry.EntryID)
}

// ────────────────────── GetByID ──────────────────────

func (s *timetableService) GetByID(ctx context.Context, id string) (*dto.TimetableEntryResponse, error) {
	entry, err := s.repo.Timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("查询课程安排失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTimetableEntryResponse(entry), nil
}

// ────────────────────── List ──────────────────────

func (s *timetableService) List(ctx context.Context, req *dto.TimetableListRequest) ([]dto.TimetableEntryResponse, error) {
	if req.DayOfWeek != "" && !model.ValidDayOfWeek(req.DayOfWeek) {
		return nil, ErrInvalidDayOfWeek
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	entries, err := s.repo.Timetable.List(ctx, repository.TimetableFilter{
		DayOfWeek: req.DayOfWeek,
		FacultyID: req.FacultyID,
		Limit:     limit,
	})
	if err != nil {
		s.logger.Error("列出课程安排失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimetableEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toTimetableEntryResponse(&entries[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *timetableService) Update(ctx context.Context, identityID, id string, req *dto.UpdateTimetableEntryRequest) (*dto.TimetableEntryResponse, error) {
	if err := s.az.Authorize(ctx, identityID, authz.ResourceTimetable, authz.ActionUpdate, authz.Row{}); err != nil {
		return nil, err
	}

	entry, err := s.repo.Timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("查询课程安排失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.CourseID != nil {
		entry.CourseID = *req.CourseID
	}
	if req.FacultyID != nil {
		entry.FacultyID = *req.FacultyID
	}
	if req.ClassroomID != nil {
		entry.ClassroomID = *req.ClassroomID
	}
	if req.DayOfWeek != nil {
		entry.DayOfWeek = *req.DayOfWeek
	}
	if req.StartTime != nil {
		entry.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		entry.EndTime = *req.EndTime
	}
	if req.Semester != nil {
		entry.Semester = *req.Semester
	}
	if req.AcademicYear != nil {
		entry.AcademicYear = *req.AcademicYear
	}

	start, end, err := validateSlot(entry.DayOfWeek, entry.StartTime, entry.EndTime)
	if err != nil {
		return nil, err
	}
	entry.StartTime = start
	entry.EndTime = end

	// 清空关联，避免 Save 级联写入预加载的行
	entry.Course, entry.Faculty, entry.Classroom = nil, nil, nil

	if err := s.repo.Timetable.Update(ctx, entry); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, ErrEntryRefMissing
		}
		if pkgerrors.IsCheckViolation(err) {
			return nil, ErrInvalidTimeRange
		}
		s.logger.Error("更新课程安排失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *timetableService) Delete(ctx context.Context, identityID, id string) error {
	if err := s.az.Authorize(ctx, identityID, authz.ResourceTimetable, authz.ActionDelete, authz.Row{}); err != nil {
		return err
	}

	if _, err := s.repo.Timetable.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		s.logger.Error("查询课程安排失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Timetable.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程安排失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

// validateSlot 校验星期枚举与时段先后，返回规整后的 HH:MM
func validateSlot(day, startTime, endTime string) (string, string, error) {
	if !model.ValidDayOfWeek(day) {
		return "", "", ErrInvalidDayOfWeek
	}
	start, err := parseClock(startTime)
	if err != nil {
		return "", "", err
	}
	end, err := parseClock(endTime)
	if err != nil {
		return "", "", err
	}
	if !end.After(start) {
		return "", "", ErrInvalidTimeRange
	}
	return start.Format("15:04"), end.Format("15:04"), nil
}

// parseClock 解析 HH:MM（兼容数据库返回的 HH:MM:SS）
func parseClock(s string) (time.Time, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidClock
}

func toTimetableEntryResponse(e *model.TimetableEntry) *dto.TimetableEntryResponse {
	resp := &dto.TimetableEntryResponse{
		ID:           e.EntryID,
		CourseID:     e.CourseID,
		FacultyID:    e.FacultyID,
		ClassroomID:  e.ClassroomID,
		DayOfWeek:    e.DayOfWeek,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		Semester:     e.Semester,
		AcademicYear: e.AcademicYear,
		CreatedAt:    formatTime(e.CreatedAt),
		UpdatedAt:    formatTime(e.UpdatedAt),
	}
	if e.Course != nil {
		resp.CourseCode = e.Course.Code
		resp.CourseName = e.Course.Name
	}
	if e.Faculty != nil {
		resp.FacultyName = e.Faculty.Name
	}
	if e.Classroom != nil {
		resp.RoomName = e.Classroom.Name
	}
	return resp
}
