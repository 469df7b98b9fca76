package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"smart-class-flow/backend/internal/authz"
	"smart-class-flow/backend/internal/dto"
	"smart-class-flow/backend/internal/model"
	"smart-class-flow/backend/internal/repository"
	pkgerrors "smart-class-flow/backend/pkg/errors"
)

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound  = errors.New("课程不存在")
	ErrCourseCodeTaken = errors.New("课程代码已存在")
)

// CourseService 课程业务接口
// 读操作对所有已认证身份开放；写操作经策略层校验管理员角色
type CourseService interface {
	Create(ctx context.Context, identityID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, error)
	Update(ctx context.Context, identityID, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, identityID, id string) error
}

type courseService struct {
	repo   *repository.Repository
	az     *authz.Authorizer
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, az *authz.Authorizer, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, az: az, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, identityID string, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	if err := s.az.Authorize(ctx, identityID, authz.ResourceCourses, authz.ActionInsert, authz.Row{}); err != nil {
		return nil, err
	}

	credits := req.Credits
	if credits == 0 {
		credits = 3 // 缺省学分
	}

	course := &model.Course{
		Code:        req.Code,
		Name:        req.Name,
		Department:  req.Department,
		Credits:     credits,
		Description: req.Description,
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrCourseCodeTaken
		}
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	return toCourseResponse(course), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx, req.Department)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, identityID, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	if err := s.az.Authorize(ctx, identityID, authz.ResourceCourses, authz.ActionUpdate, authz.Row{}); err != nil {
		return nil, err
	}

	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Code != nil {
		course.Code = *req.Code
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Department != nil {
		course.Department = *req.Department
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Description != nil {
		course.Description = *req.Description
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrCourseCodeTaken
		}
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, identityID, id string) error {
	if err := s.az.Authorize(ctx, identityID, authz.ResourceCourses, authz.ActionDelete, authz.Row{}); err != nil {
		return err
	}

	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:          c.CourseID,
		Code:        c.Code,
		Name:        c.Name,
		Department:  c.Department,
		Credits:     c.Credits,
		Description: c.Description,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}
