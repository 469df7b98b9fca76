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

// ── 教室模块业务错误 ──

var (
	ErrClassroomNotFound  = errors.New("教室不存在")
	ErrClassroomNameTaken = errors.New("教室名称已存在")
)

// ClassroomService 教室业务接口
// 读操作对所有已认证身份开放；写操作经策略层校验管理员角色
type ClassroomService interface {
	Create(ctx context.Context, identityID string, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error)
	List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, error)
	Update(ctx context.Context, identityID, id string, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error)
	Delete(ctx context.Context, identityID, id string) error
}

type classroomService struct {
	repo   *repository.Repository
	az     *authz.Authorizer
	logger *zap.Logger
}

// NewClassroomService 创建 ClassroomService 实例
func NewClassroomService(repo *repository.Repository, az *authz.Authorizer, logger *zap.Logger) ClassroomService {
	return &classroomService{repo: repo, az: az, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classroomService) Create(ctx context.Context, identityID string, req *dto.CreateClassroomRequest) (*dto.ClassroomResponse, error) {
	if err := s.az.Authorize(ctx, identityID, authz.ResourceClassrooms, authz.ActionInsert, authz.Row{}); err != nil {
		return nil, err
	}

	classroom := &model.Classroom{
		Name:        req.Name,
		Capacity:    req.Capacity,
		Equipment:   req.Equipment,
		Location:    req.Location,
		IsAvailable: true,
		Remarks:     req.Remarks,
	}
	if classroom.Equipment == nil {
		classroom.Equipment = []string{}
	}

	if err := s.repo.Classroom.Create(ctx, classroom); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrClassroomNameTaken
		}
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	return toClassroomResponse(classroom), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *classroomService) GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error) {
	classroom, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toClassroomResponse(classroom), nil
}

// ────────────────────── List ──────────────────────

func (s *classroomService) List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, error) {
	classrooms, err := s.repo.Classroom.List(ctx, req.IncludeUnavailable)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ClassroomResponse, 0, len(classrooms))
	for i := range classrooms {
		result = append(result, *toClassroomResponse(&classrooms[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *classroomService) Update(ctx context.Context, identityID, id string, req *dto.UpdateClassroomRequest) (*dto.ClassroomResponse, error) {
	if err := s.az.Authorize(ctx, identityID, authz.ResourceClassrooms, authz.ActionUpdate, authz.Row{}); err != nil {
		return nil, err
	}

	classroom, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		classroom.Name = *req.Name
	}
	if req.Capacity != nil {
		classroom.Capacity = *req.Capacity
	}
	if req.Equipment != nil {
		classroom.Equipment = *req.Equipment
	}
	if req.Location != nil {
		classroom.Location = *req.Location
	}
	if req.IsAvailable != nil {
		classroom.IsAvailable = *req.IsAvailable
	}
	if req.Remarks != nil {
		classroom.Remarks = *req.Remarks
	}

	if err := s.repo.Classroom.Update(ctx, classroom); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrClassroomNameTaken
		}
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toClassroomResponse(classroom), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classroomService) Delete(ctx context.Context, identityID, id string) error {
	if err := s.az.Authorize(ctx, identityID, authz.ResourceClassrooms, authz.ActionDelete, authz.Row{}); err != nil {
		return err
	}

	if _, err := s.repo.Classroom.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Classroom.Delete(ctx, id); err != nil {
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func toClassroomResponse(c *model.Classroom) *dto.ClassroomResponse {
	return &dto.ClassroomResponse{
		ID:          c.ClassroomID,
		Name:        c.Name,
		Capacity:    c.Capacity,
		Equipment:   c.Equipment,
		Location:    c.Location,
		IsAvailable: c.IsAvailable,
		Remarks:     c.Remarks,
		CreatedAt:   formatTime(c.CreatedAt),
		UpdatedAt:   formatTime(c.UpdatedAt),
	}
}
