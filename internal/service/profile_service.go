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
)

// ── 档案模块业务错误 ──

var ErrProfileNotFound = errors.New("档案不存在")

// ProfileService 档案业务接口
type ProfileService interface {
	// List 档案目录，对所有已认证身份开放
	List(ctx context.Context, req *dto.ProfileListRequest) ([]dto.ProfileResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.ProfileResponse, error)
	GetByIdentity(ctx context.Context, identityID string) (*dto.ProfileResponse, error)
	// UpdateOwn 更新本人档案；归属校验走策略层
	UpdateOwn(ctx context.Context, identityID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
}

type profileService struct {
	repo   *repository.Repository
	az     *authz.Authorizer
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, az *authz.Authorizer, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, az: az, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *profileService) List(ctx context.Context, req *dto.ProfileListRequest) ([]dto.ProfileResponse, int64, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	profiles, total, err := s.repo.Profile.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("列出档案失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ProfileResponse, 0, len(profiles))
	for i := range profiles {
		result = append(result, *toProfileResponse(&profiles[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *profileService) GetByID(ctx context.Context, id string) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询档案失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toProfileResponse(profile), nil
}

// ────────────────────── GetByIdentity ──────────────────────

func (s *profileService) GetByIdentity(ctx context.Context, identityID string) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByIdentityID(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询档案失败", zap.String("identity_id", identityID), zap.Error(err))
		return nil, err
	}
	return toProfileResponse(profile), nil
}

// ────────────────────── UpdateOwn ──────────────────────

func (s *profileService) UpdateOwn(ctx context.Context, identityID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.repo.Profile.GetByIdentityID(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		s.logger.Error("查询档案失败", zap.String("identity_id", identityID), zap.Error(err))
		return nil, err
	}

	if err := s.az.Authorize(ctx, identityID, authz.ResourceProfiles, authz.ActionUpdate,
		authz.Row{OwnerIdentityID: profile.IdentityID}); err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Department != nil {
		profile.Department = *req.Department
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}

	if err := s.repo.Profile.Update(ctx, profile); err != nil {
		s.logger.Error("更新档案失败", zap.String("identity_id", identityID), zap.Error(err))
		return nil, err
	}

	return toProfileResponse(profile), nil
}

// ── 内部辅助方法 ──

func toProfileResponse(p *model.Profile) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:         p.ProfileID,
		IdentityID: p.IdentityID,
		Name:       p.Name,
		Email:      p.Email,
		Role:       p.Role,
		Department: p.Department,
		Phone:      p.Phone,
		CreatedAt:  formatTime(p.CreatedAt),
		UpdatedAt:  formatTime(p.UpdatedAt),
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
