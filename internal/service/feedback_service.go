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

// ── 反馈模块业务错误 ──

var ErrFeedbackNotFound = errors.New("反馈不存在")

// FeedbackService 反馈业务接口
//
// 可见性遵循策略层：本人或管理员可读；创建时归属身份强制为调用者；
// 标题/内容仅限本人修改，状态流转仅限管理员。
// 对无权读取的行统一返回"不存在"，避免泄露行的存在性。
type FeedbackService interface {
	Create(ctx context.Context, identityID string, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error)
	GetByID(ctx context.Context, identityID, id string) (*dto.FeedbackResponse, error)
	List(ctx context.Context, identityID string, req *dto.FeedbackListRequest) ([]dto.FeedbackResponse, int64, error)
	Update(ctx context.Context, identityID, id string, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error)
}

type feedbackService struct {
	repo   *repository.Repository
	az     *authz.Authorizer
	logger *zap.Logger
}

// NewFeedbackService 创建 FeedbackService 实例
func NewFeedbackService(repo *repository.Repository, az *authz.Authorizer, logger *zap.Logger) FeedbackService {
	return &feedbackService{repo: repo, az: az, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *feedbackService) Create(ctx context.Context, identityID string, req *dto.CreateFeedbackRequest) (*dto.FeedbackResponse, error) {
	// 归属身份强制为调用者，再走策略层的 owner 校验
	if err := s.az.Authorize(ctx, identityID, authz.ResourceFeedback, authz.ActionInsert,
		authz.Row{OwnerIdentityID: identityID}); err != nil {
		return nil, err
	}

	feedback := &model.Feedback{
		IdentityID: identityID,
		Title:      req.Title,
		Message:    req.Message,
		Status:     model.FeedbackPending,
	}

	if err := s.repo.Feedback.Create(ctx, feedback); err != nil {
		s.logger.Error("创建反馈失败", zap.Error(err))
		return nil, err
	}

	return toFeedbackResponse(feedback), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *feedbackService) GetByID(ctx context.Context, identityID, id string) (*dto.FeedbackResponse, error) {
	feedback, err := s.repo.Feedback.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		s.logger.Error("查询反馈失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if err := s.az.Authorize(ctx, identityID, authz.ResourceFeedback, authz.ActionSelect,
		authz.Row{OwnerIdentityID: feedback.IdentityID}); err != nil {
		if errors.Is(err, authz.ErrDenied) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}

	return toFeedbackResponse(feedback), nil
}

// ────────────────────── List ──────────────────────

func (s *feedbackService) List(ctx context.Context, identityID string, req *dto.FeedbackListRequest) ([]dto.FeedbackResponse, int64, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)
	offset := (page - 1) * pageSize

	// select 策略落为行过滤：管理员全量，其余仅本人
	all, err := s.az.CanReadAllFeedback(ctx, identityID)
	if err != nil {
		s.logger.Error("查询反馈读取范围失败", zap.Error(err))
		return nil, 0, err
	}

	var items []model.Feedback
	var total int64
	if all {
		items, total, err = s.repo.Feedback.ListAll(ctx, offset, pageSize)
	} else {
		items, total, err = s.repo.Feedback.ListByIdentity(ctx, identityID, offset, pageSize)
	}
	if err != nil {
		s.logger.Error("列出反馈失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.FeedbackResponse, 0, len(items))
	for i := range items {
		result = append(result, *toFeedbackResponse(&items[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *feedbackService) Update(ctx context.Context, identityID, id string, req *dto.UpdateFeedbackRequest) (*dto.FeedbackResponse, error) {
	feedback, err := s.repo.Feedback.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		s.logger.Error("查询反馈失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if err := s.az.Authorize(ctx, identityID, authz.ResourceFeedback, authz.ActionUpdate,
		authz.Row{OwnerIdentityID: feedback.IdentityID}); err != nil {
		if errors.Is(err, authz.ErrDenied) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}

	isOwner := feedback.IdentityID == identityID

	// 标题/内容仅限本人
	if req.Title != nil && isOwner {
		feedback.Title = *req.Title
	}
	if req.Message != nil && isOwner {
		feedback.Message = *req.Message
	}

	// 状态流转仅限管理员
	if req.Status != nil {
		admin, err := s.az.CanReadAllFeedback(ctx, identityID)
		if err != nil {
			return nil, err
		}
		if admin && model.ValidFeedbackStatus(*req.Status) {
			feedback.Status = *req.Status
		}
	}

	if err := s.repo.Feedback.Update(ctx, feedback); err != nil {
		s.logger.Error("更新反馈失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toFeedbackResponse(feedback), nil
}

// ── 内部辅助方法 ──

func toFeedbackResponse(f *model.Feedback) *dto.FeedbackResponse {
	return &dto.FeedbackResponse{
		ID:         f.FeedbackID,
		IdentityID: f.IdentityID,
		Title:      f.Title,
		Message:    f.Message,
		Status:     f.Status,
		CreatedAt:  formatTime(f.CreatedAt),
		UpdatedAt:  formatTime(f.UpdatedAt),
	}
}
