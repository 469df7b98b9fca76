package repository

import (
	"context"

	"gorm.io/gorm"

	"smart-class-flow/backend/internal/model"
)

// FeedbackRepository 反馈数据访问接口
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) error
	GetByID(ctx context.Context, id string) (*model.Feedback, error)
	// ListByIdentity 仅返回指定身份的反馈（策略层的 owner 过滤）
	ListByIdentity(ctx context.Context, identityID string, offset, limit int) ([]model.Feedback, int64, error)
	// ListAll 返回全量反馈（管理员视角）
	ListAll(ctx context.Context, offset, limit int) ([]model.Feedback, int64, error)
	Update(ctx context.Context, feedback *model.Feedback) error
}

// feedbackRepo FeedbackRepository 的 GORM 实现
type feedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo 创建 FeedbackRepository 实例
func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepo) GetByID(ctx context.Context, id string) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.db.WithContext(ctx).
		Where("feedback_id = ?", id).
		First(&feedback).Error
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}

func (r *feedbackRepo) ListByIdentity(ctx context.Context, identityID string, offset, limit int) ([]model.Feedback, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.Feedback{}).Where("identity_id = ?", identityID), offset, limit)
}

func (r *feedbackRepo) ListAll(ctx context.Context, offset, limit int) ([]model.Feedback, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.Feedback{}), offset, limit)
}

func (r *feedbackRepo) list(_ context.Context, db *gorm.DB, offset, limit int) ([]model.Feedback, int64, error) {
	var items []model.Feedback
	var total int64

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *feedbackRepo) Update(ctx context.Context, feedback *model.Feedback) error {
	return r.db.WithContext(ctx).Save(feedback).Error
}
