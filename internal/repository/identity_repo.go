package repository

import (
	"context"

	"gorm.io/gorm"

	"smart-class-flow/backend/internal/model"
)

// IdentityRepository 身份数据访问接口
type IdentityRepository interface {
	// Create 创建身份；档案由模型钩子在同一事务内生成
	Create(ctx context.Context, identity *model.Identity) error
	GetByID(ctx context.Context, id string) (*model.Identity, error)
	GetByEmail(ctx context.Context, email string) (*model.Identity, error)
}

// identityRepo IdentityRepository 的 GORM 实现
type identityRepo struct {
	db *gorm.DB
}

// NewIdentityRepo 创建 IdentityRepository 实例
func NewIdentityRepo(db *gorm.DB) IdentityRepository {
	return &identityRepo{db: db}
}

func (r *identityRepo) Create(ctx context.Context, identity *model.Identity) error {
	return r.db.WithContext(ctx).Create(identity).Error
}

func (r *identityRepo) GetByID(ctx context.Context, id string) (*model.Identity, error) {
	var identity model.Identity
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("identity_id = ?", id).
		First(&identity).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

func (r *identityRepo) GetByEmail(ctx context.Context, email string) (*model.Identity, error) {
	var identity model.Identity
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&identity).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}
