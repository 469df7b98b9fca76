package repository

import (
	"context"

	"gorm.io/gorm"

	"smart-class-flow/backend/internal/model"
)

// ClassroomRepository 教室数据访问接口
type ClassroomRepository interface {
	Create(ctx context.Context, classroom *model.Classroom) error
	GetByID(ctx context.Context, id string) (*model.Classroom, error)
	List(ctx context.Context, includeUnavailable bool) ([]model.Classroom, error)
	Update(ctx context.Context, classroom *model.Classroom) error
	Delete(ctx context.Context, id string) error
}

// classroomRepo ClassroomRepository 的 GORM 实现
type classroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo 创建 ClassroomRepository 实例
func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) Create(ctx context.Context, classroom *model.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *classroomRepo) GetByID(ctx context.Context, id string) (*model.Classroom, error) {
	var classroom model.Classroom
	err := r.db.WithContext(ctx).
		Where("classroom_id = ?", id).
		First(&classroom).Error
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

func (r *classroomRepo) List(ctx context.Context, includeUnavailable bool) ([]model.Classroom, error) {
	var classrooms []model.Classroom
	db := r.db.WithContext(ctx)

	if !includeUnavailable {
		db = db.Where("is_available = ?", true)
	}

	err := db.Order("name ASC").Find(&classrooms).Error
	return classrooms, err
}

func (r *classroomRepo) Update(ctx context.Context, classroom *model.Classroom) error {
	return r.db.WithContext(ctx).Save(classroom).Error
}

func (r *classroomRepo) Delete(ctx context.Context, id string) error {
	// 硬删除：timetable_entries 对教室的外键级联删除由数据库保证
	return r.db.WithContext(ctx).
		Where("classroom_id = ?", id).
		Delete(&model.Classroom{}).Error
}
