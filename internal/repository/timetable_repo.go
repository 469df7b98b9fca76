package repository

import (
	"context"

	"gorm.io/gorm"

	"smart-class-flow/backend/internal/model"
)

// TimetableFilter 课程安排查询条件
type TimetableFilter struct {
	DayOfWeek string // 为空表示不过滤
	FacultyID string
	Limit     int // <=0 表示不限
}

// TimetableRepository 课程安排数据访问接口
type TimetableRepository interface {
	Create(ctx context.Context, entry *model.TimetableEntry) error
	GetByID(ctx context.Context, id string) (*model.TimetableEntry, error)
	// List 预加载课程/教师/教室关联，按星期+开始时间排序
	List(ctx context.Context, filter TimetableFilter) ([]model.TimetableEntry, error)
	Update(ctx context.Context, entry *model.TimetableEntry) error
	Delete(ctx context.Context, id string) error
}

// weekdayOrderExpr 按周一到周日的自然顺序排序
const weekdayOrderExpr = "array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day_of_week)"

// timetableRepo TimetableRepository 的 GORM 实现
type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Create(ctx context.Context, entry *model.TimetableEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *timetableRepo) GetByID(ctx context.Context, id string) (*model.TimetableEntry, error) {
	var entry model.TimetableEntry
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Faculty").
		Preload("Classroom").
		Where("entry_id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timetableRepo) List(ctx context.Context, filter TimetableFilter) ([]model.TimetableEntry, error) {
	var entries []model.TimetableEntry

	db := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Faculty").
		Preload("Classroom")

	if filter.DayOfWeek != "" {
		db = db.Where("day_of_week = ?", filter.DayOfWeek)
	}
	if filter.FacultyID != "" {
		db = db.Where("faculty_id = ?", filter.FacultyID)
	}
	if filter.Limit > 0 {
		db = db.Limit(filter.Limit)
	}

	// day_of_week 存的是英文星期名，按字母序会把 Friday 排到 Monday 前面，
	// 用 array_position 映射成周内序号再排
	err := db.Order(weekdayOrderExpr + ", start_time ASC").Find(&entries).Error
	return entries, err
}

func (r *timetableRepo) Update(ctx context.Context, entry *model.TimetableEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *timetableRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("entry_id = ?", id).
		Delete(&model.TimetableEntry{}).Error
}
