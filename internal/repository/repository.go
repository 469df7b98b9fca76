package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Identity  IdentityRepository
	Profile   ProfileRepository
	Classroom ClassroomRepository
	Course    CourseRepository
	Timetable TimetableRepository
	Feedback  FeedbackRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Identity:  NewIdentityRepo(db),
		Profile:   NewProfileRepo(db),
		Classroom: NewClassroomRepo(db),
		Course:    NewCourseRepo(db),
		Timetable: NewTimetableRepo(db),
		Feedback:  NewFeedbackRepo(db),
	}
}
