package model

// 星期枚举（Monday..Sunday）
var DaysOfWeek = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// ValidDayOfWeek 判断星期是否为合法枚举值
func ValidDayOfWeek(day string) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// TimetableEntry 课程安排表 — 对应 timetable_entries
// 被引用的课程/教师/教室删除时级联删除本条安排
type TimetableEntry struct {
	EntryID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"   json:"entry_id"`
	CourseID     string `gorm:"type:uuid;not null;index:idx_timetable_entries_course_id"    json:"course_id"`
	FacultyID    string `gorm:"type:uuid;not null;index:idx_timetable_entries_faculty_id"   json:"faculty_id"`
	ClassroomID  string `gorm:"type:uuid;not null;index:idx_timetable_entries_classroom_id" json:"classroom_id"`
	DayOfWeek    string `gorm:"type:varchar(10);not null"                        json:"day_of_week"` // Monday..Sunday
	StartTime    string `gorm:"type:time;not null"                               json:"start_time"`  // HH:MM
	EndTime      string `gorm:"type:time;not null"                               json:"end_time"`    // HH:MM，必须晚于 StartTime
	Semester     string `gorm:"type:varchar(50)"                                 json:"semester,omitempty"`
	AcademicYear string `gorm:"type:varchar(20)"                                 json:"academic_year,omitempty"`
	BaseModel

	// 关联
	Course    *Course    `gorm:"foreignKey:CourseID;references:CourseID"          json:"course,omitempty"`
	Faculty   *Profile   `gorm:"foreignKey:FacultyID;references:ProfileID"        json:"faculty,omitempty"`
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID"    json:"classroom,omitempty"`
}

// TableName 指定表名
func (TimetableEntry) TableName() string { return "timetable_entries" }
