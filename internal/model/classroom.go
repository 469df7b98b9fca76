package model

import "github.com/lib/pq"

// Classroom 教室表 — 对应 classrooms
type Classroom struct {
	ClassroomID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	Name        string         `gorm:"type:varchar(100);not null;uniqueIndex"         json:"name"`
	Capacity    int            `gorm:"not null;check:capacity > 0"                    json:"capacity"`
	Equipment   pq.StringArray `gorm:"type:text[];not null;default:'{}'"              json:"equipment"`
	Location    string         `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	IsAvailable bool           `gorm:"not null;default:true"                          json:"is_available"`
	Remarks     string         `gorm:"type:text"                                      json:"remarks,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Classroom) TableName() string { return "classrooms" }
