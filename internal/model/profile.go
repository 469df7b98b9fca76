package model

// 档案角色枚举
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"
)

// ValidRole 判断角色是否为合法枚举值
func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// Profile 档案表 — 对应 profiles，与身份一对一
type Profile struct {
	ProfileID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"        json:"profile_id"`
	IdentityID string `gorm:"type:uuid;not null;uniqueIndex;index:idx_profiles_identity_id" json:"identity_id"`
	Name       string `gorm:"type:varchar(100);not null"                            json:"name"`
	Email      string `gorm:"type:varchar(255);not null"                            json:"email"`
	Role       string `gorm:"type:varchar(20);not null;default:'student';index:idx_profiles_role" json:"role"` // student | faculty | admin
	Department string `gorm:"type:varchar(100)"                                     json:"department,omitempty"`
	Phone      string `gorm:"type:varchar(20)"                                      json:"phone,omitempty"`
	BaseModel

	// 关联
	Identity *Identity `gorm:"foreignKey:IdentityID;references:IdentityID" json:"-"`
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }
