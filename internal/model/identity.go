package model

import (
	"time"

	"gorm.io/gorm"
)

// Identity 身份表 — 对应 identities（认证主体）
type Identity struct {
	IdentityID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"identity_id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"                     json:"-"`
	MetaName     *string   `gorm:"type:varchar(100)"                              json:"meta_name,omitempty"` // 注册时填写的显示名
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Profile *Profile `gorm:"foreignKey:IdentityID;references:IdentityID" json:"profile,omitempty"`
}

// TableName 指定表名
func (Identity) TableName() string { return "identities" }

// AfterCreate 身份创建后在同一事务内自动生成档案
//
// 档案名优先取注册时的显示名，缺省回退为邮箱；角色默认 student。
// 直接通过 tx 写入，绕过服务层的策略校验——此时该身份还没有档案，
// 策略层无法为其放行自身档案的插入。
func (i *Identity) AfterCreate(tx *gorm.DB) error {
	name := i.Email
	if i.MetaName != nil && *i.MetaName != "" {
		name = *i.MetaName
	}

	profile := &Profile{
		IdentityID: i.IdentityID,
		Name:       name,
		Email:      i.Email,
		Role:       RoleStudent,
	}

	return tx.Create(profile).Error
}
