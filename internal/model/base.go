package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 通用审计字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BeforeUpdate 更新前自动刷新修改时间
// 在触发更新的同一事务内执行，只覆盖 updated_at 一列
func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	if tx.Statement != nil && tx.Statement.Dest != nil {
		tx.Statement.SetColumn("updated_at", m.UpdatedAt)
	}
	return nil
}
