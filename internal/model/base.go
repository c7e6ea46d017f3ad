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

// SoftDeleteModel 支持软删除的审计字段
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// All 全部持久化模型，供 AutoMigrate 使用（postgres 走 SQL 迁移）
func All() []interface{} {
	return []interface{}{
		&Position{},
		&PrimaryRole{},
		&EmployeeRecord{},
		&EmployeeQualification{},
		&ShiftEmployee{},
		&CoverageRecord{},
		&CompliancePolicy{},
	}
}
