package model

import "shift-guard/internal/shift"

// PrimaryRole 主岗位头衔 — 对应 primary_roles（仅展示）
type PrimaryRole struct {
	RoleID    string `gorm:"type:varchar(64);primaryKey"               json:"role_id"`
	Name      string `gorm:"type:varchar(100);not null"                json:"name"`
	Type      string `gorm:"type:varchar(20);not null;default:'standard'" json:"type"` // standard | management | support
	SortOrder int    `gorm:"not null;default:0"                        json:"sort_order"`
	BaseModel
}

func (PrimaryRole) TableName() string { return "primary_roles" }

// ToShift 转换为核心类型
func (r *PrimaryRole) ToShift() shift.PrimaryRole {
	return shift.PrimaryRole{ID: r.RoleID, Name: r.Name, Type: shift.RoleType(r.Type)}
}
