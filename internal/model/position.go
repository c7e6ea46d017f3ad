package model

import "shift-guard/internal/shift"

// Position 岗位目录 — 对应 positions
type Position struct {
	PositionID             string `gorm:"type:varchar(64);primaryKey"     json:"position_id"`
	Name                   string `gorm:"type:varchar(100);not null"      json:"name"`
	RequiresRegisterAccess bool   `gorm:"not null;default:false"          json:"requires_register_access"`
	MinCoverage            int    `gorm:"not null;default:0"              json:"min_coverage"`
	CoverageProtection     bool   `gorm:"not null;default:false"          json:"coverage_protection"`
	Notes                  string `gorm:"type:varchar(500)"               json:"notes,omitempty"`
	SortOrder              int    `gorm:"not null;default:0"              json:"sort_order"`
	BaseModel
}

// TableName 指定表名
func (Position) TableName() string { return "positions" }

// ToShift 转换为核心类型
func (p *Position) ToShift() shift.Position {
	return shift.Position{
		ID:                     p.PositionID,
		Name:                   p.Name,
		RequiresRegisterAccess: p.RequiresRegisterAccess,
		MinCoverage:            p.MinCoverage,
		CoverageProtection:     p.CoverageProtection,
		Notes:                  p.Notes,
	}
}

// PositionFromShift 由核心类型构造
func PositionFromShift(p shift.Position, sortOrder int) *Position {
	return &Position{
		PositionID:             p.ID,
		Name:                   p.Name,
		RequiresRegisterAccess: p.RequiresRegisterAccess,
		MinCoverage:            p.MinCoverage,
		CoverageProtection:     p.CoverageProtection,
		Notes:                  p.Notes,
		SortOrder:              sortOrder,
	}
}

// PositionsToShift 批量转换
func PositionsToShift(list []Position) []shift.Position {
	out := make([]shift.Position, len(list))
	for i := range list {
		out[i] = list[i].ToShift()
	}
	return out
}
