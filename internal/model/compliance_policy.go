package model

import "shift-guard/internal/shift"

// CompliancePolicy 用餐合规策略 — 对应 compliance_policy（单行强类型）
type CompliancePolicy struct {
	Singleton         bool    `gorm:"primaryKey;default:true" json:"-"`
	MealDeadlineHours float64 `gorm:"not null;default:5"      json:"meal_deadline_hours"`
	WarningMinutes    float64 `gorm:"not null;default:60"     json:"warning_minutes"`
	UrgentMinutes     float64 `gorm:"not null;default:30"     json:"urgent_minutes"`
	CriticalMinutes   float64 `gorm:"not null;default:15"     json:"critical_minutes"`
	BaseModel
}

func (CompliancePolicy) TableName() string { return "compliance_policy" }

// ToShift 转换为核心策略（不校验，读出后由调用方 Validate）
func (p *CompliancePolicy) ToShift() shift.Policy {
	return shift.Policy{
		MealDeadlineHours: p.MealDeadlineHours,
		WarningMinutes:    p.WarningMinutes,
		UrgentMinutes:     p.UrgentMinutes,
		CriticalMinutes:   p.CriticalMinutes,
	}
}

// PolicyFromShift 由核心策略构造单行记录
func PolicyFromShift(p shift.Policy) *CompliancePolicy {
	return &CompliancePolicy{
		Singleton:         true,
		MealDeadlineHours: p.MealDeadlineHours,
		WarningMinutes:    p.WarningMinutes,
		UrgentMinutes:     p.UrgentMinutes,
		CriticalMinutes:   p.CriticalMinutes,
	}
}
