package model

import (
	"time"

	"shift-guard/internal/shift"
)

// CoverageRecord 顶岗记录 — 对应 coverage_records（含已结束记录，作为当日审计）
type CoverageRecord struct {
	CoverageID   string     `gorm:"type:varchar(64);primaryKey"     json:"coverage_id"`
	ShiftDate    string     `gorm:"type:varchar(10);not null;index" json:"shift_date"`
	SortOrder    int        `gorm:"not null;default:0"              json:"sort_order"`
	EmployeeID   string     `gorm:"type:varchar(64);not null"       json:"employee_id"`
	CoveredByID  string     `gorm:"type:varchar(64);not null"       json:"covered_by_id"`
	OriginalRole string     `gorm:"type:varchar(64)"                json:"original_role"`
	CoverRole    string     `gorm:"type:varchar(64)"                json:"cover_role"`
	Reason       string     `gorm:"type:varchar(10);not null"       json:"reason"` // lunch | break
	StartedAt    time.Time  `gorm:"not null"                        json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	BaseModel
}

func (CoverageRecord) TableName() string { return "coverage_records" }

// ToShift 转换为核心类型
func (r *CoverageRecord) ToShift() shift.CoverageRecord {
	return shift.CoverageRecord{
		ID:           r.CoverageID,
		EmployeeID:   r.EmployeeID,
		CoveredByID:  r.CoveredByID,
		OriginalRole: r.OriginalRole,
		CoverRole:    r.CoverRole,
		Reason:       shift.CoverageReason(r.Reason),
		StartedAt:    r.StartedAt,
		EndedAt:      r.EndedAt,
	}
}

// CoverageFromShift 由核心记录构造当日顶岗记录
func CoverageFromShift(date string, recs []shift.CoverageRecord) []CoverageRecord {
	out := make([]CoverageRecord, len(recs))
	for i, r := range recs {
		out[i] = CoverageRecord{
			CoverageID:   r.ID,
			ShiftDate:    date,
			SortOrder:    i,
			EmployeeID:   r.EmployeeID,
			CoveredByID:  r.CoveredByID,
			OriginalRole: r.OriginalRole,
			CoverRole:    r.CoverRole,
			Reason:       string(r.Reason),
			StartedAt:    r.StartedAt,
			EndedAt:      r.EndedAt,
		}
	}
	return out
}

// CoverageToShift 批量转换
func CoverageToShift(list []CoverageRecord) []shift.CoverageRecord {
	out := make([]shift.CoverageRecord, len(list))
	for i := range list {
		out[i] = list[i].ToShift()
	}
	return out
}
