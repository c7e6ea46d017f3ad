package model

import "shift-guard/internal/shift"

// EmployeeRecord 花名册档案 — 对应 employee_records
type EmployeeRecord struct {
	RecordID          string `gorm:"type:varchar(64);primaryKey" json:"record_id"`
	Name              string `gorm:"type:varchar(100);not null"  json:"name"`
	PrimaryRoleID     string `gorm:"type:varchar(64)"            json:"primary_role_id"`
	HasRegisterAccess bool   `gorm:"not null;default:false"      json:"has_register_access"`
	IsActive          bool   `gorm:"not null;default:true"       json:"is_active"`
	Notes             string `gorm:"type:varchar(500)"           json:"notes,omitempty"`
	Version           int    `gorm:"not null;default:1"          json:"version"`
	SoftDeleteModel

	// 关联
	Qualifications []EmployeeQualification `gorm:"foreignKey:RecordID;references:RecordID" json:"qualifications,omitempty"`
}

func (EmployeeRecord) TableName() string { return "employee_records" }

// EmployeeQualification 档案可胜任岗位 — 对应 employee_qualifications
type EmployeeQualification struct {
	RecordID   string `gorm:"type:varchar(64);primaryKey" json:"record_id"`
	PositionID string `gorm:"type:varchar(64);primaryKey" json:"position_id"`
	SortOrder  int    `gorm:"not null;default:0"          json:"sort_order"` // 导入时取第一个可胜任岗位
	Notes      string `gorm:"type:varchar(200)"           json:"notes,omitempty"`
}

func (EmployeeQualification) TableName() string { return "employee_qualifications" }

// QualificationsFromShift 由核心资格列表构造，SortOrder 取下标
func QualificationsFromShift(recordID string, entries []shift.QualificationEntry) []EmployeeQualification {
	out := make([]EmployeeQualification, len(entries))
	for i, q := range entries {
		out[i] = EmployeeQualification{RecordID: recordID, PositionID: q.SubRoleID, SortOrder: i, Notes: q.Notes}
	}
	return out
}

// ToShift 转换为核心类型，资格顺序保持存储顺序
func (r *EmployeeRecord) ToShift() shift.EmployeeRecord {
	quals := make([]shift.QualificationEntry, len(r.Qualifications))
	for i, q := range r.Qualifications {
		quals[i] = shift.QualificationEntry{SubRoleID: q.PositionID, Notes: q.Notes}
	}
	return shift.EmployeeRecord{
		ID:                r.RecordID,
		Name:              r.Name,
		PrimaryRoleID:     r.PrimaryRoleID,
		Qualifications:    quals,
		HasRegisterAccess: r.HasRegisterAccess,
		Active:            r.IsActive,
		Notes:             r.Notes,
	}
}

// RecordsToShift 批量转换
func RecordsToShift(list []EmployeeRecord) []shift.EmployeeRecord {
	out := make([]shift.EmployeeRecord, len(list))
	for i := range list {
		out[i] = list[i].ToShift()
	}
	return out
}
