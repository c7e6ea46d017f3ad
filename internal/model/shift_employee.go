package model

import (
	"time"

	"shift-guard/internal/shift"
)

// ShiftEmployee 当日班次员工 — 对应 shift_employees
//
// 每个营业日一组记录，ShiftDate 为门店本地日期 YYYY-MM-DD；
// SortOrder 保存名单顺序（撤销删除时需要恢复原位置）。
type ShiftEmployee struct {
	ShiftEmployeeID     string     `gorm:"type:varchar(64);primaryKey"                   json:"shift_employee_id"`
	ShiftDate           string     `gorm:"type:varchar(10);not null;index"               json:"shift_date"`
	SortOrder           int        `gorm:"not null;default:0"                            json:"sort_order"`
	EmployeeRecordID    string     `gorm:"type:varchar(64);index"                        json:"employee_record_id"`
	Name                string     `gorm:"type:varchar(100);not null"                    json:"name"`
	PrimaryRoleID       string     `gorm:"type:varchar(64)"                              json:"primary_role_id"`
	CurrentAssignmentID string     `gorm:"type:varchar(64)"                              json:"current_assignment_id"`
	ScheduledStart      string     `gorm:"type:varchar(5);not null"                      json:"scheduled_start"`
	ScheduledEnd        string     `gorm:"type:varchar(5);not null"                      json:"scheduled_end"`
	ScheduledLunch      string     `gorm:"type:varchar(5)"                               json:"scheduled_lunch,omitempty"`
	ActualStart         string     `gorm:"type:varchar(5)"                               json:"actual_start,omitempty"`
	ActualEnd           string     `gorm:"type:varchar(5)"                               json:"actual_end,omitempty"`
	LunchStatus         string     `gorm:"type:varchar(20);not null;default:'not_started'" json:"lunch_status"`
	LunchAssignedAt     *time.Time `json:"lunch_assigned_at,omitempty"`
	LunchStartedAt      *time.Time `json:"lunch_started_at,omitempty"`
	LunchEndedAt        *time.Time `json:"lunch_ended_at,omitempty"`
	BreakStatus         string     `gorm:"type:varchar(20);not null;default:'not_started'" json:"break_status"`
	BreakStartedAt      *time.Time `json:"break_started_at,omitempty"`
	BreakEndedAt        *time.Time `json:"break_ended_at,omitempty"`
	Status              string     `gorm:"type:varchar(20);not null;default:'active'"    json:"status"` // active | absent | off | clocked_out
	BaseModel
}

func (ShiftEmployee) TableName() string { return "shift_employees" }

// ToShift 转换为核心类型
func (e *ShiftEmployee) ToShift() shift.Employee {
	return shift.Employee{
		ID:                  e.ShiftEmployeeID,
		EmployeeRecordID:    e.EmployeeRecordID,
		Name:                e.Name,
		PrimaryRoleID:       e.PrimaryRoleID,
		CurrentAssignmentID: e.CurrentAssignmentID,
		ScheduledStart:      e.ScheduledStart,
		ScheduledEnd:        e.ScheduledEnd,
		ScheduledLunch:      e.ScheduledLunch,
		ActualStart:         e.ActualStart,
		ActualEnd:           e.ActualEnd,
		LunchStatus:         shift.LunchStatus(e.LunchStatus),
		LunchAssignedAt:     e.LunchAssignedAt,
		LunchStartedAt:      e.LunchStartedAt,
		LunchEndedAt:        e.LunchEndedAt,
		BreakStatus:         shift.BreakStatus(e.BreakStatus),
		BreakStartedAt:      e.BreakStartedAt,
		BreakEndedAt:        e.BreakEndedAt,
		Status:              shift.Status(e.Status),
	}
}

// ShiftEmployeesFromShift 由核心名单构造当日记录，SortOrder 取名单下标
func ShiftEmployeesFromShift(date string, emps []shift.Employee) []ShiftEmployee {
	out := make([]ShiftEmployee, len(emps))
	for i, e := range emps {
		out[i] = ShiftEmployee{
			ShiftEmployeeID:     e.ID,
			ShiftDate:           date,
			SortOrder:           i,
			EmployeeRecordID:    e.EmployeeRecordID,
			Name:                e.Name,
			PrimaryRoleID:       e.PrimaryRoleID,
			CurrentAssignmentID: e.CurrentAssignmentID,
			ScheduledStart:      e.ScheduledStart,
			ScheduledEnd:        e.ScheduledEnd,
			ScheduledLunch:      e.ScheduledLunch,
			ActualStart:         e.ActualStart,
			ActualEnd:           e.ActualEnd,
			LunchStatus:         string(e.LunchStatus),
			LunchAssignedAt:     e.LunchAssignedAt,
			LunchStartedAt:      e.LunchStartedAt,
			LunchEndedAt:        e.LunchEndedAt,
			BreakStatus:         string(e.BreakStatus),
			BreakStartedAt:      e.BreakStartedAt,
			BreakEndedAt:        e.BreakEndedAt,
			Status:              string(e.Status),
		}
	}
	return out
}

// ShiftEmployeesToShift 批量转换，调用方需按 SortOrder 排好序
func ShiftEmployeesToShift(list []ShiftEmployee) []shift.Employee {
	out := make([]shift.Employee, len(list))
	for i := range list {
		out[i] = list[i].ToShift()
	}
	return out
}
