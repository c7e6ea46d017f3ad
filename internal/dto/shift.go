package dto

import "shift-guard/internal/shift"

// ── 当日班次 DTO ──

// AddShiftEmployeeRequest 加入当日班次。
// 传 employee_record_id 时姓名、主岗位、默认岗位取自档案。
type AddShiftEmployeeRequest struct {
	EmployeeRecordID    string `json:"employee_record_id"    binding:"omitempty,max=64"`
	Name                string `json:"name"                  binding:"omitempty,max=100"`
	PrimaryRoleID       string `json:"primary_role_id"       binding:"omitempty,max=64"`
	CurrentAssignmentID string `json:"current_assignment_id" binding:"omitempty,max=64"`
	ScheduledStart      string `json:"scheduled_start"       binding:"required"`
	ScheduledEnd        string `json:"scheduled_end"         binding:"required"`
	ScheduledLunch      string `json:"scheduled_lunch"`
	ActualStart         string `json:"actual_start"`
}

// StartAwayRequest 开始午餐/小休，at 为 HH:mm，缺省为当前时间
type StartAwayRequest struct {
	At          string `json:"at"`
	CoveredByID string `json:"covered_by_id" binding:"omitempty,max=64"`
	CoverRole   string `json:"cover_role"    binding:"omitempty,max=64"`
}

// EndAwayRequest 结束午餐/小休
type EndAwayRequest struct {
	At string `json:"at"`
}

// ChangeAssignmentRequest 调岗请求
type ChangeAssignmentRequest struct {
	PositionID string `json:"position_id" binding:"required,max=64"`
}

// CorrectTimesRequest 手工更正时间，均为 HH:mm，未传字段不变
type CorrectTimesRequest struct {
	ActualStart    *string `json:"actual_start"`
	ActualEnd      *string `json:"actual_end"`
	LunchStartedAt *string `json:"lunch_started_at"`
	LunchEndedAt   *string `json:"lunch_ended_at"`
	BreakStartedAt *string `json:"break_started_at"`
	BreakEndedAt   *string `json:"break_ended_at"`
}

// CoverageCheckRequest 覆盖检查查询参数
type CoverageCheckRequest struct {
	Mode string `form:"mode" binding:"omitempty,oneof=lunch cover"`
}

// ComplianceResponse 合规状态。minutes_to_deadline 为 null 表示无截止时间。
type ComplianceResponse struct {
	Level             string   `json:"level"`
	Label             string   `json:"label"`
	HoursWorked       float64  `json:"hours_worked"`
	MinutesToDeadline *float64 `json:"minutes_to_deadline"`
	Remaining         string   `json:"remaining"`
	Deadline          string   `json:"deadline,omitempty"`
}

// CoverageRef 顶岗关系摘要
type CoverageRef struct {
	CoverageID string `json:"coverage_id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Reason     string `json:"reason"`
	Since      string `json:"since"`
}

// ShiftEmployeeResponse 当班员工 + 合规状态
type ShiftEmployeeResponse struct {
	shift.Employee
	AssignmentName string             `json:"assignment_name,omitempty"`
	Compliance     ComplianceResponse `json:"compliance"`
	CoveredBy      *CoverageRef       `json:"covered_by,omitempty"`
	Covering       *CoverageRef       `json:"covering,omitempty"`
}

// PositionCoverageResponse 岗位在岗人数
type PositionCoverageResponse struct {
	PositionID         string `json:"position_id"`
	Name               string `json:"name"`
	ActiveCount        int    `json:"active_count"`
	MinCoverage        int    `json:"min_coverage"`
	CoverageProtection bool   `json:"coverage_protection"`
	BelowMinimum       bool   `json:"below_minimum"`
}

// UndoEntryResponse 撤销记录
type UndoEntryResponse struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Label      string `json:"label"`
	EmployeeID string `json:"employee_id"`
	CreatedAt  string `json:"created_at"`
}

// BoardResponse 合规看板：在岗组按合规优先级排序，离场组保持名单顺序
type BoardResponse struct {
	Date       string                     `json:"date"`
	Now        string                     `json:"now"`
	TimeFormat string                     `json:"time_format"`
	OnFloor    []ShiftEmployeeResponse    `json:"on_floor"`
	Inactive   []ShiftEmployeeResponse    `json:"inactive"`
	Coverage   []PositionCoverageResponse `json:"coverage"`
	UndoHead   *UndoEntryResponse         `json:"undo_head,omitempty"`
}

// CoverageCheckResponse 覆盖检查结果（仅提示）
type CoverageCheckResponse struct {
	EmployeeID string   `json:"employee_id"`
	Mode       string   `json:"mode"`
	Safe       bool     `json:"safe"`
	Warnings   []string `json:"warnings"`
}

// CoverCandidateResponse 可顶岗候选人，warnings 为其离开本岗位的覆盖提示
type CoverCandidateResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	CurrentAssignmentID string   `json:"current_assignment_id"`
	Safe                bool     `json:"safe"`
	Warnings            []string `json:"warnings"`
}

// MutationResponse 变更结果。warnings 为覆盖人数提示，不影响操作生效。
type MutationResponse struct {
	Employee *ShiftEmployeeResponse `json:"employee,omitempty"`
	Coverage *shift.CoverageRecord  `json:"coverage,omitempty"`
	Warnings []string               `json:"warnings,omitempty"`
	UndoHead *UndoEntryResponse     `json:"undo_head,omitempty"`
}
