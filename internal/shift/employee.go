package shift

import "time"

// ── 状态枚举 ──

// LunchStatus 午餐子状态机: not_started → pending → on_lunch → returned
type LunchStatus string

const (
	LunchNotStarted LunchStatus = "not_started"
	LunchPending    LunchStatus = "pending"
	LunchOnLunch    LunchStatus = "on_lunch"
	LunchReturned   LunchStatus = "returned"
)

// Taken 午餐已开始或已结束，截止时钟视为已满足
func (s LunchStatus) Taken() bool {
	return s == LunchOnLunch || s == LunchReturned
}

// BreakStatus 小休子状态机: not_started → on_break → returned
type BreakStatus string

const (
	BreakNotStarted BreakStatus = "not_started"
	BreakOnBreak    BreakStatus = "on_break"
	BreakReturned   BreakStatus = "returned"
)

// Status 员工当日总体状态
type Status string

const (
	StatusActive     Status = "active"
	StatusAbsent     Status = "absent"
	StatusOff        Status = "off"
	StatusClockedOut Status = "clocked_out"
)

// CoverageReason 顶岗原因
type CoverageReason string

const (
	ReasonLunch CoverageReason = "lunch"
	ReasonBreak CoverageReason = "break"
)

// RoleType 主岗位类别
type RoleType string

const (
	RoleStandard   RoleType = "standard"
	RoleManagement RoleType = "management"
	RoleSupport    RoleType = "support"
)

// ── 数据模型 ──

// Employee 当日班次中的员工实例。
// 只能通过 State 上的变更操作修改；下班后仍保留在名单中。
type Employee struct {
	ID                  string      `json:"id"`
	EmployeeRecordID    string      `json:"employee_record_id"`
	Name                string      `json:"name"`
	PrimaryRoleID       string      `json:"primary_role_id"`
	CurrentAssignmentID string      `json:"current_assignment_id"` // 覆盖人数按此岗位统计
	ScheduledStart      string      `json:"scheduled_start"`
	ScheduledEnd        string      `json:"scheduled_end"`
	ScheduledLunch      string      `json:"scheduled_lunch,omitempty"`
	ActualStart         string      `json:"actual_start,omitempty"`
	ActualEnd           string      `json:"actual_end,omitempty"`
	LunchStatus         LunchStatus `json:"lunch_status"`
	LunchAssignedAt     *time.Time  `json:"lunch_assigned_at,omitempty"`
	LunchStartedAt      *time.Time  `json:"lunch_started_at,omitempty"`
	LunchEndedAt        *time.Time  `json:"lunch_ended_at,omitempty"`
	BreakStatus         BreakStatus `json:"break_status"`
	BreakStartedAt      *time.Time  `json:"break_started_at,omitempty"`
	BreakEndedAt        *time.Time  `json:"break_ended_at,omitempty"`
	Status              Status      `json:"status"`
}

// QualificationEntry 员工可胜任的岗位
type QualificationEntry struct {
	SubRoleID string `json:"sub_role_id"`
	Notes     string `json:"notes,omitempty"`
}

// EmployeeRecord 花名册档案，独立于任何一天的班次
type EmployeeRecord struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	PrimaryRoleID     string               `json:"primary_role_id"`
	Qualifications    []QualificationEntry `json:"qualifications"`
	HasRegisterAccess bool                 `json:"has_register_access"`
	Active            bool                 `json:"active"`
	Notes             string               `json:"notes,omitempty"`
}

// Position 可排岗的岗位（sub-role），如 Cashier
type Position struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	RequiresRegisterAccess bool   `json:"requires_register_access"`
	MinCoverage            int    `json:"min_coverage"`
	CoverageProtection     bool   `json:"coverage_protection"`
	Notes                  string `json:"notes,omitempty"`
}

// PrimaryRole 主岗位头衔，仅用于展示
type PrimaryRole struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Type RoleType `json:"type"`
}

// CoverageRecord 顶岗记录：EmployeeID 离岗期间由 CoveredByID 顶替
type CoverageRecord struct {
	ID           string         `json:"id"`
	EmployeeID   string         `json:"employee_id"`
	CoveredByID  string         `json:"covered_by_id"`
	OriginalRole string         `json:"original_role"`
	CoverRole    string         `json:"cover_role"`
	Reason       CoverageReason `json:"reason"`
	StartedAt    time.Time      `json:"started_at"`
	EndedAt      *time.Time     `json:"ended_at,omitempty"`
}

// Open 记录尚未结束
func (r CoverageRecord) Open() bool {
	return r.EndedAt == nil
}

// DefaultPositions 门店默认岗位目录
func DefaultPositions() []Position {
	return []Position{
		{ID: "cashier", Name: "Cashier", RequiresRegisterAccess: true, MinCoverage: 2, CoverageProtection: true},
		{ID: "self-checkout", Name: "Self-Checkout", RequiresRegisterAccess: true, MinCoverage: 1, CoverageProtection: true},
		{ID: "service-desk", Name: "Service Desk", RequiresRegisterAccess: true, MinCoverage: 1, CoverageProtection: true},
		{ID: "grocery-door", Name: "Grocery Door"},
		{ID: "pharmacy-door", Name: "Pharmacy Door"},
		{ID: "cart-pusher", Name: "Cart Pusher"},
		{ID: "floor-coverage", Name: "Floor Coverage", MinCoverage: 1, CoverageProtection: true},
	}
}

// DefaultPrimaryRoles 默认主岗位头衔
func DefaultPrimaryRoles() []PrimaryRole {
	return []PrimaryRole{
		{ID: "fe-associate", Name: "Front-End Teaming Associate", Type: RoleStandard},
		{ID: "team-lead", Name: "Team Lead", Type: RoleManagement},
		{ID: "cart-associate", Name: "Cart Associate", Type: RoleSupport},
	}
}
