package dto

// ── 花名册模块 DTO ──

// QualificationItem 可胜任岗位，数组顺序即优先顺序
type QualificationItem struct {
	PositionID string `json:"position_id" binding:"required,max=64"`
	Notes      string `json:"notes"       binding:"omitempty,max=200"`
}

// CreateEmployeeRecordRequest 新建档案请求
type CreateEmployeeRecordRequest struct {
	Name              string              `json:"name"                binding:"required,min=1,max=100"`
	PrimaryRoleID     string              `json:"primary_role_id"     binding:"omitempty,max=64"`
	Qualifications    []QualificationItem `json:"qualifications"      binding:"omitempty,dive"`
	HasRegisterAccess bool                `json:"has_register_access"`
	Notes             string              `json:"notes"               binding:"omitempty,max=500"`
}

// UpdateEmployeeRecordRequest 更新档案请求（乐观锁，需带当前 version）
type UpdateEmployeeRecordRequest struct {
	Version           int                  `json:"version"             binding:"required,min=1"`
	Name              *string              `json:"name"                binding:"omitempty,min=1,max=100"`
	PrimaryRoleID     *string              `json:"primary_role_id"     binding:"omitempty,max=64"`
	Qualifications    *[]QualificationItem `json:"qualifications"      binding:"omitempty,dive"`
	HasRegisterAccess *bool                `json:"has_register_access"`
	IsActive          *bool                `json:"is_active"`
	Notes             *string              `json:"notes"               binding:"omitempty,max=500"`
}

// EmployeeRecordListRequest 档案列表查询参数
type EmployeeRecordListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// EmployeeRecordResponse 档案信息响应
type EmployeeRecordResponse struct {
	ID                string              `json:"id"`
	Name              string              `json:"name"`
	PrimaryRoleID     string              `json:"primary_role_id,omitempty"`
	Qualifications    []QualificationItem `json:"qualifications"`
	HasRegisterAccess bool                `json:"has_register_access"`
	IsActive          bool                `json:"is_active"`
	Notes             string              `json:"notes,omitempty"`
	Version           int                 `json:"version"`
	CreatedAt         string              `json:"created_at"`
	UpdatedAt         string              `json:"updated_at"`
}
