package dto

// ── 岗位模块 DTO ──

// CreatePositionRequest 创建岗位请求
type CreatePositionRequest struct {
	ID                     string `json:"id"                       binding:"required,min=2,max=64"`
	Name                   string `json:"name"                     binding:"required,min=1,max=100"`
	RequiresRegisterAccess bool   `json:"requires_register_access"`
	MinCoverage            int    `json:"min_coverage"             binding:"min=0,max=50"`
	CoverageProtection     bool   `json:"coverage_protection"`
	Notes                  string `json:"notes"                    binding:"omitempty,max=500"`
}

// UpdatePositionRequest 更新岗位请求
type UpdatePositionRequest struct {
	Name                   *string `json:"name"                     binding:"omitempty,min=1,max=100"`
	RequiresRegisterAccess *bool   `json:"requires_register_access"`
	MinCoverage            *int    `json:"min_coverage"             binding:"omitempty,min=0,max=50"`
	CoverageProtection     *bool   `json:"coverage_protection"`
	Notes                  *string `json:"notes"                    binding:"omitempty,max=500"`
	SortOrder              *int    `json:"sort_order"               binding:"omitempty,min=0"`
}

// PositionResponse 岗位信息响应
type PositionResponse struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	RequiresRegisterAccess bool   `json:"requires_register_access"`
	MinCoverage            int    `json:"min_coverage"`
	CoverageProtection     bool   `json:"coverage_protection"`
	Notes                  string `json:"notes,omitempty"`
	SortOrder              int    `json:"sort_order"`
}

// PrimaryRoleResponse 主岗位头衔
type PrimaryRoleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}
