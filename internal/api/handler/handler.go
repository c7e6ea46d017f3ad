package handler

import "shift-guard/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Position    *PositionHandler
	PrimaryRole *PrimaryRoleHandler
	Employee    *EmployeeRecordHandler
	Policy      *PolicyHandler
	Shift       *ShiftHandler
	Import      *ImportHandler
	Export      *ExportHandler
	Health      *HealthHandler
}

// NewHandler 创建 Handler 聚合；checks 为健康检查依赖项（名称 → 探测函数）
func NewHandler(svc *service.Service, checks map[string]HealthCheck) *Handler {
	return &Handler{
		Position:    NewPositionHandler(svc.Position),
		PrimaryRole: NewPrimaryRoleHandler(svc.PrimaryRole),
		Employee:    NewEmployeeRecordHandler(svc.EmployeeRecord),
		Policy:      NewPolicyHandler(svc.Policy),
		Shift:       NewShiftHandler(svc.Shift),
		Import:      NewImportHandler(svc.Import),
		Export:      NewExportHandler(svc.Export),
		Health:      NewHealthHandler(checks),
	}
}
