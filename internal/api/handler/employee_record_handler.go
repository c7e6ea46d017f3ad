package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift-guard/internal/dto"
	"shift-guard/internal/service"
	"shift-guard/pkg/response"
)

// EmployeeRecordHandler 花名册 HTTP 处理器
type EmployeeRecordHandler struct {
	recordSvc service.EmployeeRecordService
}

// NewEmployeeRecordHandler 创建 EmployeeRecordHandler
func NewEmployeeRecordHandler(recordSvc service.EmployeeRecordService) *EmployeeRecordHandler {
	return &EmployeeRecordHandler{recordSvc: recordSvc}
}

// ListEmployees 获取花名册
// GET /api/v1/employees?include_inactive=true
func (h *EmployeeRecordHandler) ListEmployees(c *gin.Context) {
	var req dto.EmployeeRecordListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.recordSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetEmployee 获取档案详情
// GET /api/v1/employees/:id
func (h *EmployeeRecordHandler) GetEmployee(c *gin.Context) {
	rec, err := h.recordSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleEmployeeRecordError(c, err)
		return
	}

	response.OK(c, rec)
}

// CreateEmployee 新建档案
// POST /api/v1/employees
func (h *EmployeeRecordHandler) CreateEmployee(c *gin.Context) {
	var req dto.CreateEmployeeRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rec, err := h.recordSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleEmployeeRecordError(c, err)
		return
	}

	response.Created(c, rec)
}

// UpdateEmployee 更新档案（需带 version）
// PUT /api/v1/employees/:id
func (h *EmployeeRecordHandler) UpdateEmployee(c *gin.Context) {
	var req dto.UpdateEmployeeRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rec, err := h.recordSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleEmployeeRecordError(c, err)
		return
	}

	response.OK(c, rec)
}

// DeleteEmployee 删除档案
// DELETE /api/v1/employees/:id
func (h *EmployeeRecordHandler) DeleteEmployee(c *gin.Context) {
	if err := h.recordSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleEmployeeRecordError(c, err)
		return
	}

	response.OK(c, nil)
}

// QualifiedPositions 档案可排岗位
// GET /api/v1/employees/:id/positions
func (h *EmployeeRecordHandler) QualifiedPositions(c *gin.Context) {
	list, err := h.recordSvc.QualifiedPositions(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleEmployeeRecordError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// handleEmployeeRecordError 统一处理花名册模块业务错误
func handleEmployeeRecordError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeRecordNotFound):
		response.NotFound(c, 22001, "员工档案不存在")
	case errors.Is(err, service.ErrEmployeeRecordConflict):
		response.Conflict(c, 22002, "员工档案已被修改，请刷新后重试")
	case errors.Is(err, service.ErrUnknownQualification):
		response.ErrorWithDetails(c, http.StatusBadRequest, 22003, "资格引用了不存在的岗位", err.Error())
	default:
		response.InternalError(c)
	}
}
