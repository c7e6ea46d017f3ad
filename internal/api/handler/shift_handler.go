package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift-guard/internal/dto"
	"shift-guard/internal/service"
	"shift-guard/internal/shift"
	"shift-guard/pkg/response"
)

// ShiftHandler 当日班次 HTTP 处理器
//
// 路由中的 :date 为 YYYY-MM-DD 或 today；:id 为当班员工 ID。
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// ═══════════════════════════════════════════════════════════
// 查询
// ═══════════════════════════════════════════════════════════

// Board 合规看板：在场组按合规紧急度排序，离场组单列
// GET /api/v1/shifts/:date/board
func (h *ShiftHandler) Board(c *gin.Context) {
	board, err := h.shiftSvc.Board(c.Request.Context(), c.Param("date"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, board)
}

// Queue 午餐派发队列
// GET /api/v1/shifts/:date/queue
func (h *ShiftHandler) Queue(c *gin.Context) {
	list, err := h.shiftSvc.Queue(c.Request.Context(), c.Param("date"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// Coverage 各岗位在岗人数
// GET /api/v1/shifts/:date/coverage
func (h *ShiftHandler) Coverage(c *gin.Context) {
	list, err := h.shiftSvc.Coverage(c.Request.Context(), c.Param("date"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CheckCoverage 派餐/调走前的覆盖检查
// GET /api/v1/shifts/:date/employees/:id/coverage-check?mode=lunch|cover
func (h *ShiftHandler) CheckCoverage(c *gin.Context) {
	var req dto.CoverageCheckRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	check, err := h.shiftSvc.CheckCoverage(c.Request.Context(), c.Param("date"), c.Param("id"), req.Mode)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, check)
}

// EligibleCovers 可顶岗人选
// GET /api/v1/shifts/:date/employees/:id/eligible-covers
func (h *ShiftHandler) EligibleCovers(c *gin.Context) {
	list, err := h.shiftSvc.EligibleCovers(c.Request.Context(), c.Param("date"), c.Param("id"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ═══════════════════════════════════════════════════════════
// 名单
// ═══════════════════════════════════════════════════════════

// AddEmployee 加入当日班次
// POST /api/v1/shifts/:date/employees
func (h *ShiftHandler) AddEmployee(c *gin.Context) {
	var req dto.AddShiftEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.shiftSvc.AddEmployee(c.Request.Context(), c.Param("date"), &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.Created(c, resp)
}

// RemoveEmployee 移出当日班次
// DELETE /api/v1/shifts/:date/employees/:id
func (h *ShiftHandler) RemoveEmployee(c *gin.Context) {
	resp, err := h.shiftSvc.RemoveEmployee(c.Request.Context(), c.Param("date"), c.Param("id"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// ═══════════════════════════════════════════════════════════
// 午餐 / 小休
// ═══════════════════════════════════════════════════════════

// AssignLunch POST /api/v1/shifts/:date/employees/:id/lunch/assign
func (h *ShiftHandler) AssignLunch(c *gin.Context) {
	resp, err := h.shiftSvc.AssignLunch(c.Request.Context(), c.Param("date"), c.Param("id"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// StartLunch POST /api/v1/shifts/:date/employees/:id/lunch/start
func (h *ShiftHandler) StartLunch(c *gin.Context) {
	var req dto.StartAwayRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp, err := h.shiftSvc.StartLunch(c.Request.Context(), c.Param("date"), c.Param("id"), &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// EndLunch POST /api/v1/shifts/:date/employees/:id/lunch/end
func (h *ShiftHandler) EndLunch(c *gin.Context) {
	var req dto.EndAwayRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp, err := h.shiftSvc.EndLunch(c.Request.Context(), c.Param("date"), c.Param("id"), &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// StartBreak POST /api/v1/shifts/:date/employees/:id/break/start
func (h *ShiftHandler) StartBreak(c *gin.Context) {
	var req dto.StartAwayRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp, err := h.shiftSvc.StartBreak(c.Request.Context(), c.Param("date"), c.Param("id"), &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// EndBreak POST /api/v1/shifts/:date/employees/:id/break/end
func (h *ShiftHandler) EndBreak(c *gin.Context) {
	var req dto.EndAwayRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp, err := h.shiftSvc.EndBreak(c.Request.Context(), c.Param("date"), c.Param("id"), &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// ═══════════════════════════════════════════════════════════
// 状态 / 岗位 / 时间
// ═══════════════════════════════════════════════════════════

// ClockOut POST /api/v1/shifts/:date/employees/:id/clock-out
func (h *ShiftHandler) ClockOut(c *gin.Context) {
	resp, err := h.shiftSvc.ClockOut(c.Request.Context(), c.Param("date"), c.Param("id"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// MarkAbsent POST /api/v1/shifts/:date/employees/:id/absent
func (h *ShiftHandler) MarkAbsent(c *gin.Context) {
	resp, err := h.shiftSvc.MarkAbsent(c.Request.Context(), c.Param("date"), c.Param("id"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// ChangeAssignment PUT /api/v1/shifts/:date/employees/:id/assignment
func (h *ShiftHandler) ChangeAssignment(c *gin.Context) {
	var req dto.ChangeAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.shiftSvc.ChangeAssignment(c.Request.Context(), c.Param("date"), c.Param("id"), &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// CorrectTimes PUT /api/v1/shifts/:date/employees/:id/times
func (h *ShiftHandler) CorrectTimes(c *gin.Context) {
	var req dto.CorrectTimesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.shiftSvc.CorrectTimes(c.Request.Context(), c.Param("date"), c.Param("id"), &req)
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, resp)
}

// ═══════════════════════════════════════════════════════════
// 撤销
// ═══════════════════════════════════════════════════════════

// Undo 撤销最近一次操作
// POST /api/v1/shifts/:date/undo
func (h *ShiftHandler) Undo(c *gin.Context) {
	entry, err := h.shiftSvc.Undo(c.Request.Context(), c.Param("date"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, entry)
}

// UndoLog 撤销栈（最新在前）
// GET /api/v1/shifts/:date/undo
func (h *ShiftHandler) UndoLog(c *gin.Context) {
	list, err := h.shiftSvc.UndoLog(c.Request.Context(), c.Param("date"))
	if err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ClearUndo 关闭撤销提示并清空撤销栈
// DELETE /api/v1/shifts/:date/undo
func (h *ShiftHandler) ClearUndo(c *gin.Context) {
	if err := h.shiftSvc.ClearUndo(c.Request.Context(), c.Param("date")); err != nil {
		handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 辅助函数 ──

// bindOptionalJSON 请求体可为空；非空时按 JSON 校验，失败已写入 400
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return false
	}
	return true
}

// handleShiftError 统一处理班次模块业务错误（导入、导出共用）
func handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 24001, "日期格式无效，应为 YYYY-MM-DD 或 today")
	case errors.Is(err, shift.ErrInvalidWallClock):
		response.ErrorWithDetails(c, http.StatusBadRequest, 24002, "时间格式无效，应为 HH:mm", err.Error())
	case errors.Is(err, shift.ErrInvalidInput):
		response.ErrorWithDetails(c, http.StatusBadRequest, 24010, "参数无效", err.Error())
	case errors.Is(err, shift.ErrEmployeeNotFound):
		response.NotFound(c, 24003, "当班员工不存在")
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 21001, "岗位不存在")
	case errors.Is(err, service.ErrEmployeeRecordNotFound):
		response.NotFound(c, 22001, "员工档案不存在")
	case errors.Is(err, shift.ErrInvalidTransition):
		response.ErrorWithDetails(c, http.StatusConflict, 24004, "当前状态不允许该操作", err.Error())
	case errors.Is(err, shift.ErrTimeOrder):
		response.Conflict(c, 24005, "结束时间不能早于开始时间")
	case errors.Is(err, shift.ErrCoverageConflict):
		response.ErrorWithDetails(c, http.StatusConflict, 24006, "顶岗安排冲突", err.Error())
	case errors.Is(err, shift.ErrNothingToUndo):
		response.Conflict(c, 24007, "没有可撤销的操作")
	case errors.Is(err, service.ErrAlreadyOnShift):
		response.Conflict(c, 24008, "该员工已在当日班次中")
	case errors.Is(err, service.ErrShiftBusy):
		response.Locked(c, 24009, "该营业日正在被其他请求修改，请稍后重试")
	default:
		response.InternalError(c)
	}
}
