package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shift-guard/internal/dto"
	"shift-guard/internal/service"
	"shift-guard/pkg/response"
)

// PositionHandler 岗位目录 HTTP 处理器
type PositionHandler struct {
	positionSvc service.PositionService
}

// NewPositionHandler 创建 PositionHandler
func NewPositionHandler(positionSvc service.PositionService) *PositionHandler {
	return &PositionHandler{positionSvc: positionSvc}
}

// ListPositions 获取岗位列表
// GET /api/v1/positions
func (h *PositionHandler) ListPositions(c *gin.Context) {
	list, err := h.positionSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// GetPosition 获取岗位详情
// GET /api/v1/positions/:id
func (h *PositionHandler) GetPosition(c *gin.Context) {
	pos, err := h.positionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlePositionError(c, err)
		return
	}

	response.OK(c, pos)
}

// CreatePosition 创建岗位
// POST /api/v1/positions
func (h *PositionHandler) CreatePosition(c *gin.Context) {
	var req dto.CreatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	pos, err := h.positionSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handlePositionError(c, err)
		return
	}

	response.Created(c, pos)
}

// UpdatePosition 更新岗位
// PUT /api/v1/positions/:id
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	var req dto.UpdatePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	pos, err := h.positionSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handlePositionError(c, err)
		return
	}

	response.OK(c, pos)
}

// DeletePosition 删除岗位
// DELETE /api/v1/positions/:id
func (h *PositionHandler) DeletePosition(c *gin.Context) {
	if err := h.positionSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlePositionError(c, err)
		return
	}

	response.OK(c, nil)
}

// handlePositionError 统一处理岗位模块业务错误
func handlePositionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPositionNotFound):
		response.NotFound(c, 21001, "岗位不存在")
	case errors.Is(err, service.ErrPositionExists):
		response.Conflict(c, 21002, "岗位 ID 已存在")
	default:
		response.InternalError(c)
	}
}
