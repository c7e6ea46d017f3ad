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

// PolicyHandler 合规策略 HTTP 处理器
type PolicyHandler struct {
	policySvc service.PolicyService
}

// NewPolicyHandler 创建 PolicyHandler
func NewPolicyHandler(policySvc service.PolicyService) *PolicyHandler {
	return &PolicyHandler{policySvc: policySvc}
}

// GetPolicy 获取当前生效策略
// GET /api/v1/compliance-policy
func (h *PolicyHandler) GetPolicy(c *gin.Context) {
	p, err := h.policySvc.Get(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, p)
}

// UpdatePolicy 更新策略，未提交字段保持不变
// PUT /api/v1/compliance-policy
func (h *PolicyHandler) UpdatePolicy(c *gin.Context) {
	var req dto.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	p, err := h.policySvc.Update(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, shift.ErrInvalidPolicy) {
			response.ErrorWithDetails(c, http.StatusBadRequest, 23001, "合规策略无效", err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, p)
}
