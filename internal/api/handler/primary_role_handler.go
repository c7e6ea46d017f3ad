package handler

import (
	"github.com/gin-gonic/gin"

	"shift-guard/internal/service"
	"shift-guard/pkg/response"
)

// PrimaryRoleHandler 主岗位头衔 HTTP 处理器
type PrimaryRoleHandler struct {
	roleSvc service.PrimaryRoleService
}

// NewPrimaryRoleHandler 创建 PrimaryRoleHandler
func NewPrimaryRoleHandler(roleSvc service.PrimaryRoleService) *PrimaryRoleHandler {
	return &PrimaryRoleHandler{roleSvc: roleSvc}
}

// ListPrimaryRoles GET /api/v1/primary-roles
func (h *PrimaryRoleHandler) ListPrimaryRoles(c *gin.Context) {
	list, err := h.roleSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": list})
}
