package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shift-guard/internal/dto"
	"shift-guard/internal/service"
	"shift-guard/pkg/response"
)

// ImportHandler 排班导入 HTTP 处理器
type ImportHandler struct {
	importSvc service.ImportService
}

// NewImportHandler 创建 ImportHandler
func NewImportHandler(importSvc service.ImportService) *ImportHandler {
	return &ImportHandler{importSvc: importSvc}
}

// ImportICS 导入 iCalendar 排班
// POST /api/v1/shifts/:date/import/ics
//
// 支持两种方式：
//   - 文件上传: multipart/form-data, field="file"，可附 default_start / default_end
//   - URL 导入: application/json, body={"url": "..."}
func (h *ImportHandler) ImportICS(c *gin.Context) {
	date := c.Param("date")

	file, _, err := c.Request.FormFile("file")
	if err == nil {
		defer file.Close()
		var req dto.ImportScheduleRequest
		if err := c.ShouldBind(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
		resp, err := h.importSvc.ImportICS(c.Request.Context(), date, file, &req)
		if err != nil {
			handleImportError(c, err)
			return
		}
		response.Created(c, resp)
		return
	}

	var req dto.ImportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		response.BadRequest(c, 25003, "请上传 ICS 文件或提供 ICS URL")
		return
	}

	resp, err := h.importSvc.ImportURL(c.Request.Context(), date, &req)
	if err != nil {
		handleImportError(c, err)
		return
	}
	response.Created(c, resp)
}

// ImportText 导入粘贴的纯文本排班
// POST /api/v1/shifts/:date/import/text
func (h *ImportHandler) ImportText(c *gin.Context) {
	var req dto.ImportScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.importSvc.ImportText(c.Request.Context(), c.Param("date"), &req)
	if err != nil {
		handleImportError(c, err)
		return
	}
	response.Created(c, resp)
}

func handleImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrImportFormat):
		response.ErrorWithDetails(c, http.StatusBadRequest, 25001, "排班文件解析失败", err.Error())
	case errors.Is(err, service.ErrImportEmpty):
		response.BadRequest(c, 25002, "未解析到当日排班")
	case errors.Is(err, service.ErrImportSource):
		response.BadRequest(c, 25003, "请上传 ICS 文件或提供 ICS URL / 文本")
	default:
		handleShiftError(c, err)
	}
}
