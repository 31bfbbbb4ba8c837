package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/service"
	"jiaoxin/backend/pkg/response"
)

// HolidayHandler 校历假日模块 HTTP 处理器
type HolidayHandler struct {
	holidaySvc service.HolidayService
}

// NewHolidayHandler 创建 HolidayHandler
func NewHolidayHandler(holidaySvc service.HolidayService) *HolidayHandler {
	return &HolidayHandler{holidaySvc: holidaySvc}
}

// CreateHoliday 手工录入假日
// POST /api/v1/holidays
func (h *HolidayHandler) CreateHoliday(c *gin.Context) {
	var req dto.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	holiday, err := h.holidaySvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}

	response.Created(c, holiday)
}

// ListHolidays 假日列表（可按年份过滤）
// GET /api/v1/holidays
func (h *HolidayHandler) ListHolidays(c *gin.Context) {
	var req dto.HolidayListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	holidays, err := h.holidaySvc.List(c.Request.Context(), req.Year)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}

	response.OK(c, gin.H{"list": holidays})
}

// DeleteHoliday 删除假日
// DELETE /api/v1/holidays/:id
func (h *HolidayHandler) DeleteHoliday(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "假日ID不能为空")
		return
	}

	if err := h.holidaySvc.Delete(c.Request.Context(), id); err != nil {
		h.handleHolidayError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportICS 导入 ICS 校历
// POST /api/v1/holidays/import-ics
//
// multipart/form-data, field="file"
func (h *HolidayHandler) ImportICS(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 18101, "请上传 ICS 文件（field=file）")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 18101, "读取上传文件失败")
		return
	}
	defer f.Close()

	result, err := h.holidaySvc.ImportICS(c.Request.Context(), f, callerID)
	if err != nil {
		h.handleHolidayError(c, err)
		return
	}

	response.Created(c, result)
}

// handleHolidayError 统一处理假日模块业务错误
func (h *HolidayHandler) handleHolidayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrHolidayICSParse):
		response.BadRequest(c, 18102, "ICS 格式解析失败")
	default:
		response.InternalError(c)
	}
}
