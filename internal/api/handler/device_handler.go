package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/service"
	pkgerrors "jiaoxin/backend/pkg/errors"
	"jiaoxin/backend/pkg/response"
)

// DeviceHandler 考勤机模块 HTTP 处理器
type DeviceHandler struct {
	deviceSvc service.DeviceService
}

// NewDeviceHandler 创建 DeviceHandler
func NewDeviceHandler(deviceSvc service.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceSvc: deviceSvc}
}

// CreateDevice 登记考勤机（API Key 仅此响应返回一次）
// POST /api/v1/devices
func (h *DeviceHandler) CreateDevice(c *gin.Context) {
	var req dto.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	device, err := h.deviceSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleDeviceError(c, err)
		return
	}

	response.Created(c, device)
}

// ListDevices 考勤机列表
// GET /api/v1/devices
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices, err := h.deviceSvc.List(c.Request.Context())
	if err != nil {
		h.handleDeviceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": devices})
}

// DisableDevice 停用考勤机
// PUT /api/v1/devices/:id/disable
func (h *DeviceHandler) DisableDevice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设备ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	device, err := h.deviceSvc.Disable(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleDeviceError(c, err)
		return
	}

	response.OK(c, device)
}

// DeleteDevice 删除考勤机
// DELETE /api/v1/devices/:id
func (h *DeviceHandler) DeleteDevice(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "设备ID不能为空")
		return
	}

	if err := h.deviceSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleDeviceError(c, err)
		return
	}

	response.OK(c, nil)
}

// Punch 考勤机实时打卡回调
// POST /api/v1/devices/punch
//
// 不走 JWT：设备以序列号 + API Key 认证，认证逻辑在 Service 层。
func (h *DeviceHandler) Punch(c *gin.Context) {
	var req dto.DevicePunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.deviceSvc.Punch(c.Request.Context(), &req)
	if err != nil {
		h.handleDeviceError(c, err)
		return
	}

	response.OK(c, result)
}

// handleDeviceError 统一处理考勤机模块业务错误
func (h *DeviceHandler) handleDeviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDeviceNotFound):
		response.NotFound(c, 18001, "考勤机不存在")
	case errors.Is(err, service.ErrSerialNoExists):
		response.Conflict(c, 18002, "序列号已登记")
	case errors.Is(err, service.ErrDeviceAuth):
		response.Error(c, http.StatusUnauthorized, 18003, "考勤机认证失败")
	case errors.Is(err, service.ErrDeviceDisabled):
		response.Forbidden(c, 18004, "考勤机已停用")
	case errors.Is(err, pkgerrors.ErrManualOverride):
		response.Conflict(c, 18005, "该日期考勤已人工改判，设备打卡不覆盖")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 14001, "教师不存在")
	case errors.Is(err, pkgerrors.ErrNoActiveTiming):
		response.BadRequest(c, 17005, "未找到启用的考勤时段配置")
	case errors.Is(err, pkgerrors.ErrNoSalaryConfig):
		response.BadRequest(c, 17006, "该日期没有生效的薪资配置")
	case errors.Is(err, pkgerrors.ErrNoMatchingRule):
		response.BadRequest(c, 17007, "该考勤状态没有启用的扣款规则")
	default:
		response.InternalError(c)
	}
}
