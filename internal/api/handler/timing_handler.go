package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/service"
	pkgerrors "jiaoxin/backend/pkg/errors"
	"jiaoxin/backend/pkg/response"
)

// TimingHandler 考勤时段与扣款规则模块 HTTP 处理器
type TimingHandler struct {
	timingSvc service.TimingService
	ruleSvc   service.RuleService
}

// NewTimingHandler 创建 TimingHandler
func NewTimingHandler(timingSvc service.TimingService, ruleSvc service.RuleService) *TimingHandler {
	return &TimingHandler{timingSvc: timingSvc, ruleSvc: ruleSvc}
}

// ── 考勤时段 ──

// CreateTiming 创建考勤时段
// POST /api/v1/timings
func (h *TimingHandler) CreateTiming(c *gin.Context) {
	var req dto.CreateTimingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	timing, err := h.timingSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTimingError(c, err)
		return
	}

	response.Created(c, timing)
}

// ListTimings 获取时段配置列表
// GET /api/v1/timings
func (h *TimingHandler) ListTimings(c *gin.Context) {
	timings, err := h.timingSvc.List(c.Request.Context())
	if err != nil {
		h.handleTimingError(c, err)
		return
	}

	response.OK(c, gin.H{"list": timings})
}

// GetActiveTiming 获取当前启用的时段配置
// GET /api/v1/timings/active
func (h *TimingHandler) GetActiveTiming(c *gin.Context) {
	timing, err := h.timingSvc.GetActive(c.Request.Context())
	if err != nil {
		h.handleTimingError(c, err)
		return
	}

	response.OK(c, timing)
}

// UpdateTiming 更新时段配置
// PUT /api/v1/timings/:id
func (h *TimingHandler) UpdateTiming(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "时段ID不能为空")
		return
	}

	var req dto.UpdateTimingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	timing, err := h.timingSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTimingError(c, err)
		return
	}

	response.OK(c, timing)
}

// ActivateTiming 启用时段配置（停用现行配置）
// PUT /api/v1/timings/:id/activate
func (h *TimingHandler) ActivateTiming(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "时段ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	timing, err := h.timingSvc.Activate(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleTimingError(c, err)
		return
	}

	response.OK(c, timing)
}

// DeleteTiming 删除时段配置（启用中的不可删除）
// DELETE /api/v1/timings/:id
func (h *TimingHandler) DeleteTiming(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "时段ID不能为空")
		return
	}

	if err := h.timingSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTimingError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── 扣款规则 ──

// CreateRule 创建扣款规则
// POST /api/v1/rules
func (h *TimingHandler) CreateRule(c *gin.Context) {
	var req dto.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rule, err := h.ruleSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRuleError(c, err)
		return
	}

	response.Created(c, rule)
}

// ListRules 获取规则列表
// GET /api/v1/rules
func (h *TimingHandler) ListRules(c *gin.Context) {
	rules, err := h.ruleSvc.List(c.Request.Context())
	if err != nil {
		h.handleRuleError(c, err)
		return
	}

	response.OK(c, gin.H{"list": rules})
}

// UpdateRule 更新规则
// PUT /api/v1/rules/:id
func (h *TimingHandler) UpdateRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	var req dto.UpdateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rule, err := h.ruleSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRuleError(c, err)
		return
	}

	response.OK(c, rule)
}

// ActivateRule 启用规则（停用同类型现行规则）
// PUT /api/v1/rules/:id/activate
func (h *TimingHandler) ActivateRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	rule, err := h.ruleSvc.Activate(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleRuleError(c, err)
		return
	}

	response.OK(c, rule)
}

// DeleteRule 删除规则（启用中的不可删除）
// DELETE /api/v1/rules/:id
func (h *TimingHandler) DeleteRule(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "规则ID不能为空")
		return
	}

	if err := h.ruleSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleRuleError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTimingError 统一处理时段模块业务错误
func (h *TimingHandler) handleTimingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimingNotFound):
		response.NotFound(c, 15001, "时段配置不存在")
	case errors.Is(err, service.ErrTimingActive):
		response.Conflict(c, 15002, "启用中的时段配置不可删除")
	case errors.Is(err, service.ErrTimingOrder):
		response.BadRequest(c, 15003, "上班时间必须早于下班时间")
	case errors.Is(err, pkgerrors.ErrNoActiveTiming):
		response.NotFound(c, 15004, "未找到启用的考勤时段配置")
	default:
		response.InternalError(c)
	}
}

// handleRuleError 统一处理规则模块业务错误
func (h *TimingHandler) handleRuleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRuleNotFound):
		response.NotFound(c, 15101, "扣款规则不存在")
	case errors.Is(err, service.ErrRuleActive):
		response.Conflict(c, 15102, "启用中的扣款规则不可删除")
	case errors.Is(err, service.ErrRuleValueInvalid):
		response.BadRequest(c, 15103, "扣款数值与扣款类型不匹配")
	default:
		response.InternalError(c)
	}
}
