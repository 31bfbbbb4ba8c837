package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/service"
	pkgerrors "jiaoxin/backend/pkg/errors"
	"jiaoxin/backend/pkg/response"
)

// SalaryHandler 月度薪资计算与审批模块 HTTP 处理器
type SalaryHandler struct {
	salarySvc service.SalaryService
}

// NewSalaryHandler 创建 SalaryHandler
func NewSalaryHandler(salarySvc service.SalaryService) *SalaryHandler {
	return &SalaryHandler{salarySvc: salarySvc}
}

// Recompute 重算某教师某月薪资（草稿可反复重算）
// POST /api/v1/salary/calculations/recompute
func (h *SalaryHandler) Recompute(c *gin.Context) {
	var req dto.RecomputePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	calc, err := h.salarySvc.Recompute(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}

	response.OK(c, calc)
}

// Preview 试算某教师某月薪资（不落库）
// POST /api/v1/salary/calculations/preview
func (h *SalaryHandler) Preview(c *gin.Context) {
	var req dto.RecomputePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	calc, err := h.salarySvc.Preview(c.Request.Context(), &req)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}

	response.OK(c, calc)
}

// Approve 审批某教师某月薪资（审批人取自登录态）
// POST /api/v1/salary/calculations/approve
func (h *SalaryHandler) Approve(c *gin.Context) {
	var req dto.ApprovePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	approverID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	calc, err := h.salarySvc.Approve(c.Request.Context(), &req, approverID)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}

	response.OK(c, calc)
}

// BulkApprove 批量审批某月全部草稿
// POST /api/v1/salary/calculations/approve-bulk
func (h *SalaryHandler) BulkApprove(c *gin.Context) {
	var req dto.BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	approverID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.salarySvc.BulkApprove(c.Request.Context(), &req, approverID)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}

	response.OK(c, result)
}

// ListCalculations 月度计算列表
// GET /api/v1/salary/calculations
func (h *SalaryHandler) ListCalculations(c *gin.Context) {
	var req dto.CalculationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	calcs, total, err := h.salarySvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}

	response.OKPage(c, calcs, total, req.GetPage(), req.GetPageSize())
}

// GetCalculation 月度计算详情（含逐日明细）
// GET /api/v1/salary/calculations/:id
func (h *SalaryHandler) GetCalculation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "计算ID不能为空")
		return
	}

	calc, err := h.salarySvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleSalaryError(c, err)
		return
	}

	response.OK(c, calc)
}

// handleSalaryError 统一处理薪资模块业务错误
//
// 配置缺失类错误（时段/薪资配置/规则）按 400 返回：
// 调用方补配置后重试即可，不属于服务端故障。
func (h *SalaryHandler) handleSalaryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCalculationNotFound):
		response.NotFound(c, 17001, "月度薪资计算不存在")
	case errors.Is(err, service.ErrPeriodApproved):
		response.Conflict(c, 17002, "该月度计算已审批通过，不可改动")
	case errors.Is(err, pkgerrors.ErrLockTimeout):
		response.Conflict(c, 17003, "获取计算锁超时，请稍后重试")
	case errors.Is(err, pkgerrors.ErrNoActiveTiming):
		response.BadRequest(c, 17005, "未找到启用的考勤时段配置")
	case errors.Is(err, pkgerrors.ErrNoSalaryConfig):
		response.BadRequest(c, 17006, "该日期没有生效的薪资配置")
	case errors.Is(err, pkgerrors.ErrNoMatchingRule):
		response.BadRequest(c, 17007, "该考勤状态没有启用的扣款规则")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 14001, "教师不存在")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
