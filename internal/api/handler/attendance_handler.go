package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/service"
	pkgerrors "jiaoxin/backend/pkg/errors"
	"jiaoxin/backend/pkg/response"
)

// AttendanceHandler 考勤记录与导入批次模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	ingestSvc     service.IngestService
	maxUploadSize int64
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService, ingestSvc service.IngestService, maxUploadSize int64) *AttendanceHandler {
	return &AttendanceHandler{
		attendanceSvc: attendanceSvc,
		ingestSvc:     ingestSvc,
		maxUploadSize: maxUploadSize,
	}
}

// Upload 上传考勤打卡文件（CSV / XLSX）
// POST /api/v1/attendance/upload
//
// multipart/form-data, field="file"。逐行错误不终止批次，
// 响应里带成功/失败计数与错误清单。
func (h *AttendanceHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 16001, "请上传考勤文件（field=file）")
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		response.BadRequest(c, 16002, "文件大小超出限制")
		return
	}

	uploaderID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 16001, "读取上传文件失败")
		return
	}
	defer f.Close()

	batch, err := h.ingestSvc.Upload(c.Request.Context(), fileHeader.Filename, fileHeader.Size, f, uploaderID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, batch)
}

// ListBatches 导入批次历史
// GET /api/v1/attendance/uploads
func (h *AttendanceHandler) ListBatches(c *gin.Context) {
	var req dto.UploadListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	batches, total, err := h.ingestSvc.ListBatches(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKPage(c, batches, total, req.GetPage(), req.GetPageSize())
}

// GetBatch 导入批次详情（含逐行错误日志）
// GET /api/v1/attendance/uploads/:id
func (h *AttendanceHandler) GetBatch(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "批次ID不能为空")
		return
	}

	batch, err := h.ingestSvc.GetBatch(c.Request.Context(), id)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, batch)
}

// ListRecords 考勤记录查询
// GET /api/v1/attendance/records
func (h *AttendanceHandler) ListRecords(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	records, total, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OKPage(c, records, total, req.GetPage(), req.GetPageSize())
}

// Override 人工改判某教师某日考勤
// PUT /api/v1/attendance/records/override
func (h *AttendanceHandler) Override(c *gin.Context) {
	var req dto.OverrideAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.Override(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

// Summary 某教师月度考勤汇总
// GET /api/v1/attendance/summary
func (h *AttendanceHandler) Summary(c *gin.Context) {
	var req dto.AttendanceSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	summary, err := h.attendanceSvc.Summary(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, summary)
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnsupportedFormat):
		response.BadRequest(c, 16003, "不支持的文件格式，仅支持 .csv / .xlsx")
	case errors.Is(err, service.ErrBatchNotFound):
		response.NotFound(c, 16004, "导入批次不存在")
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, 16005, "考勤记录不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 14001, "教师不存在")
	case errors.Is(err, pkgerrors.ErrManualOverride):
		response.Conflict(c, 16006, "考勤记录已人工改判，不可自动覆盖")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
