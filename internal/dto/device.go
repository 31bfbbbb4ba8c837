package dto

// ── 考勤机模块 DTO ──

// CreateDeviceRequest 登记考勤机请求
type CreateDeviceRequest struct {
	SerialNo string `json:"serial_no" binding:"required,max=64"`
	Name     string `json:"name"      binding:"required,max=100"`
}

// DeviceResponse 考勤机响应。APIKey 仅在创建时返回一次，之后不可再查。
type DeviceResponse struct {
	ID         string `json:"id"`
	SerialNo   string `json:"serial_no"`
	Name       string `json:"name"`
	Status     string `json:"status"` // active | disabled
	APIKey     string `json:"api_key,omitempty"`
	LastSeenAt string `json:"last_seen_at,omitempty"`
}

// DevicePunchRequest 考勤机实时打卡回调请求
type DevicePunchRequest struct {
	SerialNo   string `json:"serial_no"   binding:"required"`
	APIKey     string `json:"api_key"     binding:"required"`
	EmployeeNo string `json:"employee_no" binding:"required"`
	PunchTime  string `json:"punch_time"  binding:"required,datetime=2006-01-02 15:04:05"`
	Direction  string `json:"direction"   binding:"required,oneof=in out"`
}

// DevicePunchResponse 打卡回调响应
type DevicePunchResponse struct {
	TeacherID string `json:"teacher_id"`
	Date      string `json:"date"`
	CheckIn   string `json:"check_in,omitempty"`
	CheckOut  string `json:"check_out,omitempty"`
}
