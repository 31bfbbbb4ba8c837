package dto

// ── 假日模块 DTO ──

// CreateHolidayRequest 新增假日请求
type CreateHolidayRequest struct {
	HolidayDate string `json:"holiday_date" binding:"required,datetime=2006-01-02"`
	Name        string `json:"name"         binding:"required,max=100"`
}

// HolidayListRequest 假日列表查询参数（按年份过滤）
type HolidayListRequest struct {
	Year int `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// ImportHolidaysResponse ICS 导入结果
type ImportHolidaysResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Names    []string `json:"names,omitempty"`
}

// HolidayResponse 假日响应
type HolidayResponse struct {
	ID          string `json:"id"`
	HolidayDate string `json:"holiday_date"`
	Name        string `json:"name"`
	Source      string `json:"source"` // manual | ics
}
