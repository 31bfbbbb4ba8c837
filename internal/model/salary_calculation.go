package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DayDetail 月度计算的单日明细（calculation_details 的元素），
// 留存计算依据，审计时无需回查原始考勤。
type DayDetail struct {
	Date            string  `json:"date"` // 2006-01-02
	Status          string  `json:"status"`
	LateMinutes     int     `json:"late_minutes,omitempty"`
	EarlyMinutes    int     `json:"early_minutes,omitempty"`
	TotalHours      float64 `json:"total_hours,omitempty"`
	DeductionAmount float64 `json:"deduction_amount"`
	DeductionReason string  `json:"deduction_reason,omitempty"`
	ManualOverride  bool    `json:"manual_override,omitempty"`
}

// DayDetailList 对应 PostgreSQL JSONB 数组，实现 GORM Scanner/Valuer 接口。
type DayDetailList []DayDetail

// Scan 将 JSONB 文本解析为 []DayDetail。
func (l *DayDetailList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("DayDetailList.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*l = DayDetailList{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// Value 将 []DayDetail 序列化为 JSONB 文本。
func (l DayDetailList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// SalaryCalculation 月度薪资计算表 — 对应 salary_calculations
// 每教师每月唯一。未审批（draft）可反复重算，整月从原始考勤推导；
// 审批通过后不可变，任何重算/再审批返回冲突而不是改写。
type SalaryCalculation struct {
	CalculationID      string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"      json:"calculation_id"`
	TeacherID          string        `gorm:"type:uuid;not null;uniqueIndex:uk_teacher_month"     json:"teacher_id"`
	Month              int           `gorm:"type:smallint;not null;uniqueIndex:uk_teacher_month" json:"month"` // 1-12
	Year               int           `gorm:"type:smallint;not null;uniqueIndex:uk_teacher_month" json:"year"`
	BasicSalary        float64       `gorm:"type:decimal(12,2);not null"                         json:"basic_salary"`
	PerDaySalary       float64       `gorm:"type:decimal(12,2);not null"                         json:"per_day_salary"`
	TotalWorkingDays   int           `gorm:"type:smallint;not null"                              json:"total_working_days"`
	PresentDays        int           `gorm:"type:smallint;not null;default:0"                    json:"present_days"`
	AbsentDays         int           `gorm:"type:smallint;not null;default:0"                    json:"absent_days"`
	HalfDays           int           `gorm:"type:smallint;not null;default:0"                    json:"half_days"`
	LateDays           int           `gorm:"type:smallint;not null;default:0"                    json:"late_days"`
	TotalDeductions    float64       `gorm:"type:decimal(12,2);not null;default:0"               json:"total_deductions"`
	NetSalary          float64       `gorm:"type:decimal(12,2);not null"                         json:"net_salary"`
	CalculationDetails DayDetailList `gorm:"type:jsonb"                                          json:"calculation_details,omitempty"`
	IsApproved         bool          `gorm:"not null;default:false"                              json:"is_approved"`
	ApprovedBy         *string       `gorm:"type:uuid"                                           json:"approved_by,omitempty"`
	ApprovedAt         *time.Time    `json:"approved_at,omitempty"`
	VersionedModel

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (SalaryCalculation) TableName() string { return "salary_calculations" }

// [自证通过] internal/model/salary_calculation.go
