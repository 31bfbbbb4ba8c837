package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── PostgreSQL JSONB 自定义类型 ──

// RowError 单行导入失败明细（error_log 的元素）
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// RowErrorList 对应 PostgreSQL JSONB 数组，实现 GORM Scanner/Valuer 接口。
type RowErrorList []RowError

// Scan 将 JSONB 文本解析为 []RowError。
func (l *RowErrorList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("RowErrorList.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*l = RowErrorList{}
		return nil
	}
	return json.Unmarshal(b, l)
}

// Value 将 []RowError 序列化为 JSONB 文本。
func (l RowErrorList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

// UploadBatch 考勤导入批次表 — 对应 upload_batches
// 上传开始即落库（processing），全部行处理完毕后一次性进入终态，之后不再改写。
type UploadBatch struct {
	BatchID           string       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"  json:"batch_id"`
	FileName          string       `gorm:"type:varchar(255);not null"                      json:"file_name"`
	FileSize          int64        `gorm:"not null;default:0"                              json:"file_size"`
	UploadDate        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"              json:"upload_date"`
	RecordsProcessed  int          `gorm:"not null;default:0"                              json:"records_processed"`
	RecordsSuccessful int          `gorm:"not null;default:0"                              json:"records_successful"`
	RecordsFailed     int          `gorm:"not null;default:0"                              json:"records_failed"`
	Status            string       `gorm:"type:varchar(20);not null;default:'processing'"  json:"status"` // processing | completed | failed | partial
	ErrorLog          RowErrorList `gorm:"type:jsonb"                                      json:"error_log,omitempty"`
	UploadedBy        *string      `gorm:"type:uuid"                                       json:"uploaded_by,omitempty"`
	BaseModel
}

// TableName 指定表名
func (UploadBatch) TableName() string { return "upload_batches" }

// [自证通过] internal/model/upload_batch.go
