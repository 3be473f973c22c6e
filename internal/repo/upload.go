package repo

import (
	"cloud-chat-backend/internal/models"
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadRepo stores the upload audit index in the database
type UploadRepo struct {
	db *gorm.DB
}

type UploadRepoInterface interface {
	Record(ctx context.Context, record *models.UploadRecord) error
	GetLatest(ctx context.Context, limit int) ([]models.UploadRecord, error)
}

func NewUploadRepository(db *gorm.DB) UploadRepoInterface {
	return &UploadRepo{db: db}
}

// Record inserts an upload record, assigning its id and creation time
func (r *UploadRepo) Record(ctx context.Context, record *models.UploadRecord) error {
	if record.UUID == uuid.Nil {
		record.UUID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// GetLatest returns the newest upload records first
func (r *UploadRepo) GetLatest(ctx context.Context, limit int) ([]models.UploadRecord, error) {
	var records []models.UploadRecord

	// default + cap
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	return records, err
}
