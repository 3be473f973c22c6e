package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UploadRecord represents the database model of the upload audit index
type UploadRecord struct {
	UUID         uuid.UUID      `gorm:"type:uuid;primaryKey;" json:"uuid"`
	Name         string         `gorm:"not null;index" json:"name"`
	OriginalName string         `gorm:"not null" json:"original_name"`
	URL          string         `gorm:"not null" json:"url"`
	Size         int64          `json:"size"`
	ContentType  string         `json:"content_type"`
	Headers      datatypes.JSON `json:"headers"`
	CreatedAt    time.Time      `json:"created_at"`
}
