// internal/domain/upload/entity.go
package upload

import (
	"time"

	"gorm.io/gorm"
)

// UploadedFile is the record of a stored product image
type UploadedFile struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OriginalName string         `gorm:"not null;size:255" json:"original_name"`
	Filename     string         `gorm:"not null;size:255" json:"filename"`
	Path         string         `gorm:"not null;size:500" json:"path"`
	URL          string         `gorm:"not null;size:500" json:"url"`
	MimeType     string         `gorm:"size:100" json:"mime_type"`
	Size         int64          `json:"size"`
	UploadedBy   uint           `gorm:"index" json:"uploaded_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (UploadedFile) TableName() string { return "uploaded_files" }
