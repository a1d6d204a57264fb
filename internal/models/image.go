package models

import (
	"time"

	"github.com/google/uuid"
)

// Image is the metadata row for an uploaded image. The payload itself is held
// by the blob store under StorageKey.
type Image struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ReportID    uuid.UUID `gorm:"type:uuid;not null;index" json:"report_id"`
	ContentType string    `gorm:"size:100" json:"content_type"`
	StorageKey  string    `gorm:"size:255;not null" json:"-"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
