package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Category is one checklist item inside a report.
type Category struct {
	Type    string `json:"type"`
	Checked bool   `json:"checked"`
	Message string `json:"message,omitempty"`
}

// ImageRef points at an uploaded image attached to a report. The bytes live
// in the blob store; only the id travels with the report.
type ImageRef struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description,omitempty"`
}

// Report is a dated checklist owned by exactly one user. Date is user
// supplied and may differ from CreatedAt; the timeline pages on CreatedAt and
// ranges on Date.
type Report struct {
	ID         uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID                     `gorm:"type:uuid;not null;index" json:"userid"`
	Date       time.Time                     `gorm:"not null;index" json:"date"`
	Categories datatypes.JSONSlice[Category] `json:"categories"`
	Images     datatypes.JSONSlice[ImageRef] `json:"images"`
	CreatedAt  time.Time                     `gorm:"index" json:"created"`
	UpdatedAt  time.Time                     `json:"-"`
}
