package dto

import (
	"time"

	"github.com/daybook-app/daybook-backend/internal/models"
)

type CreateReportRequest struct {
	Date       time.Time         `json:"date"`
	Categories []models.Category `json:"categories"`
}

// UpdateReportRequest replaces the category list wholesale; a nil Date leaves
// the report date unchanged.
type UpdateReportRequest struct {
	Date       *time.Time        `json:"date"`
	Categories []models.Category `json:"categories"`
}
