package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/daybook-app/daybook-backend/internal/dto"
	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/daybook-app/daybook-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrNotOwner       = errors.New("report belongs to another user")
	ErrReportInvalid  = errors.New("report requires a date and at least one category")
)

// ReportService owns report CRUD. Every mutation is owner-scoped and records
// activity on the owner so followers can cheaply detect something changed.
type ReportService struct {
	db    *gorm.DB
	users *UserService
	blobs storage.BlobStore
}

func NewReportService(db *gorm.DB, users *UserService, blobs storage.BlobStore) *ReportService {
	return &ReportService{db: db, users: users, blobs: blobs}
}

// Create persists a new report for ownerID. Date and at least one category
// are required; nothing is persisted when validation fails.
func (s *ReportService) Create(ownerID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if req == nil || req.Date.IsZero() || len(req.Categories) == 0 {
		return nil, ErrReportInvalid
	}

	report := models.Report{
		ID:         uuid.New(),
		UserID:     ownerID,
		Date:       req.Date,
		Categories: datatypes.NewJSONSlice(req.Categories),
		Images:     datatypes.NewJSONSlice([]models.ImageRef{}),
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	if err := s.users.RecordActivity(ownerID); err != nil {
		slog.Error("failed to record activity", "user_id", ownerID.String(), "error", err)
	}

	return &report, nil
}

// Update replaces the category list (full replacement, matching how clients
// submit the checklist) and optionally the report date. Owner only.
func (s *ReportService) Update(ownerID, reportID uuid.UUID, req *dto.UpdateReportRequest) (*models.Report, error) {
	if req == nil || len(req.Categories) == 0 {
		return nil, ErrReportInvalid
	}

	report, err := s.find(reportID)
	if err != nil {
		return nil, err
	}
	if report.UserID != ownerID {
		return nil, ErrNotOwner
	}

	updates := map[string]interface{}{
		"categories": datatypes.NewJSONSlice(req.Categories),
	}
	if req.Date != nil {
		if req.Date.IsZero() {
			return nil, ErrReportInvalid
		}
		updates["date"] = *req.Date
	}

	if err := s.db.Model(report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}

	if err := s.users.RecordActivity(ownerID); err != nil {
		slog.Error("failed to record activity", "user_id", ownerID.String(), "error", err)
	}

	return report, nil
}

// Delete removes a report, its image rows and, best effort, their blobs.
func (s *ReportService) Delete(ownerID, reportID uuid.UUID) error {
	report, err := s.find(reportID)
	if err != nil {
		return err
	}
	if report.UserID != ownerID {
		return ErrNotOwner
	}

	var images []models.Image
	if err := s.db.Where("report_id = ?", reportID).Find(&images).Error; err != nil {
		return fmt.Errorf("failed to list report images: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", reportID).Delete(&models.Image{}).Error; err != nil {
			return err
		}
		return tx.Delete(report).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}

	if s.blobs != nil {
		for _, img := range images {
			if err := s.blobs.Delete(context.Background(), img.StorageKey); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
				slog.Error("failed to delete blob", "key", img.StorageKey, "error", err)
			}
		}
	}

	if err := s.users.RecordActivity(ownerID); err != nil {
		slog.Error("failed to record activity", "user_id", ownerID.String(), "error", err)
	}

	return nil
}

// Count returns how many reports ownerID has; shown on the profile.
func (s *ReportService) Count(ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Report{}).Where("user_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

func (s *ReportService) find(reportID uuid.UUID) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return &report, nil
}
