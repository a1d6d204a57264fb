package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/daybook-app/daybook-backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound  = errors.New("image not found")
	ErrImageForbidden = errors.New("not authorized for this image")
)

// ImageService streams image payloads into the blob store and keeps the
// metadata row plus the report's image ref list in step with it.
type ImageService struct {
	db    *gorm.DB
	blobs storage.BlobStore
	authz *AuthorizationService
}

func NewImageService(db *gorm.DB, blobs storage.BlobStore, authz *AuthorizationService) *ImageService {
	return &ImageService{db: db, blobs: blobs, authz: authz}
}

// Upload stores the byte stream, records the metadata row and appends an
// image ref to the owning report. The report must belong to ownerID.
func (s *ImageService) Upload(ctx context.Context, ownerID, reportID uuid.UUID, contentType, description string, body io.Reader) (*models.Image, error) {
	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	if report.UserID != ownerID {
		return nil, ErrNotOwner
	}

	img := models.Image{
		ID:          uuid.New(),
		UserID:      ownerID,
		ReportID:    reportID,
		ContentType: contentType,
		StorageKey:  uuid.New().String(),
		Description: description,
	}

	if err := s.blobs.Put(ctx, img.StorageKey, contentType, body); err != nil {
		return nil, fmt.Errorf("failed to store image bytes: %w", err)
	}

	if err := s.db.Create(&img).Error; err != nil {
		// Roll back the blob so a failed row insert leaves nothing behind.
		if derr := s.blobs.Delete(ctx, img.StorageKey); derr != nil {
			slog.Error("failed to remove orphaned blob", "key", img.StorageKey, "error", derr)
		}
		return nil, fmt.Errorf("failed to record image: %w", err)
	}

	refs := append([]models.ImageRef(nil), report.Images...)
	refs = append(refs, models.ImageRef{ID: img.ID, Description: description})
	if err := s.db.Model(&report).Update("images", datatypes.NewJSONSlice(refs)).Error; err != nil {
		return nil, fmt.Errorf("failed to attach image to report: %w", err)
	}

	return &img, nil
}

// Open returns the image metadata and a reader over its bytes. The viewer
// must be authorized for the image owner's reports; any resolution failure
// closes access rather than widening it.
func (s *ImageService) Open(ctx context.Context, viewer *models.User, imageID uuid.UUID) (*models.Image, io.ReadCloser, error) {
	img, err := s.find(imageID)
	if err != nil {
		return nil, nil, err
	}

	if len(s.authz.AllAuthorized(viewer, []uuid.UUID{img.UserID})) == 0 {
		return nil, nil, ErrImageForbidden
	}

	rc, err := s.blobs.Get(ctx, img.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			return nil, nil, ErrImageNotFound
		}
		return nil, nil, fmt.Errorf("failed to open image bytes: %w", err)
	}
	return img, rc, nil
}

// Delete removes blob, metadata row and the report's ref. Owner only.
func (s *ImageService) Delete(ctx context.Context, ownerID, imageID uuid.UUID) error {
	img, err := s.find(imageID)
	if err != nil {
		return err
	}
	if img.UserID != ownerID {
		return ErrNotOwner
	}

	if err := s.db.Delete(img).Error; err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	if err := s.blobs.Delete(ctx, img.StorageKey); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
		slog.Error("failed to delete blob", "key", img.StorageKey, "error", err)
	}

	var report models.Report
	if err := s.db.First(&report, "id = ?", img.ReportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // report already gone, nothing to detach
		}
		return fmt.Errorf("failed to find report: %w", err)
	}

	refs := make([]models.ImageRef, 0, len(report.Images))
	for _, ref := range report.Images {
		if ref.ID != imageID {
			refs = append(refs, ref)
		}
	}
	if len(refs) != len(report.Images) {
		if err := s.db.Model(&report).Update("images", datatypes.NewJSONSlice(refs)).Error; err != nil {
			return fmt.Errorf("failed to detach image from report: %w", err)
		}
	}

	return nil
}

func (s *ImageService) find(imageID uuid.UUID) (*models.Image, error) {
	var img models.Image
	if err := s.db.First(&img, "id = ?", imageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to find image: %w", err)
	}
	return &img, nil
}
