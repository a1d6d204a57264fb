package services

import (
	"fmt"
	"time"

	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// DefaultPageSize is used when a page request supplies no size.
	DefaultPageSize = 100
	// MaxTimelineResults bounds every timeline response.
	MaxTimelineResults = 5000
)

// TimelineService retrieves reports for an already-resolved authorized author
// set. Every query filters on that set; an empty set returns nothing rather
// than everything.
type TimelineService struct {
	db *gorm.DB
}

func NewTimelineService(db *gorm.DB) *TimelineService {
	return &TimelineService{db: db}
}

// ByPage returns up to pageSize reports created at or before the given
// instant, newest creation first.
func (s *TimelineService) ByPage(authorizedIDs []uuid.UUID, before time.Time, pageSize int) ([]models.Report, error) {
	if len(authorizedIDs) == 0 {
		return []models.Report{}, nil
	}
	if before.IsZero() {
		before = time.Now()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxTimelineResults {
		pageSize = MaxTimelineResults
	}

	var reports []models.Report
	err := s.db.
		Where("user_id IN ?", authorizedIDs).
		Where("created_at <= ?", before).
		Order("created_at DESC").
		Limit(pageSize).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline page: %w", err)
	}
	return reports, nil
}

// ByDateRange returns reports whose report date lies in [from, to], newest
// report date first, capped at MaxTimelineResults.
func (s *TimelineService) ByDateRange(authorizedIDs []uuid.UUID, from, to time.Time) ([]models.Report, error) {
	if len(authorizedIDs) == 0 {
		return []models.Report{}, nil
	}

	var reports []models.Report
	err := s.db.
		Where("user_id IN ?", authorizedIDs).
		Where("date >= ? AND date <= ?", from, to).
		Order("date DESC").
		Limit(MaxTimelineResults).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline range: %w", err)
	}
	return reports, nil
}

// Own pages one user's report history by report date descending.
func (s *TimelineService) Own(ownerID uuid.UUID, skip, limit int) ([]models.Report, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > MaxTimelineResults {
		limit = MaxTimelineResults
	}

	var reports []models.Report
	err := s.db.
		Where("user_id = ?", ownerID).
		Order("date DESC").
		Offset(skip).
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query own reports: %w", err)
	}
	return reports, nil
}
