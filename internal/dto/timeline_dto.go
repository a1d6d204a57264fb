package dto

import (
	"time"

	"github.com/google/uuid"
)

// TimelinePageRequest pages the timeline backwards from Before by creation
// time. ShortList optionally narrows the result to specific authors; ids the
// viewer is not authorized for are dropped silently.
type TimelinePageRequest struct {
	Before    *time.Time  `json:"before"`
	PageSize  int         `json:"page_size"`
	ShortList []uuid.UUID `json:"short_list"`
}

// TimelineRangeRequest selects reports whose report date falls inside
// [From, To], newest first.
type TimelineRangeRequest struct {
	From      time.Time   `json:"from"`
	To        time.Time   `json:"to"`
	ShortList []uuid.UUID `json:"short_list"`
}
