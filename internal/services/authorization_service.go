package services

import (
	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/google/uuid"
)

// AuthorizationService derives the set of authors whose reports a viewer may
// read. It never mutates anything; all id comparisons are by value.
type AuthorizationService struct{}

func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// AllAuthorized returns the viewer's own id plus every id the viewer follows.
// The far side's approved/blocked status is deliberately not consulted:
// approval gates whether a follower may read the *viewer's* reports, not
// whether the viewer may read outward.
//
// With a non-empty shortList the result is the intersection of the short list
// with the authorized set. Unauthorized ids are dropped silently so the
// endpoint cannot be used to probe which ids exist.
func (s *AuthorizationService) AllAuthorized(viewer *models.User, shortList []uuid.UUID) []uuid.UUID {
	authorized := make(map[uuid.UUID]struct{}, len(viewer.Following)+1)
	authorized[viewer.ID] = struct{}{}
	for _, f := range viewer.Following {
		authorized[f.ID] = struct{}{}
	}

	if len(shortList) == 0 {
		out := make([]uuid.UUID, 0, len(authorized))
		out = append(out, viewer.ID)
		for _, f := range viewer.Following {
			if f.ID != viewer.ID {
				out = append(out, f.ID)
			}
		}
		return out
	}

	out := make([]uuid.UUID, 0, len(shortList))
	seen := make(map[uuid.UUID]struct{}, len(shortList))
	for _, id := range shortList {
		if _, ok := authorized[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
