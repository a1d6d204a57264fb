package services

import (
	"errors"
	"fmt"

	"github.com/daybook-app/daybook-backend/internal/dto"
	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFollowing     = errors.New("not following user")
	ErrNotKnown         = errors.New("user no longer exists")
	ErrNotFollower      = errors.New("no such follower")
	ErrNoData           = errors.New("no follower status supplied")
	ErrConcurrentUpdate = errors.New("concurrent update conflict")
)

// Attempts per list write before giving up on a version conflict. Each retry
// reloads the row, so a conflict only recurs under sustained contention.
const maxWriteAttempts = 3

// RelationshipService mutates the social graph. A follow edge is recorded on
// both endpoints (target.followers and self.following); each public operation
// orders its two writes so that an interrupted call never leaves a following
// entry without a matching follower record. Every step is idempotent and safe
// to retry.
type RelationshipService struct {
	db    *gorm.DB
	users *UserService
}

func NewRelationshipService(db *gorm.DB, users *UserService) *RelationshipService {
	return &RelationshipService{db: db, users: users}
}

// AddFollowing makes self a follower of the user named targetUsername and
// returns the target. Re-following is a no-op; following someone who
// soft-removed you before reactivates the retained follower entry.
//
// Write order matters: the follower entry lands on the target first, and self
// is only touched after that write commits. If the first write fails, no
// partial state escapes.
func (s *RelationshipService) AddFollowing(selfID uuid.UUID, targetUsername string) (*models.User, error) {
	target, err := s.users.FindByUsername(targetUsername)
	if err != nil {
		return nil, err
	}

	self, err := s.users.FindByID(selfID)
	if err != nil {
		return nil, err
	}

	if models.IndexOfFollowing(self.Following, target.ID) >= 0 {
		return target, nil
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		followers := append([]models.Follower(nil), target.Followers...)
		if i := models.IndexOfFollower(followers, selfID); i >= 0 {
			if followers[i].Status.Active {
				err = nil // already recorded, e.g. a retried earlier call
				break
			}
			followers[i].Status.Active = true
		} else {
			followers = append(followers, models.Follower{
				ID: selfID,
				Status: models.FollowStatus{
					Active:   true,
					Approved: target.AutoApprove,
					Blocked:  false,
				},
			})
		}

		err = s.saveFollowers(target, followers)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrConcurrentUpdate) {
			return nil, err
		}
		if target, err = s.users.FindByID(target.ID); err != nil {
			return nil, err
		}
	}
	if errors.Is(err, ErrConcurrentUpdate) {
		return nil, err
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		if models.IndexOfFollowing(self.Following, target.ID) >= 0 {
			return target, nil
		}
		following := append([]models.Following(nil), self.Following...)
		following = append(following, models.Following{ID: target.ID})

		err = s.saveFollowing(self, following)
		if err == nil {
			return target, nil
		}
		if !errors.Is(err, ErrConcurrentUpdate) {
			return nil, err
		}
		if self, err = s.users.FindByID(selfID); err != nil {
			return nil, err
		}
	}
	return nil, err
}

// RemoveFollowing hard-removes target from self.following, then soft-removes
// the matching follower entry on the target (active=false, record retained).
// Self is persisted first: a crash in between leaves only a dormant follower
// record, which AddFollowing reactivates rather than duplicates.
func (s *RelationshipService) RemoveFollowing(selfID, targetID uuid.UUID) error {
	self, err := s.users.FindByID(selfID)
	if err != nil {
		return err
	}

	if models.IndexOfFollowing(self.Following, targetID) < 0 {
		return ErrNotFollowing
	}

	target, err := s.users.FindByID(targetID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrNotKnown
		}
		return err
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		idx := models.IndexOfFollowing(self.Following, targetID)
		if idx < 0 {
			err = nil // another caller already removed it
			break
		}
		following := append([]models.Following(nil), self.Following[:idx]...)
		following = append(following, self.Following[idx+1:]...)

		err = s.saveFollowing(self, following)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrConcurrentUpdate) {
			return err
		}
		if self, err = s.users.FindByID(selfID); err != nil {
			return err
		}
	}
	if errors.Is(err, ErrConcurrentUpdate) {
		return err
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		idx := models.IndexOfFollower(target.Followers, selfID)
		if idx < 0 || !target.Followers[idx].Status.Active {
			return nil
		}
		followers := append([]models.Follower(nil), target.Followers...)
		followers[idx].Status.Active = false

		err = s.saveFollowers(target, followers)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConcurrentUpdate) {
			return err
		}
		if target, err = s.users.FindByID(targetID); err != nil {
			return err
		}
	}
	return err
}

// UpdateFollowerStatus sets approved and/or blocked on one of self's follower
// entries. At least one field must be supplied; untouched fields and list
// order are preserved.
func (s *RelationshipService) UpdateFollowerStatus(selfID, followerID uuid.UUID, req *dto.FollowerStatusRequest) error {
	if req == nil || (req.Approved == nil && req.Blocked == nil) {
		return ErrNoData
	}

	self, err := s.users.FindByID(selfID)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		idx := models.IndexOfFollower(self.Followers, followerID)
		if idx < 0 {
			return ErrNotFollower
		}

		followers := append([]models.Follower(nil), self.Followers...)
		if req.Approved != nil {
			followers[idx].Status.Approved = *req.Approved
		}
		if req.Blocked != nil {
			followers[idx].Status.Blocked = *req.Blocked
		}

		err = s.saveFollowers(self, followers)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrConcurrentUpdate) {
			return err
		}
		if self, err = s.users.FindByID(selfID); err != nil {
			return err
		}
	}
	return err
}

// Followers returns self's follower list with usernames resolved and the
// internal active flag stripped. Soft-removed entries are hidden.
func (s *RelationshipService) Followers(self *models.User) ([]dto.FollowerResponse, error) {
	active := make([]models.Follower, 0, len(self.Followers))
	ids := make([]uuid.UUID, 0, len(self.Followers))
	for _, f := range self.Followers {
		if f.Status.Active {
			active = append(active, f)
			ids = append(ids, f.ID)
		}
	}

	names, err := s.usernames(ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FollowerResponse, 0, len(active))
	for _, f := range active {
		out = append(out, dto.FollowerResponse{
			ID:       f.ID,
			Username: names[f.ID],
			Status: dto.FollowerStatusResponse{
				Approved: f.Status.Approved,
				Blocked:  f.Status.Blocked,
			},
		})
	}
	return out, nil
}

// Following returns the users self follows, with usernames resolved.
func (s *RelationshipService) Following(self *models.User) ([]dto.FollowingResponse, error) {
	ids := make([]uuid.UUID, 0, len(self.Following))
	for _, f := range self.Following {
		ids = append(ids, f.ID)
	}

	names, err := s.usernames(ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.FollowingResponse, 0, len(self.Following))
	for _, f := range self.Following {
		out = append(out, dto.FollowingResponse{ID: f.ID, Username: names[f.ID]})
	}
	return out, nil
}

func (s *RelationshipService) usernames(ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []models.User
	if err := s.db.Select("id", "username").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve usernames: %w", err)
	}
	for _, u := range rows {
		names[u.ID] = u.Username
	}
	return names, nil
}

// saveFollowers writes the followers list as a targeted two-column update
// guarded by the row version. The full row is never overwritten, so a
// concurrent writer of an unrelated column cannot be clobbered.
func (s *RelationshipService) saveFollowers(u *models.User, followers []models.Follower) error {
	res := s.db.Model(&models.User{}).
		Where("id = ? AND version = ?", u.ID, u.Version).
		Updates(map[string]interface{}{
			"followers": datatypes.NewJSONSlice(followers),
			"version":   u.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to save followers: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	u.Followers = followers
	u.Version++
	return nil
}

func (s *RelationshipService) saveFollowing(u *models.User, following []models.Following) error {
	res := s.db.Model(&models.User{}).
		Where("id = ? AND version = ?", u.ID, u.Version).
		Updates(map[string]interface{}{
			"following": datatypes.NewJSONSlice(following),
			"version":   u.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to save following: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentUpdate
	}
	u.Following = following
	u.Version++
	return nil
}
