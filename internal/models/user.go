package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FollowStatus is the per-edge state a user keeps about one of their followers.
// Active=false marks a soft-removed edge: the record is kept for history and
// re-follow, never physically deleted.
type FollowStatus struct {
	Active   bool `json:"active"`
	Approved bool `json:"approved"`
	Blocked  bool `json:"blocked"`
}

// Follower is one entry in a user's followers list.
type Follower struct {
	ID     uuid.UUID    `json:"id"`
	Status FollowStatus `json:"status"`
}

// Following is one entry in a user's following list. Unlike follower entries
// it carries no status and is hard-removed on unfollow.
type Following struct {
	ID uuid.UUID `json:"id"`
}

// User is an identity plus its side of the social graph. The followers and
// following lists are stored as JSONB on the user row: a follow edge is
// written twice, once on each endpoint, and the version column guards the
// read-modify-write of either list against concurrent mutation.
type User struct {
	ID          uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	Username    string                         `gorm:"size:20;not null;uniqueIndex" json:"username"`
	Password    string                         `gorm:"not null" json:"-"`
	AutoApprove bool                           `gorm:"default:false" json:"auto_approve"`
	Followers   datatypes.JSONSlice[Follower]  `json:"followers"`
	Following   datatypes.JSONSlice[Following] `json:"following"`
	Latest      time.Time                      `json:"latest"`
	Version     int64                          `gorm:"not null;default:0" json:"-"`
	CreatedAt   time.Time                      `json:"created_at"`
	UpdatedAt   time.Time                      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt                 `gorm:"index" json:"-"`
}

// IndexOfFollower returns the position of id in the followers list, or -1.
// Ids are compared by value; entries match regardless of status, so a
// soft-removed follower is still found.
func IndexOfFollower(followers []Follower, id uuid.UUID) int {
	for i, f := range followers {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// IndexOfFollowing returns the position of id in the following list, or -1.
func IndexOfFollowing(following []Following, id uuid.UUID) int {
	for i, f := range following {
		if f.ID == id {
			return i
		}
	}
	return -1
}
