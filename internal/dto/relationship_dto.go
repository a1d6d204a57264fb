package dto

import "github.com/google/uuid"

// FollowerStatusRequest updates a single follower entry. Both fields are
// optional but at least one must be present.
type FollowerStatusRequest struct {
	Approved *bool `json:"approved"`
	Blocked  *bool `json:"blocked"`
}

// FollowerStatusResponse hides the internal active flag from the wire.
type FollowerStatusResponse struct {
	Approved bool `json:"approved"`
	Blocked  bool `json:"blocked"`
}

type FollowerResponse struct {
	ID       uuid.UUID              `json:"id"`
	Username string                 `json:"username"`
	Status   FollowerStatusResponse `json:"status"`
}

type FollowingResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type FollowResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}
