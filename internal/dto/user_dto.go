package dto

import (
	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest carries optional fields; only supplied ones are
// re-validated and written.
type UpdateUserRequest struct {
	Username    *string `json:"username"`
	Password    *string `json:"password"`
	AutoApprove *bool   `json:"auto_approve"`
}

type ProfileResponse struct {
	ID          uuid.UUID          `json:"id"`
	Username    string             `json:"username"`
	AutoApprove bool               `json:"auto_approve"`
	Following   []models.Following `json:"following"`
	Followers   []models.Follower  `json:"followers"`
	ReportCount int64              `json:"report_count"`
}
