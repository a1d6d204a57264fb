package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/daybook-app/daybook-backend/internal/dto"
	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameInvalid = errors.New("username does not meet minimum standards")
	ErrPasswordInvalid = errors.New("password does not meet minimum standards")
	ErrUsernameTaken   = errors.New("username not unique")
	ErrUserNotFound    = errors.New("user not found")
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,20}$`)
	passwordPattern = regexp.MustCompile(`^\S{6,20}$`)
)

// UserService is the identity store: credentials, validation and the latest
// activity timestamp. Relationship mutations live in RelationshipService.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a user from a username and plaintext password. The
// plaintext is hashed before it touches the database and is never logged.
func (s *UserService) Register(username, password string) (*models.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	if !passwordPattern.MatchString(password) {
		return nil, ErrPasswordInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Username: username,
		Password: string(hash),
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The unique index is the source of truth for uniqueness; a
		// pre-check would still race with concurrent registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// VerifyPassword reports whether candidate matches the stored hash. It has no
// side effects; bcrypt performs the constant-time comparison.
func (s *UserService) VerifyPassword(user *models.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// Update re-validates whichever fields are supplied and re-hashes the
// password only when it changes.
func (s *UserService) Update(userID uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.FindByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Username != nil {
		if !usernamePattern.MatchString(*req.Username) {
			return nil, ErrUsernameInvalid
		}
		updates["username"] = *req.Username
	}

	if req.Password != nil {
		if !passwordPattern.MatchString(*req.Password) {
			return nil, ErrPasswordInvalid
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password"] = string(hash)
	}

	if req.AutoApprove != nil {
		updates["auto_approve"] = *req.AutoApprove
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *UserService) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *UserService) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// RecordActivity stamps latest so feed consumers can detect new activity
// without scanning reports. Single-column update, no document overwrite.
func (s *UserService) RecordActivity(userID uuid.UUID) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("latest", time.Now().UTC()).Error
}
