package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/daybook-app/daybook-backend/internal/config"
	"github.com/daybook-app/daybook-backend/internal/dto"
	"github.com/daybook-app/daybook-backend/internal/models"
	"github.com/daybook-app/daybook-backend/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
)

// AuthService resolves wire credentials to users: username/password login,
// JWT access tokens and rotating hashed refresh tokens.
type AuthService struct {
	db    *gorm.DB
	cfg   *config.Config
	users *UserService
	blobs storage.BlobStore
}

func NewAuthService(db *gorm.DB, cfg *config.Config, users *UserService, blobs storage.BlobStore) *AuthService {
	return &AuthService{db: db, cfg: cfg, users: users, blobs: blobs}
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByUsername(req.Username)
	if err != nil {
		// Unknown user and bad password are indistinguishable on the wire.
		return nil, ErrInvalidCredentials
	}

	if !s.users.VerifyPassword(user, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(user)
}

func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&stored).Error; err != nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		s.db.Model(&stored).Update("revoked", true)
		return nil, ErrInvalidToken
	}

	s.db.Model(&stored).Update("revoked", true)

	user, err := s.users.FindByID(stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokenPair(user)
}

func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	tokenHash := hashToken(req.RefreshToken)
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// DeleteAccount removes the user and everything they own. Blobs are deleted
// best-effort after the transaction commits; an orphaned blob is preferable
// to a dangling metadata row.
func (s *AuthService) DeleteAccount(userID uuid.UUID, password string) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}

	if password == "" {
		return ErrInvalidCredentials
	}
	if !s.users.VerifyPassword(user, password) {
		return ErrInvalidCredentials
	}

	var images []models.Image
	if err := s.db.Where("user_id = ?", userID).Find(&images).Error; err != nil {
		return fmt.Errorf("failed to list images: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{})
		tx.Where("user_id = ?", userID).Delete(&models.Image{})
		tx.Where("user_id = ?", userID).Delete(&models.Report{})
		return tx.Delete(user).Error
	})
	if err != nil {
		return err
	}

	if s.blobs != nil {
		for _, img := range images {
			if err := s.blobs.Delete(context.Background(), img.StorageKey); err != nil && !errors.Is(err, storage.ErrBlobNotFound) {
				slog.Error("failed to delete blob during account removal",
					"user_id", userID.String(), "key", img.StorageKey, "error", err)
			}
		}
	}

	return nil
}

func (s *AuthService) generateTokenPair(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User: dto.UserResponse{
			ID:          user.ID,
			Username:    user.Username,
			AutoApprove: user.AutoApprove,
		},
	}, nil
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.db.Create(&record).Error; err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}
