// internal/domain/admin/service.go
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spicebazaar/marketplace-backend/internal/config"
	"github.com/spicebazaar/marketplace-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for a bad email or password. The two
// cases are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrNotFound is returned when an admin user does not exist
var ErrNotFound = errors.New("admin user not found")

// Service handles admin authentication and account management
type Service struct {
	db              *gorm.DB
	config          *config.Config
	jwtManager      *auth.JWTManager
	passwordManager *auth.PasswordManager
}

// NewService creates a new admin service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		jwtManager:      auth.NewJWTManager(cfg),
		passwordManager: auth.NewPasswordManager(cfg),
	}
}

// LoginRequest represents admin login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session tokens for an authenticated admin
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// CreateRequest represents admin account creation data
type CreateRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// ChangePasswordRequest represents a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// Login authenticates an admin and issues session tokens
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var u User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	result := s.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin: %w", result.Error)
	}

	if err := s.passwordManager.VerifyPassword(req.Password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	s.db.WithContext(ctx).Model(&u).Update("last_login_at", now)
	u.LastLoginAt = &now

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         &u,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	u, err := s.Get(ctx, claims.AdminID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	newRefreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         u,
	}, nil
}

// Get retrieves an admin user by ID
func (s *Service) Get(ctx context.Context, id uint) (*User, error) {
	var u User
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve admin: %w", result.Error)
	}
	return &u, nil
}

// Create creates a new admin account
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing User
	if result := s.db.WithContext(ctx).Where("email = ?", email).First(&existing); result.Error == nil {
		return nil, fmt.Errorf("admin with email %s already exists", email)
	}

	hash, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return &u, nil
}

// ChangePassword updates an admin's password after verifying the current one
func (s *Service) ChangePassword(ctx context.Context, adminID uint, req *ChangePasswordRequest) error {
	u, err := s.Get(ctx, adminID)
	if err != nil {
		return err
	}

	if err := s.passwordManager.VerifyPassword(req.CurrentPassword, u.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := s.passwordManager.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(u).Update("password_hash", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ValidateAccessToken parses and validates an admin access token
func (s *Service) ValidateAccessToken(tokenString string) (*auth.Claims, error) {
	return s.jwtManager.ValidateAccessToken(tokenString)
}
