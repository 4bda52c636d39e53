package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"daily-vibes-backend/internal/apperrors"
	"daily-vibes-backend/internal/models"
	"daily-vibes-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	tokenExpDays      = 30
)

// UserService handles registration, login and profile edits
type UserService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, jwtSecret string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Identity is the authenticated caller extracted from a token
type Identity struct {
	Username string
	Admin    bool
}

// Register creates a new account and returns it with a signed token
func (s *UserService) Register(ctx context.Context, username, email, password, confirmPassword string) (*models.User, string, error) {
	if username == "" || email == "" || password == "" || confirmPassword == "" {
		return nil, "", fmt.Errorf("all fields are required: %w", apperrors.ErrValidation)
	}
	if password != confirmPassword {
		return nil, "", fmt.Errorf("passwords do not match: %w", apperrors.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, apperrors.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("invalid email address: %w", apperrors.ErrValidation)
	}

	taken, err := s.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", fmt.Errorf("username already taken: %w", apperrors.ErrConflict)
	}
	inUse, err := s.userRepo.EmailExists(ctx, email, username)
	if err != nil {
		return nil, "", err
	}
	if inUse {
		return nil, "", fmt.Errorf("email already registered: %w", apperrors.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Achievements: []string{},
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", fmt.Errorf("username and password required: %w", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthenticated)
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetProfile returns a user's account
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// UpdateProfileImage replaces the profile image reference
func (s *UserService) UpdateProfileImage(ctx context.Context, username string, image *string) (*models.User, error) {
	if err := s.userRepo.UpdateProfileImage(ctx, username, image); err != nil {
		return nil, err
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// UpdateEmail changes the email after re-verifying the password
func (s *UserService) UpdateEmail(ctx context.Context, username, newEmail, password string) (*models.User, error) {
	if newEmail == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", apperrors.ErrValidation)
	}
	if !strings.Contains(newEmail, "@") {
		return nil, fmt.Errorf("invalid email address: %w", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("wrong password: %w", apperrors.ErrUnauthenticated)
	}

	inUse, err := s.userRepo.EmailExists(ctx, newEmail, username)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, fmt.Errorf("email already in use: %w", apperrors.ErrConflict)
	}

	if err := s.userRepo.UpdateEmail(ctx, username, newEmail); err != nil {
		return nil, err
	}
	user.Email = newEmail
	return user, nil
}

// UpdatePassword changes the credential hash after verifying the old password
func (s *UserService) UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("old and new password required: %w", apperrors.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("wrong old password: %w", apperrors.ErrUnauthenticated)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePasswordHash(ctx, username, string(hash))
}

// UpdateMemoriesVisibility flips the public/private flag on the memory archive
func (s *UserService) UpdateMemoriesVisibility(ctx context.Context, username string, public bool) error {
	return s.userRepo.UpdateMemoriesVisibility(ctx, username, public)
}

// GenerateJWT generates a signed token for a user
func (s *UserService) GenerateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"admin":    user.IsAdmin,
		"exp":      time.Now().AddDate(0, 0, tokenExpDays).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateJWT validates a token and returns the caller's identity
func (s *UserService) ValidateJWT(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	username, ok := claims["username"].(string)
	if !ok {
		return nil, fmt.Errorf("username not found in token")
	}
	admin, _ := claims["admin"].(bool)

	return &Identity{Username: username, Admin: admin}, nil
}
