package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/todo-api/internal/constants"
	"github.com/yukikurage/todo-api/internal/models"
	"github.com/yukikurage/todo-api/internal/password"
	"github.com/yukikurage/todo-api/internal/repository"
	"github.com/yukikurage/todo-api/internal/token"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already registered")
	ErrEmailRequired        = errors.New("email is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, login and token-based identification.
// It owns the upgrade-on-login policy: a credential stored under the legacy
// scheme (or under stale current-scheme parameters) is re-hashed with the
// current scheme the first time the correct plaintext is presented.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   *password.Hasher
	tokens   *token.Manager
	tokenTTL time.Duration
}

// NewAuthService creates a new AuthService. tokenTTL is the application
// default lifetime for issued access tokens.
func NewAuthService(userRepo repository.UserRepository, hasher *password.Hasher, tokens *token.Manager, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	Password string
}

// Register creates a new active user with a current-scheme password hash.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the issued access token and the authenticated user.
type LoginResult struct {
	AccessToken string
	User        *models.User
}

// Login verifies credentials, migrates the stored hash when due, and issues
// an access token bound to the user's email. An unknown email and a wrong
// password produce the same error so callers cannot enumerate accounts; the
// inactive check runs only after a successful password match for the same
// reason.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	valid, needsRehash := s.hasher.Verify(input.Password, user.PasswordHash)
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if needsRehash {
		newHash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		if err := s.userRepo.UpdatePasswordHash(user.ID, newHash); err != nil {
			return nil, fmt.Errorf("failed to migrate password hash: %w", err)
		}
		user.PasswordHash = newHash
	}

	accessToken, err := s.tokens.Issue(user.Email, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{AccessToken: accessToken, User: user}, nil
}

// Identify resolves a bearer token to its user record.
func (s *AuthService) Identify(tokenString string) (*models.User, error) {
	subject, ok := s.tokens.Verify(tokenString)
	if !ok {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByEmail(subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return user, nil
}
