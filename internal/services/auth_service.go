package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/ndemidov/campusforum/internal/auth"
	"github.com/ndemidov/campusforum/internal/models"
	"github.com/ndemidov/campusforum/pkg/crypto"
	apperrors "github.com/ndemidov/campusforum/pkg/errors"
)

// DefaultAllowedEmailDomain gates registration to institutional addresses.
const DefaultAllowedEmailDomain = "@edu.hse.ru"

var (
	// ErrEmailDomainNotAllowed rejects registrations outside the institutional domain.
	ErrEmailDomainNotAllowed = apperrors.New("INVALID_EMAIL_DOMAIN", "Email domain is not allowed for registration", http.StatusBadRequest)
	// ErrEmailAlreadyRegistered rejects duplicate registrations.
	ErrEmailAlreadyRegistered = apperrors.New("EMAIL_ALREADY_REGISTERED", "Email already registered", http.StatusConflict)
)

// TokenPair is the login result: a bearer token and its type marker.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService implements registration and credential verification. Login
// failures are deliberately indistinguishable: a missing user and a wrong
// password both surface as ErrInvalidCredentials.
type AuthService struct {
	db            *gorm.DB
	tokens        *auth.TokenService
	allowedDomain string
}

// NewAuthService constructs an AuthService. An empty allowedDomain falls
// back to the institutional default.
func NewAuthService(db *gorm.DB, tokens *auth.TokenService, allowedDomain string) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if tokens == nil {
		return nil, errors.New("auth service: token service is required")
	}

	domain := strings.ToLower(strings.TrimSpace(allowedDomain))
	if domain == "" {
		domain = DefaultAllowedEmailDomain
	}

	return &AuthService{db: db, tokens: tokens, allowedDomain: domain}, nil
}

// Register creates a user with a bcrypt-hashed password. The verification
// flag starts false and is not read anywhere yet. No password-strength
// policy is applied.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if password == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}

	if !strings.HasSuffix(email, s.allowedDomain) {
		return nil, ErrEmailDomainNotAllowed
	}

	var existing models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&existing).Error
	if err == nil {
		return nil, ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("auth service: query user: %w", err)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		IsVerified:   false,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// The unique index is the authority; a concurrent insert between the
		// pre-check and here still maps to the duplicate error.
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("auth service: create user: %w", err)
	}

	return user, nil
}

// Login verifies credentials and issues a bearer token bound to the email.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: query user: %w", err)
	}

	if !crypto.VerifyPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	return &TokenPair{AccessToken: token, TokenType: "bearer"}, nil
}

// AllowedDomain reports the configured institutional suffix.
func (s *AuthService) AllowedDomain() string {
	return s.allowedDomain
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
