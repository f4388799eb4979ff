package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ndemidov/campusforum/internal/models"
)

// ErrUnauthorized is returned for every token that cannot be resolved to a
// user, regardless of which check rejected it.
var ErrUnauthorized = errors.New("auth: unauthorized")

// SessionResolver maps bearer tokens to user records. Validating the token
// is not enough on its own: a structurally valid token whose subject no
// longer has a user record must be rejected too.
type SessionResolver struct {
	db     *gorm.DB
	tokens *TokenService
}

// NewSessionResolver constructs a resolver over the given store and token service.
func NewSessionResolver(db *gorm.DB, tokens *TokenService) (*SessionResolver, error) {
	if db == nil {
		return nil, errors.New("session resolver: db is required")
	}
	if tokens == nil {
		return nil, errors.New("session resolver: token service is required")
	}
	return &SessionResolver{db: db, tokens: tokens}, nil
}

// Resolve validates the token and loads the subject's user record.
func (r *SessionResolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	subject, err := r.tokens.Validate(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	var user models.User
	err = r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(subject))).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("session resolver: query user: %w", err)
	}

	return &user, nil
}
