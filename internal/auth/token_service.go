package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the fallback validity window for issued tokens.
const DefaultAccessTokenTTL = 60 * time.Minute

// TokenConfig bundles the configuration required to build a TokenService.
// The secret is process-wide state loaded once at startup; it never comes
// from request input.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
	Clock  func() time.Time
}

// TokenService issues and validates the signed bearer tokens that stand in
// for sessions. Tokens are never persisted: validity is determined entirely
// by signature and expiry at presentation time.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService constructs a TokenService from the supplied configuration.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: secret must be provided")
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &TokenService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    now,
	}, nil
}

// Issue signs an HS256 token asserting the subject email until now+TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	if subject == "" {
		return "", errors.New("token: subject is required")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    s.issuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}

	return signed, nil
}

// Validate parses a signed token and returns its subject. It rejects
// non-HMAC signing methods, bad signatures, expired tokens, and tokens
// without a subject claim. Callers collapse every failure into a single
// unauthorized outcome so the reason is never observable externally.
func (s *TokenService) Validate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("token: empty token string")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	var claims jwt.RegisteredClaims
	if _, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}); err != nil {
		return "", fmt.Errorf("token: parse: %w", err)
	}

	if s.issuer != "" && claims.Issuer != s.issuer {
		return "", errors.New("token: invalid issuer")
	}

	if claims.Subject == "" {
		return "", errors.New("token: missing subject claim")
	}

	return claims.Subject, nil
}

// TTL reports the configured validity window.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
