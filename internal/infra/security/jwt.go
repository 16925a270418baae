package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken indicates the token failed signature or claim validation.
	ErrInvalidToken = errors.New("jwt: invalid token")
	// ErrExpiredToken indicates a well-formed token whose expiry has passed.
	ErrExpiredToken = errors.New("jwt: token expired")
)

const defaultAccessTokenTTL = 24 * time.Hour

// AccessTokenClaims carries the authenticated identity inside an access token.
// Role is empty on tokens issued at registration time, before the caller has
// logged in.
type AccessTokenClaims struct {
	UserID string `json:"uid"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HMAC-SHA256 access tokens with a shared
// server-held secret.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenIssuerOption customizes a TokenIssuer.
type TokenIssuerOption func(*TokenIssuer)

// WithClock overrides the issuer clock, for tests.
func WithClock(now func() time.Time) TokenIssuerOption {
	return func(t *TokenIssuer) {
		t.now = now
	}
}

// NewTokenIssuer constructs a TokenIssuer. TTL defaults to 24 hours when
// non-positive.
func NewTokenIssuer(secret, issuer string, ttl time.Duration, opts ...TokenIssuerOption) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("jwt: signing secret is required")
	}
	if ttl <= 0 {
		ttl = defaultAccessTokenTTL
	}

	t := &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// TTL reports the lifetime applied to issued tokens.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue signs an access token for the given user. Role may be empty.
func (t *TokenIssuer) Issue(userID, role string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", fmt.Errorf("jwt: user id is required")
	}

	now := t.now().UTC()
	claims := &AccessTokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a signed token, returning its claims.
// Expired tokens are reported as ErrExpiredToken; every other failure mode
// collapses into ErrInvalidToken so callers cannot leak parse details.
func (t *TokenIssuer) Verify(signed string) (*AccessTokenClaims, error) {
	claims := &AccessTokenClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return t.now().UTC() }),
		jwt.WithExpirationRequired(),
	)

	_, err := parser.ParseWithClaims(signed, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
