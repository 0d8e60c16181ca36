package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	authDomain "github.com/siaa-labs/vault/internal/auth/domain"
	apperrors "github.com/siaa-labs/vault/internal/errors"
)

// sessionClaims is the JWT payload of a session token.
type sessionClaims struct {
	Namespaces []string `json:"namespaces"`
	jwt.RegisteredClaims
}

// sessionService implements SessionService using HS256-signed JWTs.
type sessionService struct {
	signingSecret []byte
	ttl           time.Duration
	now           func() time.Time
}

// NewSessionService creates a SessionService that signs tokens with the given
// secret and lifetime.
func NewSessionService(signingSecret string, ttl time.Duration) SessionService {
	return &sessionService{
		signingSecret: []byte(signingSecret),
		ttl:           ttl,
		now:           time.Now,
	}
}

// Issue signs a session token carrying the client identifier and its
// namespace grants.
func (s *sessionService) Issue(clientID string, namespaces []string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := sessionClaims{
		Namespaces: namespaces,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingSecret)
	if err != nil {
		return "", time.Time{}, apperrors.Wrap(err, "failed to sign session token")
	}

	return token, expiresAt, nil
}

// Verify parses and validates a session token.
//
// The signing method is pinned to HS256; tokens claiming any other algorithm
// are rejected. Expired tokens map to ErrTokenExpired, every other failure to
// ErrInvalidToken.
func (s *sessionService) Verify(tokenString string) (*authDomain.Principal, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return s.signingSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return nil, authDomain.ErrTokenExpired
		}
		return nil, authDomain.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, authDomain.ErrInvalidToken
	}

	return &authDomain.Principal{
		ClientID:   claims.Subject,
		Namespaces: claims.Namespaces,
	}, nil
}
