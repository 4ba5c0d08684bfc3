package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "teamdesk/internal/errors"
	"teamdesk/internal/model"
)

// DefaultSessionTTL is how long a session token stays valid. There is no
// refresh; an expired session requires a new login.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims represents JWT claims.
type Claims struct {
	ID   string     `json:"id"`
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Session is the verified identity behind a token.
type Session struct {
	UserID uuid.UUID
	Role   model.Role
}

// JWTService issues and verifies session tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a JWTService.
type Option func(*JWTService)

// WithTTL overrides DefaultSessionTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *JWTService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock sets the clock used to stamp issued tokens.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string, opts ...Option) *JWTService {
	s := &JWTService{
		secret: []byte(secret),
		ttl:    DefaultSessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue generates a signed session token for the user.
func (s *JWTService) Issue(userID uuid.UUID, role model.Role) (string, error) {
	now := s.now()
	claims := &Claims{
		ID:   userID.String(),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a session token and returns the identity it carries.
// Every failure is reported as ErrUnauthorized.
func (s *JWTService) Verify(tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, apperrors.ErrUnauthorized
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.ErrUnauthorized.Wrap(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	if claims.ExpiresAt == nil {
		return nil, apperrors.ErrUnauthorized.Wrap(errors.New("token has no expiry"))
	}

	userID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized.Wrap(err)
	}
	return &Session{UserID: userID, Role: claims.Role}, nil
}
