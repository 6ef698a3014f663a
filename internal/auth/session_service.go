package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID int64 `json:"uid"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("expired session")
)

// SessionService issues and checks the signed session cookie value.
// The JWT proves who issued it; the store entry keyed by its jti lets
// logout revoke it before it expires.
type SessionService interface {
	Create(ctx context.Context, userID int64) (token string, expiresAt time.Time, err error)
	Resolve(ctx context.Context, token string) (int64, error)
	Revoke(ctx context.Context, token string) error
	TTL() time.Duration
}

type sessionService struct {
	secret []byte
	ttl    time.Duration
	store  SessionStore
	now    func() time.Time
}

func NewSessionService(secret string, ttl time.Duration, store SessionStore) SessionService {
	return &sessionService{
		secret: []byte(secret),
		ttl:    ttl,
		store:  store,
		now:    time.Now,
	}
}

func (s *sessionService) TTL() time.Duration {
	return s.ttl
}

func (s *sessionService) Create(ctx context.Context, userID int64) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	jti := uuid.NewString()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	if err := s.store.Save(ctx, jti, userID, s.ttl); err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

func (s *sessionService) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.ID == "" {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

func (s *sessionService) Resolve(ctx context.Context, tokenStr string) (int64, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return 0, err
	}

	userID, err := s.store.Lookup(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			// revoked by logout or evicted by TTL
			return 0, ErrInvalidSession
		}
		return 0, err
	}
	if userID != claims.UserID {
		return 0, ErrInvalidSession
	}

	return userID, nil
}

func (s *sessionService) Revoke(ctx context.Context, tokenStr string) error {
	claims, err := s.parse(tokenStr)
	if err != nil {
		// nothing to revoke
		return nil
	}
	return s.store.Delete(ctx, claims.ID)
}
