package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[string]int64
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]int64{}}
}

func (m *memStore) Save(_ context.Context, id string, userID int64, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = userID
	return nil
}

func (m *memStore) Lookup(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.sessions[id]
	if !ok {
		return 0, ErrSessionNotFound
	}
	return userID, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func TestSessionRoundTrip(t *testing.T) {
	store := newMemStore()
	svc := NewSessionService("test-secret", time.Hour, store)
	ctx := context.Background()

	token, expiresAt, err := svc.Create(ctx, 42)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expiry in the past: %s", expiresAt)
	}
	if len(store.sessions) != 1 {
		t.Fatalf("expected one stored session, got %d", len(store.sessions))
	}

	userID, err := svc.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}
}

func TestSessionRevoke(t *testing.T) {
	store := newMemStore()
	svc := NewSessionService("test-secret", time.Hour, store)
	ctx := context.Background()

	token, _, err := svc.Create(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := svc.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession after revoke, got %v", err)
	}
	if err := svc.Revoke(ctx, "garbage"); err != nil {
		t.Fatalf("revoking a garbage token should be a no-op, got %v", err)
	}
}

func TestSessionRejectsForeignSignature(t *testing.T) {
	store := newMemStore()
	issuer := NewSessionService("secret-a", time.Hour, store)
	verifier := NewSessionService("secret-b", time.Hour, store)
	ctx := context.Background()

	token, _, err := issuer.Create(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := verifier.Resolve(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestSessionExpired(t *testing.T) {
	store := newMemStore()
	svc := NewSessionService("test-secret", time.Minute, store).(*sessionService)
	ctx := context.Background()

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.Create(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}

	svc.now = time.Now
	if _, err := svc.Resolve(ctx, token); !errors.Is(err, ErrExpiredSession) {
		t.Fatalf("expected ErrExpiredSession, got %v", err)
	}
}
