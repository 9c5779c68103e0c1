package session

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

func testHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	token, expiresAt, err := store.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := uuid.Parse(token); err != nil {
		t.Errorf("Expected a UUID token, got %q", token)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("Expected expiry in the future")
	}

	if ok, _ := store.Validate(ctx, token); !ok {
		t.Error("Expected issued token to validate")
	}
	if ok, _ := store.Validate(ctx, "unknown"); ok {
		t.Error("Expected unknown token to be rejected")
	}

	if err := store.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if ok, _ := store.Validate(ctx, token); ok {
		t.Error("Expected revoked token to be rejected")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	token, _, _ := store.Issue(ctx)
	now = now.Add(2 * time.Minute)

	if ok, _ := store.Validate(ctx, token); ok {
		t.Error("Expected expired token to be rejected")
	}

	store.cleanup()
	store.mu.RLock()
	remaining := len(store.tokens)
	store.mu.RUnlock()
	if remaining != 0 {
		t.Errorf("Expected cleanup to evict expired tokens, %d left", remaining)
	}
}

func TestAuthenticatorLogin(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	auth := NewAuthenticator(testHash(t, "s3cret"), store)

	if _, _, err := auth.Login(ctx, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}

	token, _, err := auth.Login(ctx, "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if ok, _ := auth.Authorized(ctx, token); !ok {
		t.Error("Expected token to be authorized")
	}
	if ok, _ := auth.Authorized(ctx, ""); ok {
		t.Error("Expected empty token to be rejected")
	}

	if err := auth.Logout(ctx, token); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if ok, _ := auth.Authorized(ctx, token); ok {
		t.Error("Expected token to be rejected after logout")
	}
}

func TestAuthenticatorDisabled(t *testing.T) {
	auth := NewAuthenticator("", NewMemoryStore(time.Hour))
	if _, _, err := auth.Login(context.Background(), "anything"); !errors.Is(err, ErrAdminDisabled) {
		t.Errorf("Expected ErrAdminDisabled, got %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")) != nil {
		t.Error("Expected hash to match password")
	}
}

// Runs against a real server when SITEAUDIT_TEST_REDIS_URL is set
func TestRedisStore(t *testing.T) {
	redisURL := os.Getenv("SITEAUDIT_TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("SITEAUDIT_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatal(err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	ctx := context.Background()
	store := NewRedisStore(client, "siteaudit-test:"+uuid.NewString()+":", time.Minute)

	token, _, err := store.Issue(ctx)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if ok, err := store.Validate(ctx, token); err != nil || !ok {
		t.Errorf("Expected token to validate, got %v %v", ok, err)
	}
	if err := store.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if ok, _ := store.Validate(ctx, token); ok {
		t.Error("Expected revoked token to be rejected")
	}
}
