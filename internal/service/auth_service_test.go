package service

import (
	"errors"
	"testing"
	"time"

	"github.com/quizhub/quizhub-backend/internal/config"
	"github.com/quizhub/quizhub-backend/internal/model"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // min cost keeps the test fast
	}
}

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService(testAuthConfig())

	user := &model.User{ID: 42, Username: "alice", IsAdmin: true}
	token, err := auth.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user_id: got %d, want 42", claims.UserID)
	}
	if !claims.IsAdmin {
		t.Errorf("is_admin: got false, want true")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTExpiry = -time.Minute
	auth := NewAuthService(cfg)

	token, err := auth.GenerateToken(&model.User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = auth.ValidateToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateTokenMalformed(t *testing.T) {
	auth := NewAuthService(testAuthConfig())

	for _, raw := range []string{"", "garbage", "a.b", "not.a.jwt"} {
		if _, err := auth.ValidateToken(raw); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("token %q: expected ErrTokenMalformed, got %v", raw, err)
		}
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	auth := NewAuthService(testAuthConfig())
	token, err := auth.GenerateToken(&model.User{ID: 1, Username: "bob"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := testAuthConfig()
	other.JWTSecret = "a-different-secret"
	if _, err := NewAuthService(other).ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	auth := NewAuthService(testAuthConfig())

	hash, err := auth.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := auth.CheckPassword(hash, "hunter22"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := auth.CheckPassword(hash, "hunter23"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
}
