package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/shelflog/shelflog-server/internal/domain"
)

const testKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestTokenRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	u := &domain.User{Username: "lexie"}
	u.ID = "user-abc123"

	token, err := svc.GenerateAccessToken(u)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if !strings.HasPrefix(token, "v4.local.") {
		t.Errorf("expected v4.local token, got %s", token[:12])
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.UserID != "user-abc123" {
		t.Errorf("user_id = %q", claims.UserID)
	}
	if claims.Username != "lexie" {
		t.Errorf("username = %q", claims.Username)
	}
	if claims.Issuer != tokenIssuer || claims.Audience != tokenAudience {
		t.Errorf("bad standard claims: %+v", claims)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, -time.Minute)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	u := &domain.User{Username: "lexie"}
	u.ID = "user-abc123"

	token, err := svc.GenerateAccessToken(u)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc.VerifyAccessToken(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestWrongKeyRejected(t *testing.T) {
	svc1, _ := NewTokenService(testKeyHex, time.Hour)
	otherKey := strings.Repeat("ff", 32)
	svc2, err := NewTokenService(otherKey, time.Hour)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}

	u := &domain.User{Username: "lexie"}
	u.ID = "user-abc123"

	token, err := svc1.GenerateAccessToken(u)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := svc2.VerifyAccessToken(token); err == nil {
		t.Error("token minted under a different key must not verify")
	}
}

func TestNewTokenServiceBadKey(t *testing.T) {
	if _, err := NewTokenService("too-short", time.Hour); err == nil {
		t.Error("expected error for short key")
	}
	if _, err := NewTokenService(strings.Repeat("zz", 32), time.Hour); err == nil {
		t.Error("expected error for non-hex key")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("verify password: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}

	ok, _ = VerifyPassword("not-a-hash", "anything")
	if ok {
		t.Error("garbage hash verified")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}
