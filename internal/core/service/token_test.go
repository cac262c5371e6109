package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	session, err := m.Issue("user_1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if until := time.Until(session.ExpiresAt); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("unexpected expiry %v", session.ExpiresAt)
	}

	userID, err := m.Verify(session.Token)
	if err != nil || userID != "user_1" {
		t.Fatalf("expected user_1, got %q (%v)", userID, err)
	}
}

func TestTokenManager_DefaultTTL(t *testing.T) {
	m := NewTokenManager("secret", 0)
	if m.ttl != 30*24*time.Hour {
		t.Fatalf("expected 30 day default, got %v", m.ttl)
	}
}

func TestTokenManager_RejectsInvalidTokens(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user_1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString([]byte("secret"))

	wrongKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user_1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other"))

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user_1",
	}).SignedString([]byte("secret"))

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	wrongAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user_1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))

	cases := map[string]string{
		"expired":    expired,
		"wrong key":  wrongKey,
		"no expiry":  noExpiry,
		"no subject": noSubject,
		"wrong alg":  wrongAlg,
		"malformed":  "not-a-token",
	}
	for name, token := range cases {
		if _, err := m.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}
