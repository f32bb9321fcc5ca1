package jwt

import (
	"testing"
	"time"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("pipeline-bot", "meetings:write")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.ClientID != "pipeline-bot" {
		t.Fatalf("unexpected client id %s", claims.ClientID)
	}
	if claims.Scope != "meetings:write" {
		t.Fatalf("unexpected scope %s", claims.Scope)
	}
	if claims.Issuer != "meeting-automation" {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("pipeline-bot")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	clientID, err := m.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if clientID != "pipeline-bot" {
		t.Fatalf("unexpected client id %s", clientID)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager("different-secret", "refresh-secret", 15*time.Minute, 168*time.Hour)

	token, err := m.GenerateAccessToken("pipeline-bot", "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Fatal("expected validation error for wrong secret")
	}
}

func TestAccessTokenRejectsRefreshToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("pipeline-bot")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Fatal("expected access validation to reject refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewManager("access-secret", "refresh-secret", -1*time.Minute, 168*time.Hour)

	token, err := m.GenerateAccessToken("pipeline-bot", "")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestHashToken(t *testing.T) {
	m := newTestManager()

	h1, err := m.HashToken("some-token")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	h2, err := m.HashToken("some-token")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if h1 != h2 {
		t.Fatal("hash should be deterministic")
	}
	if len(h1) != 64 {
		t.Fatalf("unexpected hash length %d", len(h1))
	}

	if _, err := m.HashToken(""); err == nil {
		t.Fatal("expected error for empty token")
	}
}
