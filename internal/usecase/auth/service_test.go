package auth

import (
	"context"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-automation/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-automation/pkg/config"
	"github.com/johnquangdev/meeting-automation/pkg/jwt"
)

func newTestService(apiKey string) *Service {
	cfg := &config.Config{
		Auth: config.AuthConfig{APIKey: apiKey},
	}
	manager := jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewService(cfg, manager, cache.NewMemoryStore())
}

func TestExchangeAPIKey(t *testing.T) {
	svc := newTestService("secret-key")

	resp, err := svc.ExchangeAPIKey(context.Background(), "secret-key", "ci-bot")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if resp.TokenType != "Bearer" {
		t.Fatalf("unexpected token type %q", resp.TokenType)
	}
	if resp.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expires_in %d", resp.ExpiresIn)
	}

	claims, err := svc.jwtManager.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("issued access token should validate: %v", err)
	}
	if claims.ClientID != "ci-bot" {
		t.Fatalf("unexpected client ID %q", claims.ClientID)
	}
}

func TestExchangeAPIKeyRejectsWrongKey(t *testing.T) {
	svc := newTestService("secret-key")

	if _, err := svc.ExchangeAPIKey(context.Background(), "wrong", "ci-bot"); err == nil {
		t.Fatal("expected error for wrong API key")
	}
}

func TestExchangeAPIKeyUnconfigured(t *testing.T) {
	svc := newTestService("")

	if _, err := svc.ExchangeAPIKey(context.Background(), "", "ci-bot"); err == nil {
		t.Fatal("expected error when API key auth is not configured")
	}
}

func TestRefresh(t *testing.T) {
	svc := newTestService("secret-key")
	ctx := context.Background()

	issued, err := svc.ExchangeAPIKey(ctx, "secret-key", "ci-bot")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, issued.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Fatal("expected a new access token")
	}
	if refreshed.RefreshToken != "" {
		t.Fatal("refresh should not rotate the refresh token")
	}
}

func TestRefreshAfterRevoke(t *testing.T) {
	svc := newTestService("secret-key")
	ctx := context.Background()

	issued, err := svc.ExchangeAPIKey(ctx, "secret-key", "ci-bot")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	if err := svc.Revoke(ctx, issued.RefreshToken); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := svc.Refresh(ctx, issued.RefreshToken); err == nil {
		t.Fatal("revoked refresh token should be rejected")
	}
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc := newTestService("secret-key")

	if _, err := svc.Refresh(context.Background(), "not-a-token"); err == nil {
		t.Fatal("expected error for malformed refresh token")
	}
}
