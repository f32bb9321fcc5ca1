package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/johnquangdev/meeting-automation/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-automation/pkg/config"
	"github.com/johnquangdev/meeting-automation/pkg/jwt"
)

// TokenResponse represents an issued token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Service exchanges the configured API key for JWT token pairs
type Service struct {
	cfg        *config.Config
	jwtManager *jwt.Manager
	store      cache.Store
}

// NewService creates a new auth service
func NewService(cfg *config.Config, jwtManager *jwt.Manager, store cache.Store) *Service {
	return &Service{
		cfg:        cfg,
		jwtManager: jwtManager,
		store:      store,
	}
}

// ExchangeAPIKey validates the presented API key and issues a token pair.
// The client ID is caller-chosen and only used to label tokens.
func (s *Service) ExchangeAPIKey(ctx context.Context, apiKey, clientID string) (*TokenResponse, error) {
	if s.cfg.Auth.APIKey == "" {
		return nil, fmt.Errorf("API key authentication is not configured")
	}
	if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.cfg.Auth.APIKey)) != 1 {
		return nil, fmt.Errorf("invalid API key")
	}

	if clientID == "" {
		clientID = "default"
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(clientID, "api")
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Remember the refresh token hash so it can be revoked server-side
	if s.store != nil {
		hash, err := s.jwtManager.HashToken(refreshToken)
		if err != nil {
			return nil, err
		}
		if err := s.store.Set(ctx, refreshKey(hash), clientID, s.jwtManager.GetRefreshExpiry()); err != nil {
			return nil, fmt.Errorf("failed to store refresh token: %w", err)
		}
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// Refresh issues a new access token for a valid, unrevoked refresh token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	clientID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	if s.store != nil {
		hash, err := s.jwtManager.HashToken(refreshToken)
		if err != nil {
			return nil, err
		}
		if _, found, err := s.store.Get(ctx, refreshKey(hash)); err != nil {
			return nil, err
		} else if !found {
			return nil, fmt.Errorf("refresh token revoked or expired")
		}
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(clientID, "api")
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtManager.GetAccessExpiry().Seconds()),
	}, nil
}

// Revoke invalidates a refresh token
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	if s.store == nil {
		return nil
	}
	hash, err := s.jwtManager.HashToken(refreshToken)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, refreshKey(hash))
}

func refreshKey(hash string) string {
	return "auth:refresh:" + hash
}
