package auth

// TokenRequest exchanges an API key for a token pair
type TokenRequest struct {
	APIKey   string `json:"api_key" validate:"required"`
	ClientID string `json:"client_id"`
}

// RefreshRequest requests a new access token from a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RevokeRequest invalidates a refresh token
type RevokeRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
