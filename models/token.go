package models

// TokenPayload is the decoded claim set of a verified access token. It is
// produced by the identity provider, read-only for this service, and lives
// for a single request.
type TokenPayload struct {
	Subject      string         `json:"sub"`
	Email        string         `json:"email"`
	Audience     string         `json:"aud"`
	Issuer       string         `json:"iss"`
	ExpiresAt    int64          `json:"exp"`
	IssuedAt     int64          `json:"iat"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// TokenPair is the token set issued by the identity provider on login or
// refresh. It is held only in transit, never stored server-side.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}
