package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ansuman-shukla/hippocampus-backend/config"
	"github.com/ansuman-shukla/hippocampus-backend/models"
)

const refreshTimeout = 10 * time.Second

// SessionExpiredMessage is the single user-facing message for every refresh
// failure that means the refresh token itself is no longer usable.
const SessionExpiredMessage = "Session expired. Please log in again."

var (
	// ErrInvalidRefreshToken is returned for empty or whitespace-only
	// refresh tokens; no network call is made in that case.
	ErrInvalidRefreshToken = errors.New("refresh token is required")
	// ErrSessionExpired means the provider rejected the refresh token as
	// used, revoked or expired; the user has to authenticate again.
	ErrSessionExpired = errors.New(SessionExpiredMessage)
	// ErrUpstreamUnavailable means the identity provider could not be
	// reached at all, distinct from the token being bad.
	ErrUpstreamUnavailable = errors.New("identity provider unavailable")
	// ErrUpstreamProtocol means the provider answered 200 without an
	// access token, which violates its own contract.
	ErrUpstreamProtocol = errors.New("identity provider returned no access token")
)

// refreshErrorCodes are the provider error codes that mean the refresh token
// is no longer usable, all normalized to ErrSessionExpired.
var refreshErrorCodes = map[string]bool{
	"invalid_grant":              true,
	"refresh_token_not_found":    true,
	"refresh_token_already_used": true,
	"session_expired":            true,
	"session_not_found":          true,
}

// RefreshClient exchanges a refresh token for a new token pair at the
// identity provider's token endpoint. It performs no retries; retry policy
// is the caller's concern.
type RefreshClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewRefreshClient creates a RefreshClient against the configured provider.
func NewRefreshClient(cfg config.Config) *RefreshClient {
	return &RefreshClient{
		httpClient: &http.Client{Timeout: refreshTimeout},
		baseURL:    strings.TrimRight(cfg.AuthBaseURL, "/"),
		apiKey:     cfg.AuthAPIKey,
	}
}

// Exchange trades a refresh token for a new token pair. The refresh token in
// the returned pair may equal the input when the provider chose not to
// rotate it.
func (c *RefreshClient) Exchange(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return models.TokenPair{}, ErrInvalidRefreshToken
	}

	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to encode refresh request: %w", err)
	}

	endpoint := c.baseURL + "/auth/v1/token?grant_type=refresh_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("failed to build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("identity provider request failed", "error", err)
		return models.TokenPair{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return models.TokenPair{}, c.classifyFailure(resp.StatusCode, raw)
	}

	var pair models.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		slog.Error("failed to parse refresh response", "error", err)
		return models.TokenPair{}, fmt.Errorf("%w: unparseable response", ErrUpstreamProtocol)
	}

	if pair.AccessToken == "" {
		slog.Error("refresh response missing access token", "status", resp.StatusCode)
		return models.TokenPair{}, ErrUpstreamProtocol
	}

	return pair, nil
}

// classifyFailure maps a non-200 provider response to one error kind.
func (c *RefreshClient) classifyFailure(status int, raw []byte) error {
	var payload struct {
		ErrorCode   string `json:"error_code"`
		Error       string `json:"error"`
		Description string `json:"error_description"`
		Message     string `json:"msg"`
	}
	// A non-JSON error body still classifies on status below.
	_ = json.Unmarshal(raw, &payload)

	code := payload.ErrorCode
	if code == "" {
		code = payload.Error
	}

	if refreshErrorCodes[code] || status == http.StatusUnauthorized || status == http.StatusForbidden {
		slog.Info("refresh token rejected by provider", "status", status, "error_code", code)
		return ErrSessionExpired
	}

	detail := payload.Description
	if detail == "" {
		detail = payload.Message
	}

	slog.Error("token refresh failed", "status", status, "error_code", code, "detail", detail)
	return fmt.Errorf("token refresh failed with status %d", status)
}
