package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ansuman-shukla/hippocampus-backend/forms"
	"github.com/ansuman-shukla/hippocampus-backend/metrics"
	"github.com/ansuman-shukla/hippocampus-backend/models"
	"github.com/ansuman-shukla/hippocampus-backend/service"
	"github.com/gin-gonic/gin"
)

// AuthController composes the token codec, the refresh client and the cookie
// manager into the /auth endpoints.
type AuthController struct {
	tokens  *service.TokenService
	refresh *service.RefreshClient
	cookies *service.CookieManager
	metrics *metrics.Collector
}

// NewAuthController creates and returns a new AuthController instance
func NewAuthController(tokens *service.TokenService, refresh *service.RefreshClient, cookies *service.CookieManager, collector *metrics.Collector) *AuthController {
	return &AuthController{tokens: tokens, refresh: refresh, cookies: cookies, metrics: collector}
}

// Login accepts an already-issued token pair and writes it back as session
// cookies. Credential checking happened client-side against the identity
// provider; this endpoint only establishes the cookie session.
func (ctrl AuthController) Login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "access_token and refresh_token are required"})
		return
	}

	ctrl.cookies.Set(c.Writer, service.AccessTokenCookie, form.AccessToken, service.AccessTokenTTL)
	ctrl.cookies.Set(c.Writer, service.RefreshTokenCookie, form.RefreshToken, service.RefreshTokenTTL)

	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

// Refresh exchanges the refresh token (cookie first, request body as
// fallback) for a new token pair. The returned access token is re-validated
// through the token codec before any cookie is committed; a pair that fails
// re-validation is a failure, not a success.
func (ctrl AuthController) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(service.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		var form forms.RefreshForm
		if bindErr := c.ShouldBindJSON(&form); bindErr == nil {
			refreshToken = form.RefreshToken
		}
	}

	if refreshToken == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "No refresh token provided"})
		return
	}

	pair, err := ctrl.refresh.Exchange(c.Request.Context(), refreshToken)
	if err != nil {
		ctrl.refreshFailed(c, err)
		return
	}

	// A fresh token from the provider should verify by construction; a
	// decode failure here masks provider-side misconfiguration and must
	// surface as an auth failure rather than a successful refresh.
	if _, err := ctrl.tokens.Decode(pair.AccessToken); err != nil {
		ctrl.metrics.RecordRefresh("rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Refreshed token failed validation: " + err.Error()})
		return
	}

	ctrl.cookies.Set(c.Writer, service.AccessTokenCookie, pair.AccessToken, service.AccessTokenTTL)

	// Only overwrite the refresh-token cookie when the provider actually
	// rotated it.
	responseRefreshToken := refreshToken
	if pair.RefreshToken != "" && pair.RefreshToken != refreshToken {
		ctrl.cookies.Set(c.Writer, service.RefreshTokenCookie, pair.RefreshToken, service.RefreshTokenTTL)
		responseRefreshToken = pair.RefreshToken
	}

	ctrl.metrics.RecordRefresh("success")
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Token refreshed successfully",
		"access_token":  pair.AccessToken,
		"refresh_token": responseRefreshToken,
		"expires_in":    pair.ExpiresIn,
		"token_type":    pair.TokenType,
	})
}

// refreshFailed maps a refresh-client error to its HTTP status: the caller
// must be able to tell "your token is bad" (401) apart from "the identity
// provider is down" (503).
func (ctrl AuthController) refreshFailed(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRefreshToken), errors.Is(err, service.ErrSessionExpired):
		ctrl.metrics.RecordRefresh("rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": service.SessionExpiredMessage})
	case errors.Is(err, service.ErrUpstreamUnavailable):
		ctrl.metrics.RecordRefresh("unavailable")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"detail": "Authentication service is unavailable. Please try again later."})
	default:
		ctrl.metrics.RecordRefresh("error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Token refresh failed"})
	}
}

// Logout clears every session and profile cookie under every attribute
// variant. It is idempotent and always succeeds, cookies present or not.
func (ctrl AuthController) Logout(c *gin.Context) {
	ctrl.cookies.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// Status is the diagnostic endpoint: it reports the session state and never
// raises, surfacing decode failures inline as token_error.
func (ctrl AuthController) Status(c *gin.Context) {
	accessToken, _ := c.Cookie(service.AccessTokenCookie)
	refreshToken, _ := c.Cookie(service.RefreshTokenCookie)

	result := gin.H{
		"has_access_token":  accessToken != "",
		"has_refresh_token": refreshToken != "",
		"is_authenticated":  false,
		"user_id":           nil,
		"token_valid":       false,
	}

	if accessToken != "" {
		payload, err := ctrl.tokens.Decode(accessToken)
		if err != nil {
			result["token_error"] = err.Error()
		} else {
			result["is_authenticated"] = true
			result["token_valid"] = true
			result["user_id"] = payload.Subject
			result["email"] = payload.Email
		}
	}

	c.JSON(http.StatusOK, result)
}

// Verify is the enforcement endpoint: it decodes the access token and
// returns its payload, or 401 when the token is missing or invalid.
func (ctrl AuthController) Verify(c *gin.Context) {
	payload, ok := ctrl.authenticate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":         true,
		"user_id":       payload.Subject,
		"email":         payload.Email,
		"expires":       payload.ExpiresAt,
		"issued_at":     payload.IssuedAt,
		"user_metadata": payload.UserMetadata,
	})
}

// RequireAuth is the middleware guarding the document and admin routes. On
// success the verified user id and email are placed on the context.
func (ctrl AuthController) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := ctrl.authenticate(c)
		if !ok {
			return
		}

		c.Set("userID", payload.Subject)
		c.Set("email", payload.Email)
		c.Next()
	}
}

// authenticate reads the access token (cookie first, Authorization header as
// fallback) and decodes it, writing the 401 response itself on failure.
func (ctrl AuthController) authenticate(c *gin.Context) (models.TokenPayload, bool) {
	accessToken, _ := c.Cookie(service.AccessTokenCookie)
	if accessToken == "" {
		accessToken = c.GetHeader("Authorization")
	}

	if accessToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "No access token provided"})
		return models.TokenPayload{}, false
	}

	payload, err := ctrl.tokens.Decode(accessToken)
	if errors.Is(err, service.ErrMissingSecret) {
		// Server misconfiguration, not a client failure. Detail stays in
		// the logs; the caller gets a generic message.
		slog.Error("token verification secret is not configured")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return models.TokenPayload{}, false
	}
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token verification failed: " + err.Error()})
		return models.TokenPayload{}, false
	}

	return payload, true
}

// getUserID extracts the verified user ID placed on the context by RequireAuth
func getUserID(c *gin.Context) string {
	//MustGet returns the value for the given key if it exists, otherwise it panics.
	return c.MustGet("userID").(string)
}
