package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ansuman-shukla/hippocampus-backend/config"
	"github.com/ansuman-shukla/hippocampus-backend/models"
	jwt "github.com/golang-jwt/jwt/v4"
)

// Token decode failure kinds. Expired is deliberately distinct from invalid
// so callers can decide whether a refresh attempt makes sense.
var (
	ErrMissingToken  = errors.New("no token provided")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidToken  = errors.New("token is invalid")
	ErrMissingSecret = errors.New("token verification secret is not configured")
)

// TokenService decodes and validates access tokens issued by the identity
// provider. Decoding is a pure function of the token and the configured
// secret, audience and issuer; it has no side effects.
type TokenService struct {
	secret   string
	audience string
	issuer   string
}

// NewTokenService creates a TokenService bound to the configured secret and
// expected claim values.
func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secret:   cfg.JWTSecret,
		audience: config.ExpectedAudience,
		issuer:   cfg.Issuer(),
	}
}

// Decode verifies the signature and standard claims of a raw bearer token
// and returns its payload. The raw value may carry a case-insensitive
// "Bearer " prefix, which is stripped before verification.
func (s TokenService) Decode(raw string) (models.TokenPayload, error) {
	tokenString := normalizeBearer(raw)
	if tokenString == "" {
		return models.TokenPayload{}, ErrMissingToken
	}

	if s.secret == "" {
		return models.TokenPayload{}, ErrMissingSecret
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Make sure that the token method conform to "SigningMethodHMAC"
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return models.TokenPayload{}, ErrExpiredToken
		}
		return models.TokenPayload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.TokenPayload{}, ErrInvalidToken
	}

	if !audienceMatches(claims["aud"], s.audience) {
		return models.TokenPayload{}, fmt.Errorf("%w: unexpected audience", ErrInvalidToken)
	}

	issuer, _ := claims["iss"].(string)
	if issuer != s.issuer {
		return models.TokenPayload{}, fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}

	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return models.TokenPayload{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return models.TokenPayload{}, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}

	payload := models.TokenPayload{
		Subject:   sub,
		Audience:  s.audience,
		Issuer:    issuer,
		ExpiresAt: int64(exp),
	}

	if email, ok := claims["email"].(string); ok {
		payload.Email = email
	}
	if iat, ok := claims["iat"].(float64); ok {
		payload.IssuedAt = int64(iat)
	}
	if meta, ok := claims["user_metadata"].(map[string]any); ok {
		payload.UserMetadata = meta
	}

	return payload, nil
}

// normalizeBearer trims the raw header value and strips a case-insensitive
// "Bearer " scheme marker when present.
func normalizeBearer(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) >= 7 && strings.EqualFold(trimmed[:7], "bearer ") {
		trimmed = strings.TrimSpace(trimmed[7:])
	}

	return trimmed
}

// audienceMatches accepts both the string and the array form of the aud
// claim, as the provider has used both.
func audienceMatches(aud any, expected string) bool {
	switch v := aud.(type) {
	case string:
		return v == expected
	case []any:
		for _, entry := range v {
			if s, ok := entry.(string); ok && s == expected {
				return true
			}
		}
	}

	return false
}
