package service

import (
	"log/slog"
	"net/http"
	"time"
)

// Session cookie names and standard durations.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"

	AccessTokenTTL  = 3600 * time.Second
	RefreshTokenTTL = 604800 * time.Second // 7 days
)

// SessionCookieNames is the full set of cookies logout clears. Profile
// cookies are written by the frontend but cleared here so a logout leaves
// nothing behind.
var SessionCookieNames = []string{
	AccessTokenCookie,
	RefreshTokenCookie,
	"user_id",
	"user_name",
	"user_picture",
}

// cookieAttributes is one attribute combination a session cookie may have
// been set with. Clear iterates all of them because a deletion only takes
// effect when its attributes match the original set.
type cookieAttributes struct {
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// clearVariants enumerates every attribute combination used across
// deployments: bare, with path, with secure+cross-site-none, and both.
var clearVariants = []cookieAttributes{
	{},
	{Path: "/"},
	{Secure: true, SameSite: http.SameSiteNoneMode},
	{Path: "/", Secure: true, SameSite: http.SameSiteNoneMode},
}

// CookieManager attaches and removes session cookies on outgoing responses.
type CookieManager struct{}

// NewCookieManager creates a CookieManager.
func NewCookieManager() *CookieManager {
	return &CookieManager{}
}

// Set writes a session cookie with the fixed security attributes and an
// absolute expiry of now + ttl. A failure to set a cookie is logged and
// swallowed; it must never abort the response.
func (m CookieManager) Set(w http.ResponseWriter, name, value string, ttl time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("failed to set cookie", "cookie", name, "panic", r)
		}
	}()

	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}

	if cookie.Valid() != nil {
		slog.Error("refusing to set malformed cookie", "cookie", name, "error", cookie.Valid())
		return
	}

	http.SetCookie(w, cookie)
}

// Clear issues a deletion for every session cookie under every attribute
// variant it might originally have been set with.
func (m CookieManager) Clear(w http.ResponseWriter) {
	for _, name := range SessionCookieNames {
		for _, attrs := range clearVariants {
			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    "",
				Path:     attrs.Path,
				Expires:  time.Unix(0, 0),
				MaxAge:   -1,
				Secure:   attrs.Secure,
				SameSite: attrs.SameSite,
			})
		}
	}
}
