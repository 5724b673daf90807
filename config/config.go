package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds every external setting the services need. It is built once in
// main and passed to each component at construction, so tests can run with
// distinct secrets without touching the process environment.
type Config struct {
	// Identity provider (Supabase-compatible auth API)
	AuthBaseURL string // e.g. https://project.supabase.co
	AuthAPIKey  string // service api key sent on refresh calls
	JWTSecret   string // shared secret for HS256 verification

	// Document store
	MongoURI string
	MongoDB  string

	// Usage counters
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Vector store
	VectorURL string // base URL of the embedding/search service
	VectorKey string

	// Admin access
	AdminEmails []string

	Port string
	Env  string
}

// JWT claim constants fixed by the identity provider contract.
const (
	ExpectedAudience = "authenticated"
	IssuerPath       = "/auth/v1"
)

// Issuer returns the full expected issuer claim value.
func (c Config) Issuer() string {
	return strings.TrimRight(c.AuthBaseURL, "/") + IssuerPath
}

// IsAdmin reports whether the given email is on the configured admin list.
func (c Config) IsAdmin(email string) bool {
	for _, a := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}

// Load builds a Config from the process environment.
func Load() (Config, error) {
	redisDB := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, errors.New("REDIS_DB must be an integer")
		}
		redisDB = parsed
	}

	cfg := Config{
		AuthBaseURL: os.Getenv("AUTH_BASE_URL"),
		AuthAPIKey:  os.Getenv("AUTH_API_KEY"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     os.Getenv("MONGO_DB"),
		RedisAddr:   os.Getenv("REDIS_HOST"),
		RedisPass:   os.Getenv("REDIS_PASS"),
		RedisDB:     redisDB,
		VectorURL:   os.Getenv("VECTOR_URL"),
		VectorKey:   os.Getenv("VECTOR_API_KEY"),
		Port:        os.Getenv("PORT"),
		Env:         os.Getenv("ENV"),
	}

	if admins := os.Getenv("ADMIN_EMAILS"); admins != "" {
		cfg.AdminEmails = strings.Split(admins, ",")
	}

	if cfg.AuthBaseURL == "" {
		return Config{}, errors.New("AUTH_BASE_URL is required")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return cfg, nil
}
