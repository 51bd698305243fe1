package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is everything the backend reads from the environment, loaded once
// at startup and handed to the pieces that need it.
type Config struct {
	Port     string
	MongoURI string
	DBName   string

	JWTSecret string
	TokenTTL  time.Duration
	APIKey    string

	GmailUser        string
	GmailAppPassword string

	AgentEnabled bool
	GeminiAPIKey string
}

const defaultTokenTTLMinutes = 30

// defaultJWTSecret keeps local development working without a .env file.
// Tokens signed with it are forgeable, so startup warns when it is in use.
const defaultJWTSecret = "fallback-secret-key"

// Load reads the process environment. godotenv has already populated it
// from .env by the time this runs.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getenv("PORT", "8080"),
		MongoURI:         strings.TrimSpace(os.Getenv("MONGODB_URI")),
		DBName:           getenv("DB_NAME", "hackathon_smit"),
		JWTSecret:        getenv("JWT_SECRET", defaultJWTSecret),
		TokenTTL:         time.Duration(getenvInt("TOKEN_TTL_MINUTES", defaultTokenTTLMinutes)) * time.Minute,
		APIKey:           strings.TrimSpace(os.Getenv("API_KEY")),
		GmailUser:        strings.TrimSpace(os.Getenv("GMAIL_USER")),
		GmailAppPassword: strings.TrimSpace(os.Getenv("GMAIL_APP_PASSWORD")),
		AgentEnabled:     getenvBool("AGENT_ENABLED", false),
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
	}

	if cfg.MongoURI == "" {
		// the original also honored db_url
		cfg.MongoURI = strings.TrimSpace(os.Getenv("db_url"))
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is not set")
	}

	return cfg, nil
}

// UsingDefaultJWTSecret reports whether JWT_SECRET was left unset and the
// built-in development secret is signing tokens.
func (c *Config) UsingDefaultJWTSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

// MailConfigured reports whether the Gmail relay credentials are present.
func (c *Config) MailConfigured() bool {
	return c.GmailUser != "" && c.GmailAppPassword != ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
