package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string

	APIURL       string
	AuthURL      string
	ProjectKey   string
	ClientID     string
	ClientSecret string
	Scopes       []string

	Currency  string
	StatePath string
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		AllowedOrigins:  envList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		APIURL:          envOrDefault("CT_API_URL", "https://api.europe-west1.gcp.commercetools.com"),
		AuthURL:         envOrDefault("CT_AUTH_URL", "https://auth.europe-west1.gcp.commercetools.com"),
		ProjectKey:      envOrDefault("CT_PROJECT_KEY", ""),
		ClientID:        envOrDefault("CT_CLIENT_ID", ""),
		ClientSecret:    envOrDefault("CT_CLIENT_SECRET", ""),
		Scopes:          envList("CT_SCOPES", nil),
		Currency:        envOrDefault("STORE_CURRENCY", "EUR"),
		StatePath:       envOrDefault("STATE_PATH", "data/session.json"),
	}
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	switch {
	case c.ProjectKey == "":
		return errMissing("CT_PROJECT_KEY")
	case c.ClientID == "":
		return errMissing("CT_CLIENT_ID")
	case c.ClientSecret == "":
		return errMissing("CT_CLIENT_SECRET")
	}
	return nil
}

type errMissing string

func (e errMissing) Error() string {
	return "missing required environment variable " + string(e)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
