package config

import (
	"os"
	"strings"
	"time"
)

// Config holds application configuration. It is loaded once at process
// start and treated as read-only afterwards; request handling never reads
// the environment directly.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// External sink (Google Sheets) connection settings.
	SinkProvider    string // "sheets" or "memory"
	SheetID         string
	CredentialsJSON string
	SheetTitle      string
	SinkTimeout     time.Duration

	// PersistenceMode selects how sink-write failures surface to callers:
	// "strict" fails the request, "best-effort" reports success and logs.
	PersistenceMode string

	// ClinicTimezone anchors "not earlier than today" date validation.
	ClinicTimezone string

	CORSAllowedOrigins []string

	// Operator notification email (optional).
	NotifyEmail       string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SinkProvider:    strings.ToLower(strings.TrimSpace(getEnv("SINK_PROVIDER", "sheets"))),
		SheetID:         getEnv("GOOGLE_SHEET_ID", ""),
		CredentialsJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_CREDENTIALS", ""),
		SheetTitle:      getEnv("SHEET_TITLE", "Appointments"),
		SinkTimeout:     getEnvAsDuration("SINK_TIMEOUT", 20*time.Second),

		PersistenceMode: strings.ToLower(strings.TrimSpace(getEnv("PERSISTENCE_MODE", "strict"))),

		ClinicTimezone: getEnv("CLINIC_TIMEZONE", "Asia/Kabul"),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		NotifyEmail:       getEnv("NOTIFY_EMAIL", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Clinic Intake"),
	}
}

// Location resolves the configured clinic timezone, falling back to UTC
// when the name cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SinkConfigured reports whether the Sheets sink has the settings it needs.
func (c *Config) SinkConfigured() bool {
	if c.SinkProvider == "memory" {
		return true
	}
	return c.SheetID != "" && c.CredentialsJSON != ""
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
