// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// EmailConfig provides settings for email sending.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetEmailProvider() string // "brevo" or "smtp"
	GetBrevoAPIKey() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetBrevoListID() int64
}

// CalendarConfig provides settings for the calendar booking provider.
type CalendarConfig interface {
	GetCalendlyAPIToken() string
	GetCalendlyBaseURL() string
	GetCalendlyUserURI() string
	GetCalendlyEventType() string
	GetCalendarTimeout() time.Duration
	IsCalendarEnabled() bool
}

// AIConfig provides settings for the AI text-generation collaborator.
type AIConfig interface {
	GetOpenAIAPIKey() string
	GetOpenAIBaseURL() string
	GetOpenAIModel() string
	GetAITimeout() time.Duration
	IsAIEnabled() bool
}

// NotificationConfig provides settings for the notification module.
type NotificationConfig interface {
	GetAppBaseURL() string
	GetSalesWebhookURL() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env              string
	HTTPAddr         string
	DatabaseURL      string
	CORSAllowAll     bool
	CORSOrigins      []string
	CORSAllowCreds   bool
	AppBaseURL       string
	SalesWebhookURL  string
	EmailEnabled     bool
	EmailProvider    string
	BrevoAPIKey      string
	BrevoListID      int64
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
	CalendlyAPIToken string
	CalendlyBaseURL  string
	CalendlyUserURI  string
	CalendlyEvent    string
	CalendarTimeout  time.Duration
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	AITimeout        time.Duration
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// EmailConfig implementation
func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetEmailProvider() string    { return c.EmailProvider }
func (c *Config) GetBrevoAPIKey() string      { return c.BrevoAPIKey }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetBrevoListID() int64       { return c.BrevoListID }

// CalendarConfig implementation
func (c *Config) GetCalendlyAPIToken() string       { return c.CalendlyAPIToken }
func (c *Config) GetCalendlyBaseURL() string        { return c.CalendlyBaseURL }
func (c *Config) GetCalendlyUserURI() string        { return c.CalendlyUserURI }
func (c *Config) GetCalendlyEventType() string      { return c.CalendlyEvent }
func (c *Config) GetCalendarTimeout() time.Duration { return c.CalendarTimeout }
func (c *Config) IsCalendarEnabled() bool           { return c.CalendlyAPIToken != "" }

// AIConfig implementation
func (c *Config) GetOpenAIAPIKey() string     { return c.OpenAIAPIKey }
func (c *Config) GetOpenAIBaseURL() string    { return c.OpenAIBaseURL }
func (c *Config) GetOpenAIModel() string      { return c.OpenAIModel }
func (c *Config) GetAITimeout() time.Duration { return c.AITimeout }
func (c *Config) IsAIEnabled() bool           { return c.OpenAIAPIKey != "" }

// NotificationConfig implementation
func (c *Config) GetAppBaseURL() string      { return c.AppBaseURL }
func (c *Config) GetSalesWebhookURL() string { return c.SalesWebhookURL }

// IsDevelopment reports whether the app runs in development mode.
// Production responses suppress internal error messages.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads configuration from the environment, with .env support.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	brevoAPIKey := getEnv("BREVO_API_KEY", "")
	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	emailProvider := strings.ToLower(getEnv("EMAIL_PROVIDER", ""))
	if emailProvider == "" {
		switch {
		case brevoAPIKey != "":
			emailProvider = "brevo"
		case smtpHost != "":
			emailProvider = "smtp"
		}
	}

	cfg := &Config{
		Env:              getEnv("APP_ENV", "development"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":5000"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		CORSAllowAll:     corsAllowAll,
		CORSOrigins:      corsOrigins,
		CORSAllowCreds:   strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:3000"),
		SalesWebhookURL:  getEnv("SALES_WEBHOOK_URL", ""),
		EmailEnabled:     emailEnabled && emailProvider != "",
		EmailProvider:    emailProvider,
		BrevoAPIKey:      brevoAPIKey,
		BrevoListID:      mustInt64(getEnv("BREVO_LIST_ID", "0")),
		SMTPHost:         smtpHost,
		SMTPPort:         int(mustInt64(getEnv("SMTP_PORT", "587"))),
		SMTPUsername:     getEnv("SMTP_USERNAME", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		EmailFromName:    getEnv("EMAIL_FROM_NAME", "Scaler Career Team"),
		EmailFromAddress: getEnv("EMAIL_FROM_ADDRESS", "careers@scaler.com"),
		CalendlyAPIToken: getEnv("CALENDLY_API_TOKEN", ""),
		CalendlyBaseURL:  getEnv("CALENDLY_BASE_URL", "https://api.calendly.com"),
		CalendlyUserURI:  getEnv("CALENDLY_USER_URI", ""),
		CalendlyEvent:    getEnv("CALENDLY_EVENT_TYPE", ""),
		CalendarTimeout:  mustDuration(getEnv("CALENDAR_TIMEOUT", "10s")),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		AITimeout:        mustDuration(getEnv("AI_TIMEOUT", "10s")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

func mustInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
