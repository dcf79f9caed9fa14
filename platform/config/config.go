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
	GetPublicRateLimitPerMinute() int
}

// RedisConfig provides the Redis connection used by wizard sessions.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the asynq client and worker.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// WizardConfig provides settings for the questionnaire wizard.
type WizardConfig interface {
	GetWizardSessionTTL() time.Duration
}

// InsightConfig provides settings for the advisory-text generator.
type InsightConfig interface {
	GetInsightProvider() string
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetMoonshotAPIKey() string
	GetInsightTimeout() time.Duration
}

// EmailConfig provides settings for SMTP delivery.
type EmailConfig interface {
	IsEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetSalesAlertEmail() string
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketDossiers() string
	IsMinIOEnabled() bool
}

// WhatsAppConfig provides settings for the GOWA WhatsApp gateway.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
	GetSalesAlertWhatsApp() string
}

// GotenbergConfig provides settings for HTML to PDF conversion.
type GotenbergConfig interface {
	GetGotenbergURL() string
	GetGotenbergUsername() string
	GetGotenbergPassword() string
	IsGotenbergEnabled() bool
}

// CRMConfig provides settings for forwarding captured leads.
type CRMConfig interface {
	GetCRMWebhookURL() string
	GetCRMWebhookToken() string
}

// PhoneConfig provides the default region for phone parsing.
type PhoneConfig interface {
	GetPhoneDefaultRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	PublicRateLimitPerMinute int
	RedisURL                 string
	RedisTLSInsecure         bool
	AsynqQueueName           string
	AsynqConcurrency         int
	WizardSessionTTL         time.Duration
	InsightProvider          string
	GeminiAPIKey             string
	GeminiModel              string
	MoonshotAPIKey           string
	InsightTimeout           time.Duration
	SMTPHost                 string
	SMTPPort                 int
	SMTPUsername             string
	SMTPPassword             string
	EmailFromName            string
	EmailFromAddress         string
	SalesAlertEmail          string
	MinIOEndpoint            string
	MinIOAccessKey           string
	MinIOSecretKey           string
	MinIOUseSSL              bool
	MinioBucketDossiers      string
	WhatsAppURL              string
	WhatsAppKey              string
	WhatsAppDeviceID         string
	SalesAlertWhatsApp       string
	GotenbergURL             string
	GotenbergUsername        string
	GotenbergPassword        string
	CRMWebhookURL            string
	CRMWebhookToken          string
	PhoneDefaultRegion       string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string              { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool            { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string         { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool          { return c.CORSAllowCreds }
func (c *Config) GetPublicRateLimitPerMinute() int { return c.PublicRateLimitPerMinute }

// RedisConfig / SchedulerConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// WizardConfig implementation
func (c *Config) GetWizardSessionTTL() time.Duration { return c.WizardSessionTTL }

// InsightConfig implementation
func (c *Config) GetInsightProvider() string         { return c.InsightProvider }
func (c *Config) GetGeminiAPIKey() string            { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string             { return c.GeminiModel }
func (c *Config) GetMoonshotAPIKey() string          { return c.MoonshotAPIKey }
func (c *Config) GetInsightTimeout() time.Duration   { return c.InsightTimeout }

// EmailConfig implementation
func (c *Config) IsEmailEnabled() bool        { return c.SMTPHost != "" && c.EmailFromAddress != "" }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetSalesAlertEmail() string  { return c.SalesAlertEmail }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string       { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string      { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string      { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool           { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketDossiers() string { return c.MinioBucketDossiers }
func (c *Config) IsMinIOEnabled() bool           { return c.MinIOEndpoint != "" }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppURL() string        { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string        { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string   { return c.WhatsAppDeviceID }
func (c *Config) GetSalesAlertWhatsApp() string { return c.SalesAlertWhatsApp }

// GotenbergConfig implementation
func (c *Config) GetGotenbergURL() string      { return c.GotenbergURL }
func (c *Config) GetGotenbergUsername() string { return c.GotenbergUsername }
func (c *Config) GetGotenbergPassword() string { return c.GotenbergPassword }
func (c *Config) IsGotenbergEnabled() bool     { return c.GotenbergURL != "" }

// CRMConfig implementation
func (c *Config) GetCRMWebhookURL() string   { return c.CRMWebhookURL }
func (c *Config) GetCRMWebhookToken() string { return c.CRMWebhookToken }

// PhoneConfig implementation
func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }

// Load reads configuration from environment variables.
// DATABASE_URL is only required by binaries that persist leads; see RequireDatabase.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		PublicRateLimitPerMinute: mustInt(getEnv("PUBLIC_RATE_LIMIT_PER_MIN", "60")),
		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisTLSInsecure:         strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "leads"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		WizardSessionTTL:         mustDuration(getEnv("WIZARD_SESSION_TTL", "2h")),
		InsightProvider:          strings.ToLower(getEnv("INSIGHT_PROVIDER", "gemini")),
		GeminiAPIKey:             getEnv("GEMINI_API_KEY", ""),
		GeminiModel:              getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		MoonshotAPIKey:           getEnv("MOONSHOT_API_KEY", ""),
		InsightTimeout:           mustDuration(getEnv("INSIGHT_TIMEOUT", "15s")),
		SMTPHost:                 getEnv("SMTP_HOST", ""),
		SMTPPort:                 mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:             getEnv("SMTP_USERNAME", ""),
		SMTPPassword:             getEnv("SMTP_PASSWORD", ""),
		EmailFromName:            getEnv("EMAIL_FROM_NAME", "Solectrica"),
		EmailFromAddress:         getEnv("EMAIL_FROM_ADDRESS", ""),
		SalesAlertEmail:          getEnv("SALES_ALERT_EMAIL", ""),
		MinIOEndpoint:            getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:           getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:           getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:              strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketDossiers:      getEnv("MINIO_BUCKET_DOSSIERS", "lead-dossiers"),
		WhatsAppURL:              getEnv("WHATSAPP_URL", ""),
		WhatsAppKey:              getEnv("WHATSAPP_KEY", ""),
		WhatsAppDeviceID:         getEnv("WHATSAPP_DEVICE_ID", ""),
		SalesAlertWhatsApp:       getEnv("SALES_ALERT_WHATSAPP", ""),
		GotenbergURL:             strings.TrimRight(getEnv("GOTENBERG_URL", ""), "/"),
		GotenbergUsername:        getEnv("GOTENBERG_USERNAME", ""),
		GotenbergPassword:        getEnv("GOTENBERG_PASSWORD", ""),
		CRMWebhookURL:            getEnv("CRM_WEBHOOK_URL", ""),
		CRMWebhookToken:          getEnv("CRM_WEBHOOK_TOKEN", ""),
		PhoneDefaultRegion:       strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "CO")),
	}

	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	switch cfg.InsightProvider {
	case "gemini", "moonshot", "static":
	default:
		return nil, fmt.Errorf("INSIGHT_PROVIDER must be one of gemini, moonshot, static (got %q)", cfg.InsightProvider)
	}

	return cfg, nil
}

// RequireDatabase reports an error when DATABASE_URL is not set.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// RequireRedis reports an error when REDIS_URL is not set.
func (c *Config) RequireRedis() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
