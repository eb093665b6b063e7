package config

import (
	"os"
	"strconv"
	"strings"
)

// DefaultWhatsAppNumber is the clinic phone surfaced as the alternate
// contact channel when WHATSAPP_NUMBER is not configured, in the
// display format used on the website.
const DefaultWhatsAppNumber = "(+255) 793 145 167"

// Config holds application configuration
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	DatabaseURL string

	// CORS / dispatcher origin allow-list
	AllowedOrigins []string
	DevOrigins     []string

	// Rate limiting for the appointment email dispatcher
	DispatchMaxPerMinute int
	RedisAddr            string
	RedisPassword        string
	RedisTLS             bool

	// Email provider selection: sendgrid | ses | stub
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	OperatorEmail     string
	AWSRegion         string

	// Gallery object storage
	GalleryBucket    string
	GalleryPublicURL string

	// Admin auth
	AdminJWTSecret     string
	SessionTTLMinutes  int
	AdminAPIRatePerSec float64
	AdminAPIBurst      int

	// Optional integrations
	WhatsAppNumber string
	SentryDSN      string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{
			"https://refineplasticsurgerytz.com",
			"https://www.refineplasticsurgerytz.com",
		}),
		DevOrigins: getEnvAsList("DEV_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:8080",
			"http://127.0.0.1:8080",
		}),

		DispatchMaxPerMinute: getEnvAsInt("DISPATCH_MAX_PER_MINUTE", 30),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),

		EmailProvider:     strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "sendgrid"))),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", "appointments@refineplasticsurgerytz.com"),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Refine Appointments"),
		OperatorEmail:     getEnv("OPERATOR_EMAIL", "info@refineplasticsurgerytz.com"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),

		GalleryBucket:    getEnv("GALLERY_BUCKET", ""),
		GalleryPublicURL: getEnv("GALLERY_PUBLIC_URL", ""),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 480),
		AdminAPIRatePerSec: getEnvAsFloat("ADMIN_API_RATE_PER_SEC", 10),
		AdminAPIBurst:      getEnvAsInt("ADMIN_API_BURST", 20),

		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", DefaultWhatsAppNumber),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
	}
}

// DispatcherOrigins returns the origin allow-list for the email
// dispatcher. Development deployments additionally accept local origins.
func (c *Config) DispatcherOrigins() []string {
	if c.Env == "development" {
		return append(append([]string{}, c.AllowedOrigins...), c.DevOrigins...)
	}
	return c.AllowedOrigins
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated environment variable, trimming
// whitespace and dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
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
