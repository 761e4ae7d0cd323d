package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DBPoolSize  int
	DBOverflow  int

	// Secrets & session
	SecretKey       string
	JWTAccessExpiry time.Duration
	CookieSecure    bool

	// Mail
	MailServer        string
	MailPort          int
	MailUsername      string
	MailPassword      string
	MailUseTLS        bool
	MailDefaultSender string
	MailSenderName    string

	// Object storage (Supabase)
	SupabaseURL        string
	SupabaseBucket     string
	SupabaseServiceKey string

	// Local fallbacks
	UploadsDir  string
	DynamicsDir string

	// Admin bootstrap
	AdminEmails      string
	SuperadminEmails string

	// Server
	Port             string
	CORSOrigins      string
	MaxContentLength int
	BaseURL          string

	// Observability
	SentryDSN        string
	LogRetentionDays int
}

func Load() *Config {
	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "gramatike"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		DBPoolSize:  getEnvInt("DB_POOL_SIZE", 1),
		DBOverflow:  getEnvInt("DB_MAX_OVERFLOW", 2),

		SecretKey:       getEnv("SECRET_KEY", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "720h")),
		CookieSecure:    getEnvBool("COOKIE_SECURE", false),

		MailServer:        getEnv("MAIL_SERVER", "smtp.hostinger.com"),
		MailPort:          getEnvInt("MAIL_PORT", 587),
		MailUsername:      getEnv("MAIL_USERNAME", ""),
		MailPassword:      getEnv("MAIL_PASSWORD", ""),
		MailUseTLS:        getEnvBool("MAIL_USE_TLS", true),
		MailDefaultSender: getEnv("MAIL_DEFAULT_SENDER", "no-reply@gramatike.com.br"),
		MailSenderName:    getEnv("MAIL_SENDER_NAME", "Gramátike"),

		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "avatars"),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),

		UploadsDir:  getEnv("UPLOADS_DIR", "uploads"),
		DynamicsDir: getEnv("DYNAMICS_DIR", "dynamics"),

		AdminEmails:      getEnv("ADMIN_EMAILS", ""),
		SuperadminEmails: getEnv("SUPERADMIN_EMAILS", ""),

		Port:             getEnv("PORT", "8080"),
		CORSOrigins:      getEnv("CORS_ORIGINS", "*"),
		MaxContentLength: getEnvInt("MAX_CONTENT_LENGTH", 16*1024*1024),
		BaseURL:          getEnv("BASE_URL", "https://www.gramatike.com.br"),

		SentryDSN:        getEnv("SENTRY_DSN", ""),
		LogRetentionDays: getEnvInt("LOG_RETENTION_DAYS", 30),
	}
}

// DSN returns the Postgres connection string, preferring DATABASE_URL when set.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 720 * time.Hour
	}
	return d
}
