package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	MailProviderLog     = "log"
	MailProviderResend  = "resend"
	MailProviderMailgun = "mailgun"

	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	// Application
	AppName      string
	AppEnv       string
	AppURL       string
	Port         string
	PostsPerPage int

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	SecretKey          string
	SessionExpiry      time.Duration
	TokenConfirmExpiry time.Duration
	TokenResetExpiry   time.Duration

	// Rate limiting for POST /login, /sign-up and /reset
	RateLimitEnabled bool
	RedisURL         string // Optional: shared limiter across instances
	AuthRateLimit    int
	AuthRateWindow   time.Duration

	// Email
	MailProvider  string // "log", "resend" or "mailgun"
	MailFrom      string
	ResendAPIKey  string
	MailgunDomain string
	MailgunAPIKey string

	// Observability (optional)
	SentryDSN string

	// Storage
	StorageDriver string // "local" or "s3"
	UploadDir     string

	// S3-compatible storage: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiry time.Duration // Expiry for post images - default: 7 days
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	appEnv := envRequired("APP_ENV") // Required: 'development', 'production' or 'test'

	defaultMailProvider := MailProviderLog
	if appEnv == "production" {
		defaultMailProvider = MailProviderResend
	}

	cfg := &Config{
		// Application
		AppName:      envString("APP_NAME", "Blog"),
		AppEnv:       appEnv,
		AppURL:       envRequired("APP_URL"), // Required: base URL for confirmation and reset links
		Port:         envString("PORT", "8090"),
		PostsPerPage: envInt("POSTS_PER_PAGE", 20),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/blog.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Security
		SecretKey:          envRequired("SECRET_KEY"),
		SessionExpiry:      envDuration("SESSION_EXPIRY", 168*time.Hour),   // 7 days
		TokenConfirmExpiry: envDuration("TOKEN_CONFIRM_EXPIRY", time.Hour), // 1 hour
		TokenResetExpiry:   envDuration("TOKEN_RESET_EXPIRY", time.Hour),   // 1 hour

		// Rate limiting (off by default in test runs)
		RateLimitEnabled: envBool("RATE_LIMIT_ENABLED", appEnv != "test"),
		RedisURL:         envString("REDIS_URL", ""),
		AuthRateLimit:    envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow:   envDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		// Email
		MailProvider:  envString("MAIL_PROVIDER", defaultMailProvider),
		MailFrom:      envString("MAIL_FROM", "noreply@example.com"),
		ResendAPIKey:  envString("RESEND_API_KEY", ""),
		MailgunDomain: envString("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: envString("MAILGUN_API_KEY", ""),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		StorageDriver: envString("STORAGE_DRIVER", StorageDriverLocal),
		UploadDir:     envString("UPLOAD_DIR", "./data/uploads"),

		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),                    // Optional: for non-AWS providers
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 168*time.Hour), // Default: 7 days
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for production deployments.
// Development allows email to use the log provider for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.MailProvider == MailProviderLog {
		slog.Error("production deployment requires a real MAIL_PROVIDER",
			"hint", "set MAIL_PROVIDER=resend or MAIL_PROVIDER=mailgun")
		os.Exit(1)
	}
	if cfg.StorageDriver == StorageDriverS3 && cfg.S3Bucket == "" {
		slog.Error("production deployment with STORAGE_DRIVER=s3 requires S3_BUCKET")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:      c.AppName,
		AppEnv:       c.AppEnv,
		AppURL:       c.AppURL,
		Port:         c.Port,
		PostsPerPage: c.PostsPerPage,
		MailFrom:     c.MailFrom,

		StorageDriver: c.StorageDriver,
		S3Endpoint:    c.S3Endpoint, // Needed for CSP policies
		S3Bucket:      c.S3Bucket,
		S3Region:      c.S3Region,
	}
}
