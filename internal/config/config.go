package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	Port        string
	ContentPath string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Local habit cache (staging store drained on first authenticated session)
	CacheDir string

	// Identity boundary: tokens are issued elsewhere, we only verify them
	JWTSecret string

	// Stats
	StatsDays int

	// Observability (optional)
	SentryDSN string

	// Export storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	// Leave S3_BUCKET empty to disable the export endpoint.
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "DailyVibe"),
		AppEnv:      envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:        envString("PORT", "8090"),
		ContentPath: envString("CONTENT_PATH", "content"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/dailyvibe.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Cache
		CacheDir: envString("CACHE_DIR", "./data/cache"),

		// Identity
		JWTSecret: envRequired("JWT_SECRET"),

		// Stats
		StatsDays: envInt("STATS_DAYS", 30),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Export storage
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),
	}

	return cfg
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
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
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

// ExportEnabled reports whether the S3 export feature is configured.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}
