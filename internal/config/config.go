package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port            string
	CORSOrigins     string
	RateLimitSubmit int
	AppEnv          string

	// Record store
	StoreDriver string // file, bolt, postgres
	ReportsDir  string
	BoltPath    string

	// Database (postgres store + system log sink)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Evidence
	EvidenceDriver    string // local, minio
	UploadMaxFiles    int
	UploadMaxBytes    int64
	UploadMaxBody     int64
	UploadAllowedExts []string
	S3Endpoint        string
	S3AccessKey       string
	S3SecretKey       string
	S3Bucket          string
	S3Region          string
	S3UseSSL          bool

	// Admin
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	SessionTTL        time.Duration
	CookieSecure      bool

	// JWT (programmatic admin access)
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Background jobs
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	WorkerConcurrency int

	// Notifications
	TelegramToken  string
	TelegramChatID int64

	SentryDSN string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:8080,http://127.0.0.1:8080"),
		RateLimitSubmit: parsePositive(getEnv("RATE_LIMIT_SUBMIT", "10"), 10),
		AppEnv:          getEnv("APP_ENV", "development"),

		StoreDriver: getEnv("STORE_DRIVER", "file"),
		ReportsDir:  getEnv("REPORTS_DIR", "reports"),
		BoltPath:    getEnv("BOLT_PATH", "reports.db"),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "fraudwatch"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		EvidenceDriver:    getEnv("EVIDENCE_DRIVER", "local"),
		UploadMaxFiles:    parsePositive(getEnv("UPLOAD_MAX_FILES", "5"), 5),
		UploadMaxBytes:    int64(parsePositive(getEnv("UPLOAD_MAX_BYTES", "10485760"), 10<<20)),
		UploadMaxBody:     int64(parsePositive(getEnv("UPLOAD_MAX_BODY", "134217728"), 128<<20)),
		UploadAllowedExts: parseCSV(getEnv("UPLOAD_ALLOWED_EXT", ".jpg,.jpeg,.png,.pdf,.doc,.docx")),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		S3Bucket:          getEnv("S3_BUCKET", "fraud-evidence"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3UseSSL:          parseBool(getEnv("S3_USE_SSL", "false")),

		AdminUsername:     getEnv("ADMIN_USERNAME", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		SessionTTL:        parseDuration(getEnv("SESSION_TTL", "8h"), 8*time.Hour),
		CookieSecure:      parseBool(getEnv("COOKIE_SECURE", "false")),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "1h"), time.Hour),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           parseInt(getEnv("REDIS_DB", "0"), 0),
		WorkerConcurrency: parsePositive(getEnv("WORKER_CONCURRENCY", "4"), 4),

		TelegramToken:  getEnv("TELEGRAM_TOKEN", ""),
		TelegramChatID: int64(parseInt(getEnv("TELEGRAM_CHAT_ID", "0"), 0)),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

// Validate reports the settings the server refuses to start without.
func (c *Config) Validate() error {
	var errs []error
	if c.AdminUsername == "" {
		errs = append(errs, errors.New("ADMIN_USERNAME is required"))
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.StoreDriver == "postgres" && !c.HasDatabase() {
		errs = append(errs, errors.New("DB_HOST is required for the postgres store"))
	}
	return errors.Join(errs...)
}

// HasDatabase reports whether a postgres connection is configured.
func (c *Config) HasDatabase() bool {
	return c.DBHost != ""
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// BodyLimit caps a whole submission request. Oversized or surplus files
// are skipped by the uploader, so the cap sits well above a full set of
// allowed files; it never drops below that set plus form overhead.
func (c *Config) BodyLimit() int {
	floor := int64(c.UploadMaxFiles)*c.UploadMaxBytes + 1<<20
	return int(max(c.UploadMaxBody, floor))
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// parsePositive is parseInt for settings where zero or less makes no sense.
func parsePositive(s string, fallback int) int {
	n := parseInt(s, fallback)
	if n <= 0 {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
