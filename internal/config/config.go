package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string
	Environment string
	BaseURL     string
	LogLevel    string
	CORSOrigins []string

	// Database
	DBDriver    string
	DBPath      string
	DatabaseURL string

	// Uploads
	UploadsDir       string
	UploadsURLPrefix string
	MaxImageSize     int64
	MaxVideoSize     int64
	MaxBulkFiles     int
	BulkConcurrency  int

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Email
	EmailHost    string
	EmailPort    int
	EmailUser    string
	EmailPass    string
	EmailSecure  bool
	ContactEmail string

	// SMS
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
	BusinessPhones    []string

	// Supabase storage mirror
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: TOKEN_TTL: %w", err)
	}

	cfg := &Config{
		Port:        getEnv("PORT", getEnv("BACKEND_PORT", "5001")),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getList("CORS_ORIGINS", []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:3001",
		}),

		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DBPath:      getEnv("DB_PATH", "data/wallpapers.db"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		UploadsDir:       getEnv("UPLOADS_DIR", "public/uploads"),
		UploadsURLPrefix: getEnv("UPLOADS_URL_PREFIX", "/uploads"),
		MaxImageSize:     int64(getInt("MAX_IMAGE_SIZE_MB", 10)) << 20,
		MaxVideoSize:     int64(getInt("MAX_VIDEO_SIZE_MB", 50)) << 20,
		MaxBulkFiles:     getInt("MAX_BULK_FILES", 100),
		BulkConcurrency:  getInt("BULK_CONCURRENCY", 4),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  ttl,

		EmailHost:    getEnv("EMAIL_HOST", ""),
		EmailPort:    getInt("EMAIL_PORT", 587),
		EmailUser:    getEnv("EMAIL_USER", ""),
		EmailPass:    getEnv("EMAIL_PASS", ""),
		EmailSecure:  getEnv("EMAIL_SECURE", "false") == "true",
		ContactEmail: getEnv("CONTACT_EMAIL", ""),

		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		BusinessPhones:    nonEmpty(getEnv("BUSINESS_PHONE_1", ""), getEnv("BUSINESS_PHONE_2", "")),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "wallpapers"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxBulkFiles <= 0 {
		return fmt.Errorf("MAX_BULK_FILES must be positive")
	}
	if c.BulkConcurrency <= 0 {
		c.BulkConcurrency = 1
	}
	return nil
}

// DSN returns the data source for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

func (c *Config) EmailEnabled() bool {
	return c.EmailHost != "" && c.EmailUser != "" && c.EmailPass != "" && c.ContactEmail != ""
}

func (c *Config) SMSEnabled() bool {
	return strings.HasPrefix(c.TwilioAccountSID, "AC") && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != "" && len(c.BusinessPhones) > 0
}

func (c *Config) MirrorEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != "" && c.SupabaseStorageBucket != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return nonEmpty(strings.Split(value, ",")...)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
