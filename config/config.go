package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Firebase  FirebaseConfig
	Figma     FigmaConfig
	Analytics AnalyticsConfig
	Jobs      JobsConfig
	App       AppConfig
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	PublicBaseURL   string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig is optional; an empty Addr turns off the thumbnail cache and
// view de-duplication.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (c RedisConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

type FirebaseConfig struct {
	CredentialsPath string
	// AuthDisabled trusts the X-User-Id header instead of verifying ID tokens.
	// Local development only.
	AuthDisabled bool
}

type FigmaConfig struct {
	AccessToken  string
	OAuthToken   string
	APIURL       string
	EmbedHost    string
	RateLimit    float64
	ThumbnailTTL time.Duration
}

func (c FigmaConfig) Configured() bool {
	return c.AccessToken != "" || c.OAuthToken != ""
}

type AnalyticsConfig struct {
	ViewDedupeWindow   time.Duration
	TrackViewRateLimit float64
	MaxDays            int
}

type JobsConfig struct {
	Enabled            bool
	TrashRetentionDays int
	ShareLinkGraceDays int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			PublicBaseURL:   strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "protodeck"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			AuthDisabled:    getEnvAsBool("AUTH_DISABLED", false),
		},
		Figma: FigmaConfig{
			AccessToken:  getEnv("FIGMA_ACCESS_TOKEN", ""),
			OAuthToken:   getEnv("FIGMA_OAUTH_TOKEN", ""),
			APIURL:       strings.TrimRight(getEnv("FIGMA_API_URL", "https://api.figma.com"), "/"),
			EmbedHost:    getEnv("FIGMA_EMBED_HOST", "protodeck"),
			RateLimit:    getEnvAsFloat("FIGMA_RATE_LIMIT", 2),
			ThumbnailTTL: getEnvAsDuration("FIGMA_THUMBNAIL_TTL", 6*time.Hour),
		},
		Analytics: AnalyticsConfig{
			ViewDedupeWindow:   getEnvAsDuration("VIEW_DEDUPE_WINDOW", 30*time.Minute),
			TrackViewRateLimit: getEnvAsFloat("TRACK_VIEW_RATE_LIMIT", 5),
			MaxDays:            getEnvAsInt("ANALYTICS_MAX_DAYS", 365),
		},
		Jobs: JobsConfig{
			Enabled:            getEnvAsBool("JOBS_ENABLED", true),
			TrashRetentionDays: getEnvAsInt("TRASH_RETENTION_DAYS", 0),
			ShareLinkGraceDays: getEnvAsInt("SHARE_LINK_GRACE_DAYS", 30),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if !c.Firebase.AuthDisabled && c.Firebase.CredentialsPath == "" {
		return fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required unless AUTH_DISABLED=true")
	}

	if c.Analytics.MaxDays <= 0 {
		return fmt.Errorf("ANALYTICS_MAX_DAYS must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
