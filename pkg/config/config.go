package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultHospitalFeedURL is the CMS Hospital General Information export.
	DefaultHospitalFeedURL = "https://data.cms.gov/provider-data/sites/default/files/resources/893c372430d9d71a1c52737d01239d47_1760630721/Hospital_General_Information.csv"

	// DefaultMapboxBaseURL is the Mapbox API root used for geocoding.
	DefaultMapboxBaseURL = "https://api.mapbox.com"
)

// Config holds all application configuration
type Config struct {
	Env         string
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Typesense   TypesenseConfig
	Geolocation GeolocationConfig
	Feed        FeedConfig
	Import      ImportConfig
	CORS        CORSConfig
	OTEL        OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database configuration. URL takes precedence over the
// individual connection fields when set.
type DatabaseConfig struct {
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration. An empty URL disables indexing.
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// GeolocationConfig holds geocoding provider configuration
type GeolocationConfig struct {
	Provider    string
	AccessToken string
	BaseURL     string
	Country     string
}

// FeedConfig holds the hospital directory feed location
type FeedConfig struct {
	URL     string
	Timeout time.Duration
}

// ImportConfig holds the hospital import pipeline tuning
type ImportConfig struct {
	BatchSize      int
	BatchDelay     time.Duration
	DefaultLimit   int
	IdempotencyTTL time.Duration
}

// CORSConfig holds allowed origins for browser clients
type CORSConfig struct {
	AllowedOrigins []string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Env: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "volunteer_connect"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", ""),
			APIKey: getEnv("TYPESENSE_API_KEY", ""),
		},
		Geolocation: GeolocationConfig{
			Provider:    strings.ToLower(getEnv("GEOLOCATION_PROVIDER", "mapbox")),
			AccessToken: getEnv("MAPBOX_ACCESS_TOKEN", ""),
			BaseURL:     getEnv("MAPBOX_BASE_URL", DefaultMapboxBaseURL),
			Country:     getEnv("GEOCODE_COUNTRY", "US"),
		},
		Feed: FeedConfig{
			URL:     getEnv("HOSPITAL_FEED_URL", DefaultHospitalFeedURL),
			Timeout: getEnvAsDuration("FEED_TIMEOUT", 2*time.Minute),
		},
		Import: ImportConfig{
			BatchSize:      getEnvAsInt("IMPORT_BATCH_SIZE", 10),
			BatchDelay:     getEnvAsDuration("IMPORT_BATCH_DELAY", 500*time.Millisecond),
			DefaultLimit:   getEnvAsInt("IMPORT_DEFAULT_LIMIT", 100),
			IdempotencyTTL: getEnvAsDuration("IMPORT_IDEMPOTENCY_TTL", 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "volunteer-connect"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.Import.BatchSize <= 0 {
		return nil, fmt.Errorf("IMPORT_BATCH_SIZE must be positive, got %d", cfg.Import.BatchSize)
	}
	if cfg.Import.BatchDelay < 0 {
		return nil, fmt.Errorf("IMPORT_BATCH_DELAY must not be negative")
	}

	return cfg, nil
}

// Validate reports the credentials the hospital import cannot run without.
// All missing settings are reported together.
func (c *Config) Validate() error {
	var errs []error
	if c.Geolocation.Provider != "mock" && strings.TrimSpace(c.Geolocation.AccessToken) == "" {
		errs = append(errs, errors.New("MAPBOX_ACCESS_TOKEN not configured"))
	}
	if strings.TrimSpace(c.Database.URL) == "" {
		if strings.TrimSpace(c.Database.Host) == "" {
			errs = append(errs, errors.New("DATABASE_URL or DB_HOST not configured"))
		}
		if c.Database.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD not configured"))
		}
	}
	return errors.Join(errs...)
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
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
