package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port         string
	GinMode      string
	Env          string
	FrontendURL  string
	DashboardURL string

	// Database
	DBDriver      string // "mongo" or "memory"
	MongoURI      string
	MongoDatabase string

	// Session
	JWTSecret    string
	JWTExpiry    time.Duration
	CookieExpiry time.Duration
	CookieSecure bool

	// Avatar storage
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	SentryDSN string
	LogLevel  string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("API_PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", ""),
		Env:          getEnv("APP_ENV", "development"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:5173"),
		DashboardURL: getEnv("DASHBOARD_URL", "http://localhost:5174"),

		DBDriver:      getEnv("DB_DRIVER", "mongo"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "hospital"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiry:    parseDuration(getEnv("JWT_EXPIRES", "7d"), 7*24*time.Hour),
		CookieExpiry: parseDuration(getEnv("COOKIE_EXPIRE", "7"), 7*24*time.Hour),
		CookieSecure: parseBool(getEnv("COOKIE_SECURE", "false")),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getEnv("MINIO_BUCKET", "doctor-avatars"),
		MinioUseSSL:    parseBool(getEnv("MINIO_USE_SSL", "false")),
		MinioPublicURL: getEnv("MINIO_PUBLIC_URL", ""),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not configured")
	}
	switch c.DBDriver {
	case "mongo":
		if c.MongoDatabase == "" {
			return errors.New("MONGO_DATABASE is not configured")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// CORSOrigins lists the browser origins allowed to send credentialed requests.
func (c *Config) CORSOrigins() []string {
	var origins []string
	for _, o := range []string{c.FrontendURL, c.DashboardURL} {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// parseDuration accepts Go durations ("15m", "24h"), day counts with a "d"
// suffix ("7d") and bare integers, which are read as days.
func parseDuration(s string, fallback time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	days := strings.TrimSuffix(s, "d")
	if n, err := strconv.Atoi(days); err == nil {
		if n <= 0 {
			return fallback
		}
		return time.Duration(n) * 24 * time.Hour
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
