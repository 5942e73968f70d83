package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	ListenAddr  string
	LogLevel    string

	StorageDriver string
	SQLitePath    string

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ReportLogoPath string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:        getenv("APP_SERVICE", "facturad"),
		AppVersion:     getenv("APP_VERSION", "0.1.0"),
		Environment:    getenv("ENVIRONMENT", "development"),
		ListenAddr:     getenv("LISTEN_ADDR", ":8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		StorageDriver:  normalizeDriver(getenv("STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:     getenv("SQLITE_PATH", "facturacloud.db"),
		DBHost:         getenv("DATABASE_HOST", "localhost"),
		DBPort:         getenv("DATABASE_PORT", "5432"),
		DBName:         getenv("DATABASE_NAME", "facturacloud"),
		DBUser:         getenv("DATABASE_USER", "postgres"),
		DBPassword:     getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:      getenv("DATABASE_SSLMODE", "disable"),
		ReportLogoPath: getenv("REPORT_LOGO_PATH", ""),
	}
}

func normalizeDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case DriverPostgres:
		return DriverPostgres
	default:
		return DriverSQLite
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
