package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	CostingAPI CostingAPIConfig
	Sheets     SheetsConfig
	Reporting  ReportingConfig
	MongoDB    MongoDBConfig
	SQLite     SQLiteConfig
	Allocation AllocationConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig selects the minimum zap level ("debug", "info", "warn", "error").
type LogConfig struct {
	Level string
}

// CostingAPIConfig points at the costing backend and carries its credentials.
// A static token takes precedence over username/password login.
type CostingAPIConfig struct {
	BaseURL  string
	Token    string
	Username string
	Password string
	Timeout  time.Duration
}

// SheetsConfig contains configuration required to export cost rows to Google Sheets.
// Export is disabled when SpreadsheetID is empty.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Range           string
}

// Enabled reports whether the Google Sheets export is configured.
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// MongoDBConfig holds settings for MongoDB. Publishing is disabled when URI is empty.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether MongoDB publishing is configured.
func (m MongoDBConfig) Enabled() bool {
	return m.URI != ""
}

// SQLiteConfig locates the scenario database.
type SQLiteConfig struct {
	Path string
}

// AllocationConfig tunes engine options applied by the service layer.
type AllocationConfig struct {
	LaborFallbackToVolume bool
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when the environment is injected directly.
		_ = godotenv.Load()
	}

	timeout, err := getenvDuration("COSTING_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	fallback, err := getenvBool("LABOR_FALLBACK_TO_VOLUME", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		CostingAPI: CostingAPIConfig{
			BaseURL:  os.Getenv("COSTING_API_BASE_URL"),
			Token:    os.Getenv("COSTING_API_TOKEN"),
			Username: os.Getenv("COSTING_API_USERNAME"),
			Password: os.Getenv("COSTING_API_PASSWORD"),
			Timeout:  timeout,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
			Range:           getenvWithDefault("GOOGLE_SHEET_RANGE", "Costeo!A:L"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 6 1 * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Bogota"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "costeo"),
		},
		SQLite: SQLiteConfig{
			Path: getenvWithDefault("SQLITE_PATH", "./costeo.db"),
		},
		Allocation: AllocationConfig{
			LaborFallbackToVolume: fallback,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", c.Log.Level)
	}

	if c.CostingAPI.BaseURL == "" {
		return errors.New("COSTING_API_BASE_URL must be provided")
	}
	if !strings.HasPrefix(c.CostingAPI.BaseURL, "http://") && !strings.HasPrefix(c.CostingAPI.BaseURL, "https://") {
		return fmt.Errorf("COSTING_API_BASE_URL must be an http(s) URL, got %q", c.CostingAPI.BaseURL)
	}
	if c.CostingAPI.Token == "" && (c.CostingAPI.Username == "" || c.CostingAPI.Password == "") {
		return errors.New("COSTING_API_TOKEN or COSTING_API_USERNAME and COSTING_API_PASSWORD must be provided")
	}
	if c.CostingAPI.Timeout <= 0 {
		return errors.New("COSTING_API_TIMEOUT must be positive")
	}

	if c.Sheets.Enabled() && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_DATABASE_ID is set")
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.SQLite.Path == "" {
		return errors.New("SQLITE_PATH must not be empty")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
