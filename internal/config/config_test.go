package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "COSTING_API_BASE_URL", "COSTING_API_TOKEN", "COSTING_API_USERNAME",
		"COSTING_API_PASSWORD", "COSTING_API_TIMEOUT", "GOOGLE_SHEETS_CREDENTIALS_PATH",
		"GOOGLE_SHEET_DATABASE_ID", "GOOGLE_SHEET_RANGE", "REPORT_CRON_SCHEDULE", "TIMEZONE",
		"MONGODB_URI", "MONGODB_DB_NAME", "SQLITE_PATH", "LABOR_FALLBACK_TO_VOLUME", "LOG_LEVEL",
	} {
		// Setenv restores the original value on cleanup; Unsetenv lets godotenv fill the key.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("COSTING_API_BASE_URL", "http://localhost:5000")
	t.Setenv("COSTING_API_TOKEN", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("log level = %q, want info", cfg.Log.Level)
	}
	if cfg.CostingAPI.Timeout != 15*time.Second {
		t.Fatalf("timeout = %v, want 15s", cfg.CostingAPI.Timeout)
	}
	if cfg.Reporting.CronSchedule != "0 6 1 * *" || cfg.Reporting.Timezone != "America/Bogota" {
		t.Fatalf("reporting = %+v", cfg.Reporting)
	}
	if cfg.SQLite.Path != "./costeo.db" {
		t.Fatalf("sqlite path = %q", cfg.SQLite.Path)
	}
	if !cfg.Allocation.LaborFallbackToVolume {
		t.Fatalf("labor fallback should default to true")
	}
	if cfg.MongoDB.Enabled() || cfg.Sheets.Enabled() {
		t.Fatalf("optional publishers should be disabled by default")
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, strings.Join([]string{
		"COSTING_API_BASE_URL=https://costeo.example.com",
		"COSTING_API_USERNAME=planner",
		"COSTING_API_PASSWORD=hunter2",
		"COSTING_API_TIMEOUT=30s",
		"LABOR_FALLBACK_TO_VOLUME=false",
	}, "\n"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.CostingAPI.Username != "planner" || cfg.CostingAPI.Password != "hunter2" {
		t.Fatalf("credentials = %+v", cfg.CostingAPI)
	}
	if cfg.CostingAPI.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v", cfg.CostingAPI.Timeout)
	}
	if cfg.Allocation.LaborFallbackToVolume {
		t.Fatalf("labor fallback should be disabled")
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing base url",
			env:  map[string]string{"COSTING_API_TOKEN": "x"},
			want: "COSTING_API_BASE_URL",
		},
		{
			name: "missing credentials",
			env:  map[string]string{"COSTING_API_BASE_URL": "http://api", "COSTING_API_USERNAME": "u"},
			want: "COSTING_API_TOKEN",
		},
		{
			name: "bad timeout",
			env:  map[string]string{"COSTING_API_BASE_URL": "http://api", "COSTING_API_TOKEN": "x", "COSTING_API_TIMEOUT": "soon"},
			want: "COSTING_API_TIMEOUT",
		},
		{
			name: "sheet without credentials",
			env:  map[string]string{"COSTING_API_BASE_URL": "http://api", "COSTING_API_TOKEN": "x", "GOOGLE_SHEET_DATABASE_ID": "sheet"},
			want: "GOOGLE_SHEETS_CREDENTIALS_PATH",
		},
		{
			name: "bad log level",
			env:  map[string]string{"COSTING_API_BASE_URL": "http://api", "COSTING_API_TOKEN": "x", "LOG_LEVEL": "loud"},
			want: "LOG_LEVEL",
		},
		{
			name: "bad fallback flag",
			env:  map[string]string{"COSTING_API_BASE_URL": "http://api", "COSTING_API_TOKEN": "x", "LABOR_FALLBACK_TO_VOLUME": "maybe"},
			want: "LABOR_FALLBACK_TO_VOLUME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}
