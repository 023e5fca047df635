package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != "8080" {
		t.Errorf("expected default APIPort=8080, got %s", cfg.APIPort)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected default LogLevel=info, got %s", cfg.LogLevel)
	}

	if cfg.DatasetPath != "./data/users.json" {
		t.Errorf("expected default DatasetPath, got %s", cfg.DatasetPath)
	}

	if !cfg.SearchIncludeDomain {
		t.Error("expected SearchIncludeDomain to default to true")
	}

	if cfg.UsePostgres() {
		t.Error("Postgres should be off without DATABASE_URL")
	}

	if cfg.ExportInterval != 0 {
		t.Errorf("expected ExportInterval to default to 0, got %s", cfg.ExportInterval)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/users")
	t.Setenv("SEARCH_INCLUDE_DOMAIN", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIPort != "9000" {
		t.Errorf("expected APIPort=9000, got %s", cfg.APIPort)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", cfg.LogLevel)
	}

	if !cfg.UsePostgres() {
		t.Error("expected Postgres when DATABASE_URL is set")
	}

	if cfg.SearchIncludeDomain {
		t.Error("expected SearchIncludeDomain=false")
	}
}

func TestLoadInvalidBool(t *testing.T) {
	t.Setenv("SEARCH_INCLUDE_DOMAIN", "maybe")

	if _, err := Load(); err == nil {
		t.Error("expected error for invalid SEARCH_INCLUDE_DOMAIN")
	}
}

func TestLoadExportInterval(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Duration
		wantErr bool
	}{
		{value: "5m", want: 5 * time.Minute},
		{value: "0s", want: 0},
		{value: "soon", wantErr: true},
		{value: "-1m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("EXPORT_INTERVAL", tt.value)
			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			if cfg.ExportInterval != tt.want {
				t.Errorf("ExportInterval = %s, want %s", cfg.ExportInterval, tt.want)
			}
		})
	}
}

func TestGetEnvFallback(t *testing.T) {
	_ = os.Unsetenv("PEOPLEPICKER_UNSET")
	if got := getEnv("PEOPLEPICKER_UNSET", "x"); got != "x" {
		t.Errorf("expected fallback x, got %s", got)
	}
}
