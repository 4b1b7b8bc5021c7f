package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cadence.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Weather.AttemptTimeout != 10*time.Second {
		t.Errorf("Weather.AttemptTimeout = %v, want 10s", cfg.Weather.AttemptTimeout)
	}
	if cfg.Weather.BackupAttempts != 5 {
		t.Errorf("Weather.BackupAttempts = %d, want 5", cfg.Weather.BackupAttempts)
	}
	if cfg.Ollama.Enabled {
		t.Error("Ollama should be disabled by default")
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Server.Addr() = %s", cfg.Server.Addr())
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CADENCE_SERVER_PORT", "server.port"},
		{"CADENCE_CATALOG_CLIENT_ID", "catalog.client_id"},
		{"CADENCE_WEATHER_ATTEMPT_TIMEOUT", "weather.attempt_timeout"},
		{"CADENCE_CONFIG", ""},
		{"CADENCE_DEBUG", "debug"},
	}
	for _, tt := range tests {
		if got := envKey(tt.in); got != tt.want {
			t.Errorf("envKey(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "defaults only",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != 8080 || cfg.Catalog.MaxAttempts != 3 {
					t.Errorf("unexpected defaults %+v", cfg)
				}
			},
		},
		{
			name: "file overrides defaults",
			file: "server:\n  port: 9090\nweather:\n  attempt_timeout: 3s\n  offline: true\n",
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != 9090 {
					t.Errorf("port = %d, want 9090", cfg.Server.Port)
				}
				if cfg.Weather.AttemptTimeout != 3*time.Second || !cfg.Weather.Offline {
					t.Errorf("weather = %+v", cfg.Weather)
				}
				if cfg.Weather.BackupAttempts != 5 {
					t.Errorf("unset keys keep defaults, got %d", cfg.Weather.BackupAttempts)
				}
			},
		},
		{
			name: "env overrides file",
			file: "server:\n  port: 9090\n",
			env: map[string]string{
				"CADENCE_SERVER_PORT":       "7070",
				"CADENCE_CATALOG_CLIENT_ID": "abc123",
				"CADENCE_WORKER_ENABLED":    "false",
				"CADENCE_LOGGING_FORMAT":    "console",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != 7070 {
					t.Errorf("port = %d, want 7070", cfg.Server.Port)
				}
				if cfg.Catalog.ClientID != "abc123" {
					t.Errorf("client id = %q", cfg.Catalog.ClientID)
				}
				if cfg.Worker.Enabled {
					t.Error("worker should be disabled")
				}
				if cfg.Logging.Format != "console" {
					t.Errorf("format = %q", cfg.Logging.Format)
				}
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"CADENCE_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			file:    "logging:\n  level: loud\n",
			wantErr: true,
		},
		{
			name:    "ollama enabled without model",
			file:    "ollama:\n  enabled: true\n  model: \"\"\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, tt.file)
			}

			cfg, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: got err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("validation failures should match ErrInvalidInput, got %v", err)
				}
				return
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_PathFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(PathEnvVar, writeFile(t, "database:\n  path: /tmp/history.db\n"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/tmp/history.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
