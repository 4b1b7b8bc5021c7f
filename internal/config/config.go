// Package config loads cadence settings in layers: built-in defaults, an
// optional YAML file, then CADENCE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/ewilliams-labs/cadence/internal/validation"
)

const (
	// EnvPrefix is stripped from environment variables before mapping.
	EnvPrefix = "CADENCE_"
	// PathEnvVar names the YAML config file.
	PathEnvVar = "CADENCE_CONFIG"
)

// DefaultPaths are searched when PathEnvVar is unset.
var DefaultPaths = []string{"cadence.yaml", "cadence.yml", "/etc/cadence/config.yaml"}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Database DatabaseConfig `koanf:"database"`
	Weather  WeatherConfig  `koanf:"weather"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Ollama   OllamaConfig   `koanf:"ollama"`
	Worker   WorkerConfig   `koanf:"worker"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Addr is host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

type DatabaseConfig struct {
	// Path is the SQLite file. Empty disables history.
	Path string `koanf:"path"`
}

type WeatherConfig struct {
	BaseURL        string        `koanf:"base_url" validate:"required,url"`
	AttemptTimeout time.Duration `koanf:"attempt_timeout" validate:"gt=0"`
	BackupAttempts int           `koanf:"backup_attempts" validate:"min=0,max=12"`
	MaxAttempts    int           `koanf:"max_attempts" validate:"min=1,max=10"`
	BreakerTrips   uint32        `koanf:"breaker_trips" validate:"min=1"`
	BreakerTimeout time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
	// Offline skips remote lookups and always uses the seasonal estimate.
	Offline bool `koanf:"offline"`
}

type CatalogConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	// ClientID enables catalogue search when set.
	ClientID    string        `koanf:"client_id"`
	MaxAttempts int           `koanf:"max_attempts" validate:"min=1,max=10"`
	Backoff     time.Duration `koanf:"backoff" validate:"gte=0"`
}

type OllamaConfig struct {
	Enabled bool          `koanf:"enabled"`
	BaseURL string        `koanf:"base_url" validate:"omitempty,url"`
	Model   string        `koanf:"model" validate:"required_if=Enabled true"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

type WorkerConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Workers    int           `koanf:"workers" validate:"min=1,max=64"`
	QueueSize  int           `koanf:"queue_size" validate:"min=1"`
	JobTimeout time.Duration `koanf:"job_timeout" validate:"gt=0"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second, // a full cascade can take several attempt timeouts
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Database: DatabaseConfig{
			Path: "cadence.db",
		},
		Weather: WeatherConfig{
			BaseURL:        "https://wttr.in",
			AttemptTimeout: 10 * time.Second,
			BackupAttempts: 5,
			MaxAttempts:    1,
			BreakerTrips:   5,
			BreakerTimeout: time.Minute,
		},
		Catalog: CatalogConfig{
			BaseURL:     "https://api.jamendo.com/v3.0",
			MaxAttempts: 3,
			Backoff:     500 * time.Millisecond,
		},
		Ollama: OllamaConfig{
			Enabled: false,
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2:3b",
			Timeout: 30 * time.Second,
		},
		Worker: WorkerConfig{
			Enabled:    true,
			Workers:    2,
			QueueSize:  64,
			JobTimeout: 30 * time.Second,
		},
	}
}

// Load builds the configuration. An explicit path wins over PathEnvVar and
// DefaultPaths; a missing explicit file is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	} else if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKey maps CADENCE_CATALOG_CLIENT_ID to catalog.client_id: the first
// segment names the section, the rest is the field.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key == "config" {
		return ""
	}
	section, field, ok := strings.Cut(key, "_")
	if !ok {
		return key
	}
	return section + "." + field
}
