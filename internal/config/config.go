package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment override, e.g. GREENIFY_ENDPOINT.
const EnvPrefix = "GREENIFY_"

type Config struct {
	LogLevel   string `json:"log_level" env:"LOG_LEVEL"`
	LogFile    string `json:"log_file" env:"LOG_FILE"`
	PreviewDir string `json:"preview_dir" env:"PREVIEW_DIR"`

	API       APIConfig       `json:"api"`
	Tokens    TokensConfig    `json:"tokens"`
	DevServer DevServerConfig `json:"devserver"`
}

type APIConfig struct {
	Endpoint       string `json:"endpoint" env:"ENDPOINT"`
	Token          string `json:"token" env:"TOKEN"`
	TimeoutSeconds int    `json:"timeout_seconds" env:"TIMEOUT_SECONDS"`
	MaxAttempts    int    `json:"max_attempts" env:"MAX_ATTEMPTS"`
}

type TokensConfig struct {
	Encoding string `json:"encoding" env:"TOKEN_ENCODING"`
}

type DevServerConfig struct {
	Listen string `json:"listen" env:"LISTEN"`
}

// Timeout is the per-request timeout of the assistant client.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// DefaultPath is ~/.greenify/config.json.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".greenify", "config.json")
}

// Defaults returns the configuration used when no file exists yet.
func Defaults() *Config {
	cfg := &Config{LogLevel: "info"}
	cfg.API.Endpoint = "http://127.0.0.1:8585/api/chat"
	cfg.API.TimeoutSeconds = 60
	cfg.API.MaxAttempts = 3
	cfg.Tokens.Encoding = "cl100k_base"
	cfg.DevServer.Listen = "127.0.0.1:8585"
	return cfg
}

// Load reads the config file, writing defaults first if it does not exist,
// then applies GREENIFY_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment has the highest precedence.
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to path atomically.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return writeAtomic(path, data)
}

// ToMap converts cfg into its nested JSON object form.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// ListValues flattens cfg into dot-separated keys, optionally masking secrets.
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(m)
	if mask {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue reads a single dot-separated key from the file at path.
func GetValue(path, key string) (any, error) {
	flat, err := readFlat(path)
	if err != nil {
		return nil, err
	}
	v, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return v, nil
}

// SetValue updates one dot-separated key in the file at path. Values that
// parse as JSON (numbers, booleans) are stored typed; anything else is
// stored as a string.
func SetValue(path, key, raw string) error {
	flat, err := readFlat(path)
	if err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		v = raw
	}
	flat[key] = v

	data, err := json.MarshalIndent(Unflatten(flat), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return writeAtomic(path, data)
}

func readFlat(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return Flatten(m), nil
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
