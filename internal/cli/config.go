package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultServerURL = "http://localhost:8080"

// Config es el archivo ~/.config/petlog/config.yaml. Prioridad:
// flags > env (PETLOG_*) > archivo > defaults.
type Config struct {
	ServerURL   string `yaml:"server_url"`
	UserID      string `yaml:"user_id"`
	Token       string `yaml:"token"`
	OdinBaseURL string `yaml:"odin_base_url"`
	OdinAPIKey  string `yaml:"odin_api_key"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
}

// DefaultConfigPath es $HOME/.config/petlog/config.yaml ("" si no hay HOME).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "petlog", "config.yaml")
}

// LoadConfig lee path. Si el archivo no existe y no lo pidieron
// explícitamente, devuelve los defaults.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := Config{}

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv("PETLOG_SERVER_URL")); v != "" {
		c.ServerURL = v
	}
	if v := strings.TrimSpace(getenv("PETLOG_USER_ID")); v != "" {
		c.UserID = v
	}
	if v := strings.TrimSpace(getenv("PETLOG_TOKEN")); v != "" {
		c.Token = v
	}
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ServerURL) == "" {
		c.ServerURL = DefaultServerURL
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "warn"
	}
	if strings.TrimSpace(c.LogFormat) == "" {
		c.LogFormat = "text"
	}
}

// applyFlags pisa con lo que vino por flag.
func (c *Config) applyFlags(o *RootOptions) {
	if o.Server != "" {
		c.ServerURL = o.Server
	}
	if o.User != "" {
		c.UserID = o.User
	}
	if o.Token != "" {
		c.Token = o.Token
	}
	if o.Verbose {
		c.LogLevel = "debug"
	}
}
