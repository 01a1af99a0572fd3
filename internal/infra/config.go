// Package infra handles configuration loading and infrastructure wiring.
package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ruslano69/itemgate/internal/diaglog"
	"github.com/ruslano69/itemgate/pkg/adapters"
)

// NotSet is shown instead of empty values on the config endpoints.
const NotSet = "(not set)"

// MaskedPassword replaces a non-empty password on the config endpoints.
const MaskedPassword = "********"

// DefaultHTTPPort is used when none of WAS_PORT, WEB_PORT, PORT is set.
const DefaultHTTPPort = 81

// Config is the top-level configuration structure for itemgate.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Log         LogConfig         `yaml:"log"`

	// Database comes from the environment only and is never mutated after load.
	Database adapters.Config `yaml:"-"`
}

// ServerConfig controls the HTTP listeners.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // WAS_PORT > WEB_PORT > PORT override this
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default 10s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default 30s
	MetricsAddr  string        `yaml:"metrics_addr"`  // empty = no metrics listener
	PublicDir    string        `yaml:"public_dir"`    // default "public"
}

// DiagnosticsConfig sizes the diagnostic ring and its optional Redis mirror.
type DiagnosticsConfig struct {
	Capacity int                 `yaml:"capacity"` // default 100
	Redis    diaglog.RedisConfig `yaml:"redis"`
}

// LogConfig selects zerolog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error, default info
	Format string `yaml:"format"` // console|json, default console
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}

// LoadConfig applies defaults, the optional YAML file at path, a .env file in
// the working directory (if present) and finally the process environment.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: .env: %w", err)
	}
	return load(path, os.Getenv)
}

func load(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	// Defaults
	cfg.Server.Port = DefaultHTTPPort
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Server.PublicDir = "public"
	cfg.Diagnostics.Capacity = diaglog.DefaultCapacity
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}

	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(getenv func(string) string, keys ...string) (string, string) {
	for _, k := range keys {
		if v := getenv(k); v != "" {
			return k, v
		}
	}
	return "", ""
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if key, v := firstEnv(getenv, "WAS_PORT", "WEB_PORT", "PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("config: %s=%q is not a valid port", key, v)
		}
		cfg.Server.Port = port
	}

	cfg.Database = adapters.Config{
		Type:     getenv("DB_TYPE"),
		Host:     getenv("DB_HOST"),
		Port:     getenv("DB_PORT"),
		Database: getenv("DB_NAME"),
		User:     getenv("DB_USER"),
		Password: getenv("DB_PASSWORD"),
	}

	if v := getenv("METRICS_ADDR"); v != "" {
		cfg.Server.MetricsAddr = v
	}
	if v := getenv("PUBLIC_DIR"); v != "" {
		cfg.Server.PublicDir = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	if v := getenv("REDIS_ADDR"); v != "" {
		cfg.Diagnostics.Redis.Addr = v
	}
	if v := getenv("REDIS_PASSWORD"); v != "" {
		cfg.Diagnostics.Redis.Password = v
	}
	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: REDIS_DB=%q is not a number", v)
		}
		cfg.Diagnostics.Redis.DB = db
	}
	return nil
}

// EnvVar is one row of the display-safe configuration.
type EnvVar struct {
	Key   string
	Value string
}

// DisplayEnv returns the DB settings as shown to operators: the password is
// masked and empty values are replaced by NotSet. withPort prepends PORT.
func (c *Config) DisplayEnv(withPort bool) []EnvVar {
	show := func(v string) string {
		if v == "" {
			return NotSet
		}
		return v
	}
	password := NotSet
	if c.Database.Password != "" {
		password = MaskedPassword
	}

	var out []EnvVar
	if withPort {
		out = append(out, EnvVar{"PORT", strconv.Itoa(c.Server.Port)})
	}
	return append(out,
		EnvVar{"DB_TYPE", show(strings.ToUpper(strings.TrimSpace(c.Database.Type)))},
		EnvVar{"DB_HOST", show(c.Database.Host)},
		EnvVar{"DB_PORT", show(c.Database.Port)},
		EnvVar{"DB_NAME", show(c.Database.Database)},
		EnvVar{"DB_USER", show(c.Database.User)},
		EnvVar{"DB_PASSWORD", password},
	)
}
