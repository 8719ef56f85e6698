// Package config handles the XDG configuration directory and the optional
// config.yaml inside it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// StoreFile is the default SQLite database filename.
	StoreFile = "todo.db"

	// EnvPrefix prefixes environment overrides, e.g. TODO_STORE_DRIVER.
	EnvPrefix = "TODO"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-" mapstructure:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-" mapstructure:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-" mapstructure:"-"`

	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Session SessionConfig `yaml:"session" mapstructure:"session"`
	List    ListConfig    `yaml:"list" mapstructure:"list"`
}

// StoreConfig selects the key-value store backend.
type StoreConfig struct {
	// Driver is sqlite3, postgres or memory.
	Driver string `yaml:"driver" mapstructure:"driver"`

	// DSN is the SQLite path or the PostgreSQL connection string.
	// Empty means <dir>/todo.db for sqlite3.
	DSN string `yaml:"dsn" mapstructure:"dsn"`
}

// SessionConfig configures logins.
type SessionConfig struct {
	// TTL bounds how long a login stays valid. Zero never expires.
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ListConfig holds the defaults of the list command.
type ListConfig struct {
	Filter string `yaml:"filter" mapstructure:"filter"`
	Sort   string `yaml:"sort" mapstructure:"sort"`
	Locale string `yaml:"locale" mapstructure:"locale"`
}

// Default returns the built-in settings for dir.
func Default(dir string) *Config {
	return &Config{
		Dir:   dir,
		Store: StoreConfig{Driver: "sqlite3"},
		List:  ListConfig{Filter: "all", Sort: "none", Locale: "en"},
	}
}

// New creates a new Config with the default or specified config directory and
// loads config.yaml from it when present.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := Default(dir)

	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// load merges config.yaml and TODO_* environment variables into c.
func (c *Config) load() error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults make every key known to viper so env overrides apply without a file.
	v.SetDefault("store.driver", c.Store.Driver)
	v.SetDefault("store.dsn", c.Store.DSN)
	v.SetDefault("session.ttl", c.Session.TTL)
	v.SetDefault("list.filter", c.List.Filter)
	v.SetDefault("list.sort", c.List.Sort)
	v.SetDefault("list.locale", c.List.Locale)

	path := c.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// StoreDSN returns the DSN to open, defaulting to <dir>/todo.db for sqlite3.
func (c *Config) StoreDSN() string {
	if c.Store.DSN == "" && c.Store.Driver == "sqlite3" {
		return filepath.Join(c.Dir, StoreFile)
	}
	return c.Store.DSN
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// YAML renders the effective settings in config.yaml form.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
