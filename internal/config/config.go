package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backend names
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config represents the complete projectflow configuration
type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Latency   LatencyConfig   `mapstructure:"latency"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Web       WebConfig       `mapstructure:"web"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	UI        UIConfig        `mapstructure:"ui"`
	Notify    NotifyConfig    `mapstructure:"notify"`
}

// StorageConfig selects where the document lives
type StorageConfig struct {
	// Backend is one of memory, file, sqlite, redis
	Backend string `mapstructure:"backend"`
	// Path is the file or database path for file/sqlite backends
	Path string `mapstructure:"path"`
	// Key names the document (the localStorage key in the browser build)
	Key       string `mapstructure:"key"`
	RedisAddr string `mapstructure:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db"`
}

// LatencyConfig controls the simulated network delay
type LatencyConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Scale multiplies every simulated delay (1.0 = original timings)
	Scale float64 `mapstructure:"scale"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	// Dir receives projectflow.log; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// WebConfig controls the HTTP server
type WebConfig struct {
	Addr            string `mapstructure:"addr"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_seconds"`
}

// NotifyConfig controls desktop reminders
type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AssistantConfig controls the canned assistant
type AssistantConfig struct {
	// Seed fixes the response picker; 0 seeds from the clock
	Seed uint64 `mapstructure:"seed"`
}

// UIConfig controls the terminal board
type UIConfig struct {
	Theme string `mapstructure:"theme"`
}

// ShutdownTimeoutDuration returns the graceful shutdown timeout
func (c *WebConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			Path:      filepath.Join(DataDir(), "projectflow.db"),
			Key:       "projectflow-data",
			RedisAddr: "localhost:6379",
			RedisDB:   0,
		},
		Latency: LatencyConfig{
			Enabled: true,
			Scale:   1.0,
		},
		Logging: LoggingConfig{
			Level: "INFO",
			Dir:   filepath.Join(DataDir(), "logs"),
		},
		Web: WebConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5,
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		UI: UIConfig{
			Theme: "nord",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("storage.backend", defaults.Storage.Backend)
	viper.SetDefault("storage.path", defaults.Storage.Path)
	viper.SetDefault("storage.key", defaults.Storage.Key)
	viper.SetDefault("storage.redis_addr", defaults.Storage.RedisAddr)
	viper.SetDefault("storage.redis_db", defaults.Storage.RedisDB)

	viper.SetDefault("latency.enabled", defaults.Latency.Enabled)
	viper.SetDefault("latency.scale", defaults.Latency.Scale)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("web.addr", defaults.Web.Addr)
	viper.SetDefault("web.shutdown_timeout_seconds", defaults.Web.ShutdownTimeout)

	viper.SetDefault("assistant.seed", defaults.Assistant.Seed)

	viper.SetDefault("ui.theme", defaults.UI.Theme)
	viper.SetDefault("notify.enabled", defaults.Notify.Enabled)
}

// Init points viper at the config file and environment. An explicit file
// wins over the search path; a missing file is not an error.
func Init(cfgFile string) {
	SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("PROJECTFLOW")
	// PROJECTFLOW_STORAGE_BACKEND for storage.backend
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendRedis:
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	default:
		return fmt.Errorf("unknown storage backend: %q (expected memory, file, sqlite or redis)", c.Storage.Backend)
	}

	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	if c.Storage.Backend == BackendRedis && c.Storage.RedisAddr == "" {
		return fmt.Errorf("storage.redis_addr is required for the redis backend")
	}
	if c.Latency.Scale < 0 {
		return fmt.Errorf("latency.scale must not be negative, got %v", c.Latency.Scale)
	}
	if c.Web.ShutdownTimeout < 0 {
		return fmt.Errorf("web.shutdown_timeout_seconds must not be negative")
	}
	return nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "projectflow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".projectflow"
	}
	return filepath.Join(home, ".config", "projectflow")
}

// DataDir returns the default data directory path
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "projectflow")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".projectflow"
	}
	return filepath.Join(home, ".local", "share", "projectflow")
}
