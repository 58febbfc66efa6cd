// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultHandlerTimeout = 10000 // milliseconds
)

// Load reads configs/config.yaml (if present), merges config.<APP_ENVIRONMENT>.yaml
// on top, then applies environment overrides and defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// setDefaults registers every key so AutomaticEnv can override it even
// when no config file is present.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cpu-listings")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 15000)
	v.SetDefault("server.shutdown_timeout", 10000)

	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.max_connections", 25)
	v.SetDefault("database.postgres.max_idle", 5)
	v.SetDefault("database.postgres.sslmode", "disable")
	v.SetDefault("database.postgres.read_only", true)
	v.SetDefault("database.postgres.connect_timeout", 5)
	v.SetDefault("database.postgres.application_name", "cpu-listings")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

func overrideEmptyConfig(cfg *Config) {
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Postgres.Host == "" {
		if val := os.Getenv("DB_HOST"); val != "" {
			cfg.Database.Postgres.Host = val
		}
	}
	if cfg.Database.Postgres.Database == "" {
		if val := os.Getenv("DB_NAME"); val != "" {
			cfg.Database.Postgres.Database = val
		}
	}
}

// applyDefaults fills values viper cannot default, such as map entries.
func applyDefaults(cfg *Config) {
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Handlers == nil {
		cfg.Handlers = make(map[string]HandlerConfig)
	}
	for key, handler := range cfg.Handlers {
		if handler.Timeout == 0 {
			handler.Timeout = DefaultHandlerTimeout
		}
		cfg.Handlers[key] = handler
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	if cfg.Database.Postgres.Port <= 0 || cfg.Database.Postgres.Port > 65535 {
		return fmt.Errorf("database.postgres.port out of range: %d", cfg.Database.Postgres.Port)
	}
	for name, handler := range cfg.Handlers {
		if handler.Timeout < 0 {
			return fmt.Errorf("handlers.%s.timeout must not be negative", name)
		}
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetHandlerConfig retrieves route-specific configuration with fallback to defaults.
func GetHandlerConfig(cfg *Config, name string) HandlerConfig {
	if handler, exists := cfg.Handlers[name]; exists {
		return handler
	}
	return HandlerConfig{
		Enabled: true,
		Timeout: DefaultHandlerTimeout,
	}
}

// IsHandlerEnabled reports whether a route is enabled. Unlisted routes are on.
func IsHandlerEnabled(cfg *Config, name string) bool {
	return GetHandlerConfig(cfg, name).Enabled
}
