// internal/common/config/config.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig                `mapstructure:"app"`
	Server   ServerConfig             `mapstructure:"server"`
	Database DatabaseConfig           `mapstructure:"database"`
	Handlers map[string]HandlerConfig `mapstructure:"handlers"`
	Logging  LoggingConfig            `mapstructure:"logging"`
	Metrics  MetricsConfig            `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	MaxConnections  int    `mapstructure:"max_connections"`
	MaxIdle         int    `mapstructure:"max_idle"`
	SSLMode         string `mapstructure:"sslmode"`
	ReadOnly        bool   `mapstructure:"read_only"`
	ConnectTimeout  int    `mapstructure:"connect_timeout"` // seconds
	ApplicationName string `mapstructure:"application_name"`
}

// GetDSN returns the PostgreSQL connection string in key/value form.
// Unknown keys such as default_transaction_read_only are sent by lib/pq
// as run-time parameters.
func (p PostgresConfig) GetDSN() string {
	parts := []string{
		"host=" + quoteDSNValue(p.Host),
		fmt.Sprintf("port=%d", p.Port),
		"user=" + quoteDSNValue(p.User),
		"password=" + quoteDSNValue(p.Password),
		"dbname=" + quoteDSNValue(p.Database),
		"sslmode=" + quoteDSNValue(p.SSLMode),
	}
	if p.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", p.ConnectTimeout))
	}
	if p.ApplicationName != "" {
		parts = append(parts, "application_name="+quoteDSNValue(p.ApplicationName))
	}
	if p.ReadOnly {
		parts = append(parts, "default_transaction_read_only=on")
	}
	return strings.Join(parts, " ")
}

// Redacted returns the DSN as a URL with the password masked, for logs.
func (p PostgresConfig) Redacted() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   "/" + p.Database,
	}
	return u.Redacted()
}

func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

// HandlerConfig holds the settings applicable to every route handler.
type HandlerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
