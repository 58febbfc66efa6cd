// internal/handlers/cpu/budget-action/config.go
package budgetaction

import "time"

type Config struct {
	Timeout time.Duration
	// MaxMemory bounds the in-memory part of a multipart form.
	MaxMemory int64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		MaxMemory: 1 << 20,
	}
}
