package httpserver

import (
	"errors"
	"time"
)

type Config struct {
	Addr                string `koanf:"addr"`
	ShutdownWaitSeconds int    `koanf:"shutdown_wait_seconds"`
}

// Enabled is false when no addr is configured.
func (cfg *Config) Enabled() bool {
	return cfg.Addr != ""
}

func (cfg *Config) ShutdownWait() time.Duration {
	return time.Duration(cfg.ShutdownWaitSeconds) * time.Second
}

func (cfg *Config) Validate() error {
	if cfg.ShutdownWaitSeconds <= 0 {
		return errors.New("http shutdown_wait_seconds should be > 0")
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		Addr:                "127.0.0.1:9042",
		ShutdownWaitSeconds: 5,
	}
}
