package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/UnownHash/Flyover/feature_repo"
	"github.com/UnownHash/Flyover/httpserver"
	"github.com/UnownHash/Flyover/locations"
	"github.com/UnownHash/Flyover/logging"
	"github.com/UnownHash/Flyover/overlay"
	"github.com/UnownHash/Flyover/pyroscope"
	"github.com/UnownHash/Flyover/stats_collector"
	"github.com/UnownHash/Flyover/tui"
)

const PUBLIC_URL_ENV = "PUBLIC_URL"

type Config struct {
	Locations locations.Config    `koanf:"locations"`
	Resources feature_repo.Config `koanf:"resources"`
	Overlay   overlay.Config      `koanf:"overlay"`
	Map       tui.Config          `koanf:"map"`

	Logging    logging.Config                   `koanf:"logging"`
	HTTP       httpserver.Config                `koanf:"http"`
	Prometheus stats_collector.PrometheusConfig `koanf:"prometheus"`
	Pyroscope  pyroscope.Config                 `koanf:"pyroscope"`

	// set when PUBLIC_URL is only a path prefix and was not used
	ignoredPublicPath string
}

func (cfg *Config) GetPrometheusConfig() stats_collector.PrometheusConfig {
	return cfg.Prometheus
}

// CreateLogger leaves stdout alone while the terminal UI draws on it.
func (cfg *Config) CreateLogger(stdout bool) *logrus.Logger {
	return cfg.Logging.CreateLogger(logging.LoggerOptions{
		Rotate:            true,
		Stdout:            stdout,
		WrapStdlibDefault: true,
	})
}

func (cfg *Config) Validate() error {
	if err := cfg.Locations.Validate(); err != nil {
		return fmt.Errorf("locations: %w", err)
	}

	if err := cfg.Resources.Validate(); err != nil {
		return err
	}

	if err := cfg.Overlay.Validate(); err != nil {
		return err
	}

	if err := cfg.Map.Validate(); err != nil {
		return err
	}

	if err := cfg.Logging.Validate(); err != nil {
		return err
	}

	if err := cfg.HTTP.Validate(); err != nil {
		return err
	}

	if err := cfg.Prometheus.Validate(); err != nil {
		return err
	}

	if err := cfg.Pyroscope.Validate(); err != nil {
		return err
	}

	return nil
}

func GetDefaultConfig() Config {
	return Config{
		Locations:  locations.GetDefaultConfig(),
		Resources:  feature_repo.GetDefaultConfig(),
		Overlay:    overlay.GetDefaultConfig(),
		Map:        tui.GetDefaultConfig(),
		Logging:    logging.GetDefaultConfig(),
		HTTP:       httpserver.GetDefaultConfig(),
		Prometheus: stats_collector.GetDefaultPrometheusConfig(),
		Pyroscope:  pyroscope.GetDefaultConfig(),
	}
}

func isPathPrefix(publicUrl string) bool {
	uri, err := url.Parse(publicUrl)
	return err == nil && uri.Scheme == "" && uri.Host == ""
}

// LoadConfig layers the TOML file over the defaults. A missing file is only
// an error when required is set. PUBLIC_URL wins over resources.base_url
// unless it is only a path prefix.
func LoadConfig(filename string, required bool) (*Config, error) {
	k := koanf.New(".")
	err := k.Load(structs.Provider(GetDefaultConfig(), "koanf"), nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't load default config: %w", err)
	}

	_, err = os.Stat(filename)
	switch {
	case err == nil:
		err = k.Load(file.Provider(filename), toml.Parser())
		if err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("couldn't open '%s': %w", filename, err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if publicUrl := os.Getenv(PUBLIC_URL_ENV); publicUrl != "" {
		if isPathPrefix(publicUrl) {
			// A bare path like /terrain-booking names where the app is
			// mounted, not a host to fetch from.
			cfg.ignoredPublicPath = publicUrl
		} else {
			cfg.Resources.BaseUrl = publicUrl
		}
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
