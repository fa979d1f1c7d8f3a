package feature_repo

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	// BaseUrl is the prefix in front of /geojson/<id>.json.
	BaseUrl string `koanf:"base_url"`
	// Dir holds <id>.json files and is used when BaseUrl is empty.
	Dir            string `koanf:"dir"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

func (cfg *Config) Validate() error {
	if cfg.TimeoutSeconds < 0 {
		return errors.New("'resources.timeout_seconds' should be >= 0")
	}

	if cfg.BaseUrl != "" {
		uri, err := url.Parse(cfg.BaseUrl)
		if err != nil {
			return fmt.Errorf("'resources.base_url' looks malformed: %w", err)
		}
		if uri.Scheme != "http" && uri.Scheme != "https" {
			return fmt.Errorf("'resources.base_url' should be an http(s) url, got '%s'", cfg.BaseUrl)
		}
		return nil
	}

	if cfg.Dir == "" {
		return errors.New("One of 'resources.base_url' (or PUBLIC_URL) or 'resources.dir' must be configured")
	}

	return nil
}

func GetDefaultConfig() Config {
	return Config{
		Dir:            "public/geojson",
		TimeoutSeconds: 30,
	}
}

// NewRepository picks the http repository when a base url is set and the
// directory one otherwise.
func NewRepository(logger *logrus.Logger, cfg Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.BaseUrl != "" {
		return NewHTTPRepository(logger, cfg.BaseUrl, cfg.Timeout())
	}

	return NewDirRepository(logger, cfg.Dir)
}
