package pyroscope

import "errors"

const DEFAULT_APPLICATION_NAME = "flyover"

type Config struct {
	ApplicationName      string `koanf:"application_name"`
	ServerAddress        string `koanf:"server_address"`
	ApiKey               string `koanf:"api_key"`
	MutexProfileFraction int    `koanf:"mutex_profile_fraction"`
	BlockProfileRate     int    `koanf:"block_profile_rate"`

	// ProfileTypes limits what is collected. Empty means everything.
	ProfileTypes []string          `koanf:"profile_types"`
	Tags         map[string]string `koanf:"tags"`
}

// Enabled reports whether profiles should be shipped at all.
func (cfg *Config) Enabled() bool {
	return cfg.ServerAddress != ""
}

func (cfg *Config) Validate() error {
	if cfg.Enabled() && cfg.ApplicationName == "" {
		return errors.New("pyroscope: application_name is required when server_address is set")
	}
	if _, err := profileTypes(cfg.ProfileTypes); err != nil {
		return err
	}
	if cfg.MutexProfileFraction < 0 || cfg.BlockProfileRate < 0 {
		return errors.New("pyroscope: profile rates should be >= 0")
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		ApplicationName:      DEFAULT_APPLICATION_NAME,
		MutexProfileFraction: 5,
		BlockProfileRate:     5,
	}
}
