package overlay

import (
	"errors"

	"github.com/UnownHash/Flyover/feature_repo"
	"github.com/UnownHash/Flyover/geo"
)

const DEFAULT_BASE_RESOURCE = "bydele"

type Config struct {
	ResourceId   string   `koanf:"resource_id"`
	AllowedNames []string `koanf:"allowed_names"`
}

func (cfg *Config) Validate() error {
	if !feature_repo.ValidResourceId(cfg.ResourceId) {
		return errors.New("'overlay.resource_id' should only contain letters, digits, '_' and '-'")
	}
	if len(cfg.AllowedNames) == 0 {
		return errors.New("'overlay.allowed_names' is empty: nothing would ever be drawn")
	}
	return nil
}

func (cfg *Config) NameSet() geo.NameSet {
	return geo.NewNameSet(cfg.AllowedNames...)
}

func GetDefaultConfig() Config {
	return Config{
		ResourceId:   DEFAULT_BASE_RESOURCE,
		AllowedNames: DefaultBoroughs(),
	}
}

// DefaultBoroughs are the Copenhagen districts drawn on startup.
func DefaultBoroughs() []string {
	return []string{
		"Indre By",
		"Østerbro",
		"Nørrebro",
		"Vesterbro-Kongens Enghave",
		"Valby",
		"Vanløse",
		"Brønshøj-Husum",
		"Bispebjerg",
		"Amager Øst",
		"Amager Vest",
		"Dyrehaven",
	}
}
