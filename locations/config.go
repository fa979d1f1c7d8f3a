package locations

import "fmt"

const DEFAULT_ZOOM = 12

type LocationConfig struct {
	Id   string  `koanf:"id"`
	Name string  `koanf:"name"`
	Lat  float64 `koanf:"lat"`
	Lon  float64 `koanf:"lon"`
	Zoom *int    `koanf:"zoom"`
}

func (cfg LocationConfig) Location(defaultZoom int) Location {
	name := cfg.Name
	if name == "" {
		name = cfg.Id
	}

	zoom := defaultZoom
	if cfg.Zoom != nil {
		zoom = *cfg.Zoom
	}

	return Location{
		Id:          cfg.Id,
		DisplayName: name,
		Lat:         cfg.Lat,
		Lon:         cfg.Lon,
		DefaultZoom: zoom,
	}
}

type Config struct {
	DefaultZoom int              `koanf:"default_zoom"`
	Locations   []LocationConfig `koanf:"list"`
}

func (cfg *Config) Validate() error {
	_, err := cfg.Catalog()
	return err
}

// Catalog builds the catalog from config. An empty list means the built-in
// defaults.
func (cfg *Config) Catalog() (*Catalog, error) {
	if cfg.DefaultZoom < MIN_ZOOM || cfg.DefaultZoom > MAX_ZOOM {
		return nil, fmt.Errorf("'default_zoom' %d is not within %d..%d", cfg.DefaultZoom, MIN_ZOOM, MAX_ZOOM)
	}

	if len(cfg.Locations) == 0 {
		return NewCatalog(DefaultLocations())
	}

	list := make([]Location, len(cfg.Locations))
	for idx, locCfg := range cfg.Locations {
		list[idx] = locCfg.Location(cfg.DefaultZoom)
	}
	return NewCatalog(list)
}

func GetDefaultConfig() Config {
	return Config{
		DefaultZoom: DEFAULT_ZOOM,
	}
}

func DefaultLocations() []Location {
	return []Location{
		{Id: "copenhagen", DisplayName: "Copenhagen", Lat: 55.6761, Lon: 12.5683, DefaultZoom: DEFAULT_ZOOM},
		{Id: "aarhus", DisplayName: "Aarhus", Lat: 56.1629, Lon: 10.2039, DefaultZoom: DEFAULT_ZOOM},
		{Id: "odense", DisplayName: "Odense", Lat: 55.4038, Lon: 10.4024, DefaultZoom: DEFAULT_ZOOM},
		{Id: "aalborg", DisplayName: "Aalborg", Lat: 57.0488, Lon: 9.9217, DefaultZoom: DEFAULT_ZOOM},
		{Id: "esbjerg", DisplayName: "Esbjerg", Lat: 55.4765, Lon: 8.4594, DefaultZoom: DEFAULT_ZOOM},
	}
}
