package tui

import (
	"errors"
	"time"

	"github.com/paulmach/orb"

	"github.com/UnownHash/Flyover/locations"
	"github.com/UnownHash/Flyover/mapview"
	"github.com/UnownHash/Flyover/viewport"
)

type Config struct {
	CenterLat     float64 `koanf:"center_lat"`
	CenterLon     float64 `koanf:"center_lon"`
	Zoom          int     `koanf:"zoom"`
	FlyDurationMs int     `koanf:"fly_duration_ms"`
	// Columns and rows an arrow key pans by.
	PanCols int `koanf:"pan_cols"`
	PanRows int `koanf:"pan_rows"`
}

func (cfg *Config) Center() orb.Point {
	return orb.Point{cfg.CenterLon, cfg.CenterLat}
}

func (cfg *Config) FlyDuration() time.Duration {
	return time.Duration(cfg.FlyDurationMs) * time.Millisecond
}

func (cfg *Config) Validate() error {
	if cfg.CenterLat < -90 || cfg.CenterLat > 90 || cfg.CenterLon < -180 || cfg.CenterLon > 180 {
		return errors.New("map center is not a valid coordinate")
	}
	if cfg.Zoom < locations.MIN_ZOOM || cfg.Zoom > locations.MAX_ZOOM {
		return errors.New("map zoom is out of range")
	}
	if cfg.FlyDurationMs < 0 {
		return errors.New("map fly_duration_ms should be >= 0")
	}
	if cfg.PanCols <= 0 || cfg.PanRows <= 0 {
		return errors.New("map pan_cols and pan_rows should be > 0")
	}
	return nil
}

func GetDefaultConfig() Config {
	return Config{
		CenterLat:     mapview.DefaultCenter.Lat(),
		CenterLon:     mapview.DefaultCenter.Lon(),
		Zoom:          mapview.DefaultZoom,
		FlyDurationMs: int(viewport.DEFAULT_FLY_DURATION / time.Millisecond),
		PanCols:       8,
		PanRows:       4,
	}
}
