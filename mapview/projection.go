package mapview

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	TILE_SIZE = 256

	// A terminal cell is roughly twice as tall as it is wide.
	CELL_WIDTH_PX  = 4
	CELL_HEIGHT_PX = 8

	mercatorHalfWorld = 20037508.342789244
)

// worldPixel projects p to Web Mercator pixel space at a fractional zoom.
func worldPixel(p orb.Point, zoom float64) orb.Point {
	m := project.Point(clampLat(p), project.WGS84.ToMercator)
	scale := TILE_SIZE * math.Exp2(zoom)
	return orb.Point{
		(m[0] + mercatorHalfWorld) / (2 * mercatorHalfWorld) * scale,
		(mercatorHalfWorld - m[1]) / (2 * mercatorHalfWorld) * scale,
	}
}

func fromWorldPixel(px orb.Point, zoom float64) orb.Point {
	scale := TILE_SIZE * math.Exp2(zoom)
	m := orb.Point{
		px[0]/scale*(2*mercatorHalfWorld) - mercatorHalfWorld,
		mercatorHalfWorld - px[1]/scale*(2*mercatorHalfWorld),
	}
	return project.Point(m, project.Mercator.ToWGS84)
}

func clampLat(p orb.Point) orb.Point {
	const maxLat = 85.05112878
	if p[1] > maxLat {
		p[1] = maxLat
	} else if p[1] < -maxLat {
		p[1] = -maxLat
	}
	return p
}
