package locations

import (
	"github.com/paulmach/orb"
)

type Location struct {
	Id          string
	DisplayName string
	Lat         float64
	Lon         float64
	DefaultZoom int
}

// Point returns the location as an orb.Point, which is [lon, lat].
func (loc Location) Point() orb.Point {
	return orb.Point{loc.Lon, loc.Lat}
}

func (loc Location) String() string {
	if loc.DisplayName == "" {
		return loc.Id
	}
	return loc.DisplayName
}
