package geo

import (
	venise_geo "github.com/dernise/venise/geo"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
)

func GeometrySupported(geometry orb.Geometry) bool {
	if geometry == nil {
		return false
	}
	switch geometry.GeoJSONType() {
	case "Polygon":
	case "MultiPolygon":
	default:
		return false
	}
	return true
}

func convertToVenisePolygon(orbPolygon orb.Polygon) venise_geo.Polygon {
	polygon := venise_geo.Polygon{
		Rings: make([][]venise_geo.Point, len(orbPolygon)),
	}
	for ringIdx, ring := range orbPolygon {
		ringPoints := make([]venise_geo.Point, len(ring))
		for ptsIdx, coord := range ring {
			ringPoints[ptsIdx] = venise_geo.Point(coord)
		}
		polygon.Rings[ringIdx] = ringPoints
	}
	return polygon
}

func LargestPolygon(mp orb.MultiPolygon) orb.Polygon {
	switch len(mp) {
	case 0:
		return nil
	case 1:
		return mp[0]
	}

	bestPoly := mp[0]
	maxArea := geo.Area(bestPoly)

	for _, poly := range mp[1:] {
		area := geo.Area(poly)
		if area > maxArea {
			maxArea = area
			bestPoly = poly
		}
	}

	return bestPoly
}

// LabelPoint picks where a feature's tooltip should sit when there is no
// pointer to stick to. The centroid is used when it falls inside the shape,
// otherwise the pole of inaccessibility of the (largest) polygon.
func LabelPoint(geometry orb.Geometry) orb.Point {
	center, _ := planar.CentroidArea(geometry)
	switch typedGeometry := geometry.(type) {
	case orb.Polygon:
		if len(typedGeometry) > 0 && !planar.PolygonContains(typedGeometry, center) {
			point := venise_geo.Polylabel(convertToVenisePolygon(typedGeometry), 0.000001, false)
			return orb.Point(point)
		}
	case orb.MultiPolygon:
		if len(typedGeometry) > 0 && !planar.MultiPolygonContains(typedGeometry, center) {
			bestPoly := LargestPolygon(typedGeometry)
			point := venise_geo.Polylabel(convertToVenisePolygon(bestPoly), 0.000001, false)
			return orb.Point(point)
		}
	}
	return center
}
