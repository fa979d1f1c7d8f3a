package mapview

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/UnownHash/Flyover/geo"
	"github.com/UnownHash/Flyover/highlight"
)

var _ highlight.Layer = (*PolygonLayer)(nil)

// PolygonLayer is one drawn feature.
type PolygonLayer struct {
	feature *geojson.Feature
	index   int
	style   highlight.Style
	label   orb.Point

	tooltip       string
	tooltipSticky bool

	handlers map[highlight.Event][]func()
}

func (layer *PolygonLayer) Feature() *geojson.Feature {
	return layer.feature
}

func (layer *PolygonLayer) Style() highlight.Style {
	return layer.style
}

func (layer *PolygonLayer) SetStyle(style highlight.Style) {
	layer.style = style
}

func (layer *PolygonLayer) BindTooltip(text string, opts highlight.TooltipOptions) {
	layer.tooltip = text
	layer.tooltipSticky = opts.Sticky
}

func (layer *PolygonLayer) On(event highlight.Event, handler func()) {
	layer.handlers[event] = append(layer.handlers[event], handler)
}

func (layer *PolygonLayer) fire(event highlight.Event) {
	for _, handler := range layer.handlers[event] {
		handler()
	}
}

// GeoJSONLayer is a named group of polygon layers built from one
// FeatureCollection.
type GeoJSONLayer struct {
	name     string
	polygons []*PolygonLayer
	hits     *geo.HitTree[*PolygonLayer]
	skipped  int
}

func (layer *GeoJSONLayer) Name() string {
	return layer.name
}

func (layer *GeoJSONLayer) Polygons() []*PolygonLayer {
	return layer.polygons
}

// Skipped counts features that were not drawn because their geometry is not
// a polygon.
func (layer *GeoJSONLayer) Skipped() int {
	return layer.skipped
}

func (layer *GeoJSONLayer) Bound() orb.Bound {
	return layer.hits.Bound()
}

// topmostAt returns the last drawn polygon containing p.
func (layer *GeoJSONLayer) topmostAt(p orb.Point) *PolygonLayer {
	var best *PolygonLayer
	for _, match := range layer.hits.Matches(p) {
		if best == nil || match.index > best.index {
			best = match
		}
	}
	return best
}

func newGeoJSONLayer(name string, fc *geojson.FeatureCollection, onEachFeature func(*geojson.Feature, highlight.Layer)) *GeoJSONLayer {
	layer := &GeoJSONLayer{
		name: name,
		hits: geo.NewHitTree[*PolygonLayer](),
	}

	for _, feature := range fc.Features {
		if feature == nil || !geo.GeometrySupported(feature.Geometry) {
			layer.skipped++
			continue
		}

		polygon := &PolygonLayer{
			feature:  feature,
			index:    len(layer.polygons),
			label:    geo.LabelPoint(feature.Geometry),
			handlers: make(map[highlight.Event][]func()),
		}
		if err := layer.hits.InsertFeature(feature, polygon); err != nil {
			layer.skipped++
			continue
		}

		if onEachFeature != nil {
			onEachFeature(feature, polygon)
		}
		layer.polygons = append(layer.polygons, polygon)
	}

	return layer
}
