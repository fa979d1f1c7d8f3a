package highlight

import (
	"github.com/paulmach/orb/geojson"

	"github.com/UnownHash/Flyover/geo"
)

type Event string

const (
	EventMouseOver Event = "mouseover"
	EventMouseOut  Event = "mouseout"
)

type TooltipOptions struct {
	// Sticky tooltips follow the pointer instead of sitting at a fixed
	// anchor.
	Sticky bool
}

// Layer is one drawn polygon the binder can decorate.
type Layer interface {
	SetStyle(Style)
	BindTooltip(text string, opts TooltipOptions)
	On(event Event, handler func())
}

// Bind styles layer with base and wires hover emphasis and a sticky name
// tooltip. Hover-out always goes back to this layer's own base style.
func Bind(layer Layer, feature *geojson.Feature, base Style) {
	layer.SetStyle(base)

	if name, ok := geo.FeatureName(feature); ok {
		layer.BindTooltip(name, TooltipOptions{Sticky: true})
	}

	emphasized := base.Emphasized()
	layer.On(EventMouseOver, func() {
		layer.SetStyle(emphasized)
	})
	layer.On(EventMouseOut, func() {
		layer.SetStyle(base)
	})
}

// OnEachFeature adapts Bind to a per-feature layer callback.
func OnEachFeature(base Style) func(*geojson.Feature, Layer) {
	return func(feature *geojson.Feature, layer Layer) {
		Bind(layer, feature, base)
	}
}
