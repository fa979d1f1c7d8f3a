package mapview

import (
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/UnownHash/Flyover/highlight"
	"github.com/UnownHash/Flyover/locations"
	"github.com/UnownHash/Flyover/viewport"
)

var _ viewport.Surface = (*Map)(nil)

var (
	// Roughly the middle of Denmark.
	DefaultCenter = orb.Point{10.0, 56.0}
	DefaultZoom   = 7
)

type animation struct {
	from, to         orb.Point // zoom 0 world pixels
	fromZoom, toZoom float64
	start            time.Time
	duration         time.Duration
}

type Tooltip struct {
	Text string
	At   orb.Point
}

// Map is a headless slippy map: a view, an ordered stack of polygon layers,
// markers and a pointer. It does no drawing itself; Cells() tells a renderer
// what sits under each terminal cell. Not safe for concurrent use.
type Map struct {
	now func() time.Time

	cols, rows int
	center     orb.Point
	zoom       float64
	anim       *animation

	layers  []*GeoJSONLayer
	markers []locations.Location

	pointer *orb.Point
	hovered *PolygonLayer
}

func (m *Map) SetClock(now func() time.Time) {
	m.now = now
}

func (m *Map) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	m.cols, m.rows = cols, rows
}

func (m *Map) Size() (cols, rows int) {
	return m.cols, m.rows
}

func clampZoom(zoom float64) float64 {
	return math.Max(locations.MIN_ZOOM, math.Min(locations.MAX_ZOOM, zoom))
}

func (m *Map) SetView(center orb.Point, zoom int, opts viewport.ViewOptions) {
	target := clampZoom(float64(zoom))

	if !opts.Animate || opts.Duration <= 0 {
		m.anim = nil
		m.center = center
		m.zoom = target
		return
	}

	m.anim = &animation{
		from:     worldPixel(m.center, 0),
		to:       worldPixel(center, 0),
		fromZoom: m.zoom,
		toZoom:   target,
		start:    m.now(),
		duration: opts.Duration,
	}
}

// Advance moves a running animation to the current time. It returns whether
// the animation is still running.
func (m *Map) Advance() bool {
	anim := m.anim
	if anim == nil {
		return false
	}

	t := float64(m.now().Sub(anim.start)) / float64(anim.duration)
	if t >= 1 {
		m.center = fromWorldPixel(anim.to, 0)
		m.zoom = anim.toZoom
		m.anim = nil
		return false
	}
	if t < 0 {
		t = 0
	}

	// ease in-out
	e := t * t * (3 - 2*t)
	px := orb.Point{
		anim.from[0] + (anim.to[0]-anim.from[0])*e,
		anim.from[1] + (anim.to[1]-anim.from[1])*e,
	}
	m.center = fromWorldPixel(px, 0)
	m.zoom = anim.fromZoom + (anim.toZoom-anim.fromZoom)*e

	return true
}

func (m *Map) Animating() bool {
	return m.anim != nil
}

func (m *Map) View() (orb.Point, float64) {
	return m.center, m.zoom
}

// Pan moves the view by whole cells and stops any animation.
func (m *Map) Pan(dCols, dRows int) {
	m.anim = nil
	px := worldPixel(m.center, m.zoom)
	px[0] += float64(dCols * CELL_WIDTH_PX)
	px[1] += float64(dRows * CELL_HEIGHT_PX)
	m.center = fromWorldPixel(px, m.zoom)
}

func (m *Map) ZoomBy(delta int) {
	m.anim = nil
	m.zoom = clampZoom(math.Round(m.zoom) + float64(delta))
}

func (m *Map) CellToPoint(col, row int) orb.Point {
	px := worldPixel(m.center, m.zoom)
	px[0] += (float64(col) + 0.5 - float64(m.cols)/2) * CELL_WIDTH_PX
	px[1] += (float64(row) + 0.5 - float64(m.rows)/2) * CELL_HEIGHT_PX
	return fromWorldPixel(px, m.zoom)
}

func (m *Map) PointToCell(p orb.Point) (col, row int, ok bool) {
	center := worldPixel(m.center, m.zoom)
	px := worldPixel(p, m.zoom)
	col = int(math.Floor((px[0]-center[0])/CELL_WIDTH_PX + float64(m.cols)/2))
	row = int(math.Floor((px[1]-center[1])/CELL_HEIGHT_PX + float64(m.rows)/2))
	ok = col >= 0 && col < m.cols && row >= 0 && row < m.rows
	return
}

// AddGeoJSON draws fc as a new top layer named name, replacing any layer of
// the same name. onEachFeature runs once per drawn polygon.
func (m *Map) AddGeoJSON(name string, fc *geojson.FeatureCollection, onEachFeature func(*geojson.Feature, highlight.Layer)) *GeoJSONLayer {
	m.RemoveLayer(name)

	layer := newGeoJSONLayer(name, fc, onEachFeature)
	m.layers = append(m.layers, layer)
	m.refreshHover()

	return layer
}

// AddGeoJSONBelow is AddGeoJSON for a layer that goes under every other
// layer.
func (m *Map) AddGeoJSONBelow(name string, fc *geojson.FeatureCollection, onEachFeature func(*geojson.Feature, highlight.Layer)) *GeoJSONLayer {
	m.RemoveLayer(name)

	layer := newGeoJSONLayer(name, fc, onEachFeature)
	m.layers = append([]*GeoJSONLayer{layer}, m.layers...)
	m.refreshHover()

	return layer
}

func (m *Map) RemoveLayer(name string) bool {
	for idx, layer := range m.layers {
		if layer.name != name {
			continue
		}
		if m.hovered != nil {
			for _, polygon := range layer.polygons {
				if polygon == m.hovered {
					m.hovered = nil
					break
				}
			}
		}
		m.layers = append(m.layers[:idx], m.layers[idx+1:]...)
		m.refreshHover()
		return true
	}
	return false
}

func (m *Map) Layer(name string) *GeoJSONLayer {
	for _, layer := range m.layers {
		if layer.name == name {
			return layer
		}
	}
	return nil
}

// Layers returns a copy of the layer stack, bottom first.
func (m *Map) Layers() []*GeoJSONLayer {
	layers := make([]*GeoJSONLayer, len(m.layers))
	copy(layers, m.layers)
	return layers
}

// PolygonAt returns the topmost polygon containing p, if any.
func (m *Map) PolygonAt(p orb.Point) *PolygonLayer {
	for idx := len(m.layers) - 1; idx >= 0; idx-- {
		if polygon := m.layers[idx].topmostAt(p); polygon != nil {
			return polygon
		}
	}
	return nil
}

func (m *Map) setHovered(polygon *PolygonLayer) {
	if polygon == m.hovered {
		return
	}
	if m.hovered != nil {
		m.hovered.fire(highlight.EventMouseOut)
	}
	m.hovered = polygon
	if polygon != nil {
		polygon.fire(highlight.EventMouseOver)
	}
}

func (m *Map) refreshHover() {
	if m.pointer == nil {
		m.setHovered(nil)
		return
	}
	m.setHovered(m.PolygonAt(*m.pointer))
}

// PointerMove fires hover-out on the polygon the pointer left and hover-in
// on the one it entered.
func (m *Map) PointerMove(p orb.Point) {
	m.pointer = &p
	m.refreshHover()
}

func (m *Map) PointerLeave() {
	m.pointer = nil
	m.setHovered(nil)
}

func (m *Map) Pointer() (orb.Point, bool) {
	if m.pointer == nil {
		return orb.Point{}, false
	}
	return *m.pointer, true
}

func (m *Map) Hovered() *PolygonLayer {
	return m.hovered
}

// Tooltip returns the tooltip of the hovered polygon. Sticky tooltips sit at
// the pointer, others at the polygon's label point.
func (m *Map) Tooltip() (Tooltip, bool) {
	if m.hovered == nil || m.hovered.tooltip == "" {
		return Tooltip{}, false
	}
	at := m.hovered.label
	if m.hovered.tooltipSticky && m.pointer != nil {
		at = *m.pointer
	}
	return Tooltip{Text: m.hovered.tooltip, At: at}, true
}

func (m *Map) SetMarkers(markers []locations.Location) {
	m.markers = append([]locations.Location(nil), markers...)
}

func (m *Map) Markers() []locations.Location {
	return m.markers
}

// MarkerAt finds a marker drawn at (col, row). Markers are a single cell,
// so a click one column off still counts.
func (m *Map) MarkerAt(col, row int) (locations.Location, bool) {
	for _, marker := range m.markers {
		mCol, mRow, ok := m.PointToCell(marker.Point())
		if !ok || mRow != row {
			continue
		}
		if d := mCol - col; d >= -1 && d <= 1 {
			return marker, true
		}
	}
	return locations.Location{}, false
}

func NewMap(center orb.Point, zoom int) *Map {
	return &Map{
		now:    time.Now,
		center: center,
		zoom:   clampZoom(float64(zoom)),
	}
}
