package mapview

import (
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/UnownHash/Flyover/highlight"
	"github.com/UnownHash/Flyover/locations"
	"github.com/UnownHash/Flyover/viewport"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestMap(center orb.Point, zoom int) (*Map, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := NewMap(center, zoom)
	m.SetClock(clock.now)
	m.Resize(80, 40)
	return m, clock
}

func near(a, b orb.Point, eps float64) bool {
	return math.Abs(a[0]-b[0]) < eps && math.Abs(a[1]-b[1]) < eps
}

func box(minLon, minLat, maxLon, maxLat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minLon, minLat}, {maxLon, minLat}, {maxLon, maxLat}, {minLon, maxLat}, {minLon, minLat},
	}}
}

func namedCollection(names []string, polygons ...orb.Geometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for idx, geometry := range polygons {
		feature := geojson.NewFeature(geometry)
		if idx < len(names) {
			feature.Properties["navn"] = names[idx]
		}
		fc.Append(feature)
	}
	return fc
}

func TestSetViewJump(t *testing.T) {
	m, _ := newTestMap(DefaultCenter, DefaultZoom)

	m.SetView(orb.Point{12.5683, 55.6761}, 12, viewport.ViewOptions{})
	center, zoom := m.View()
	if center != (orb.Point{12.5683, 55.6761}) || zoom != 12 {
		t.Errorf("expected jump to copenhagen at 12, got %v %f", center, zoom)
	}
	if m.Animating() {
		t.Error("a jump should not animate")
	}

	m.SetView(center, 40, viewport.ViewOptions{})
	if _, zoom := m.View(); zoom != locations.MAX_ZOOM {
		t.Errorf("expected zoom to clamp to %d, got %f", locations.MAX_ZOOM, zoom)
	}
}

func TestSetViewAnimates(t *testing.T) {
	m, clock := newTestMap(DefaultCenter, DefaultZoom)
	target := orb.Point{10.2039, 56.1629}

	m.SetView(target, 12, viewport.ViewOptions{Animate: true, Duration: 1500 * time.Millisecond})
	if !m.Animating() {
		t.Fatal("expected an animation")
	}

	clock.t = clock.t.Add(750 * time.Millisecond)
	if !m.Advance() {
		t.Fatal("animation should still run half way through")
	}
	_, zoom := m.View()
	if zoom <= 7 || zoom >= 12 {
		t.Errorf("expected an intermediate zoom, got %f", zoom)
	}

	clock.t = clock.t.Add(time.Second)
	if m.Advance() {
		t.Error("animation should be done")
	}
	center, zoom := m.View()
	if !near(center, target, 1e-9) || zoom != 12 {
		t.Errorf("expected to land on %v at 12, got %v %f", target, center, zoom)
	}
}

func TestCellRoundTrip(t *testing.T) {
	m, _ := newTestMap(DefaultCenter, DefaultZoom)

	for _, cell := range [][2]int{{0, 0}, {40, 20}, {79, 39}, {13, 7}} {
		p := m.CellToPoint(cell[0], cell[1])
		col, row, ok := m.PointToCell(p)
		if !ok || col != cell[0] || row != cell[1] {
			t.Errorf("cell %v -> %v -> (%d, %d, %v)", cell, p, col, row, ok)
		}
	}

	if _, _, ok := m.PointToCell(orb.Point{-120, 40}); ok {
		t.Error("a point across the globe should be off screen")
	}

	center := m.CellToPoint(40, 20)
	if !near(center, DefaultCenter, 0.1) {
		t.Errorf("middle cell should be close to the center, got %v", center)
	}
}

func TestPanAndZoom(t *testing.T) {
	m, _ := newTestMap(DefaultCenter, DefaultZoom)

	m.Pan(10, 0)
	center, _ := m.View()
	if center[0] <= DefaultCenter[0] {
		t.Errorf("panning right should move east, got %v", center)
	}

	m.Pan(0, -10)
	moved, _ := m.View()
	if moved[1] <= center[1] {
		t.Errorf("panning up should move north, got %v", moved)
	}

	m.ZoomBy(2)
	if _, zoom := m.View(); zoom != 9 {
		t.Errorf("expected zoom 9, got %f", zoom)
	}
	m.ZoomBy(-30)
	if _, zoom := m.View(); zoom != 0 {
		t.Errorf("expected zoom to clamp at 0, got %f", zoom)
	}
}

func TestHoverFiresHandlersAndTooltip(t *testing.T) {
	m, _ := newTestMap(orb.Point{12.55, 55.68}, 12)

	fc := namedCollection([]string{"Indre By", "Østerbro"},
		box(12.55, 55.67, 12.60, 55.69),
		box(12.56, 55.69, 12.60, 55.72),
	)
	layer := m.AddGeoJSON("base", fc, highlight.OnEachFeature(highlight.BaseOverlayStyle))
	if len(layer.Polygons()) != 2 {
		t.Fatalf("expected 2 polygons, got %d", len(layer.Polygons()))
	}

	indreBy := layer.Polygons()[0]
	osterbro := layer.Polygons()[1]

	m.PointerMove(orb.Point{12.57, 55.68})
	if m.Hovered() != indreBy {
		t.Fatal("expected Indre By to be hovered")
	}
	if indreBy.Style().Weight != 3 || indreBy.Style().FillOpacity != 0.4 {
		t.Errorf("expected emphasized style, got %#v", indreBy.Style())
	}
	tip, ok := m.Tooltip()
	if !ok || tip.Text != "Indre By" || tip.At != (orb.Point{12.57, 55.68}) {
		t.Errorf("expected sticky tooltip at pointer, got %#v %v", tip, ok)
	}

	m.PointerMove(orb.Point{12.58, 55.70})
	if m.Hovered() != osterbro {
		t.Fatal("expected Østerbro to be hovered")
	}
	if indreBy.Style() != highlight.BaseOverlayStyle {
		t.Errorf("expected Indre By to restore its base style, got %#v", indreBy.Style())
	}

	m.PointerMove(orb.Point{11.0, 55.0})
	if m.Hovered() != nil {
		t.Error("nothing should be hovered outside the polygons")
	}
	if osterbro.Style() != highlight.BaseOverlayStyle {
		t.Error("hover-out should restore the style")
	}
	if _, ok := m.Tooltip(); ok {
		t.Error("no tooltip expected without a hovered polygon")
	}
}

func TestTopLayerWinsHover(t *testing.T) {
	m, _ := newTestMap(orb.Point{12.55, 55.68}, 12)

	m.AddGeoJSON("base", namedCollection([]string{"Base"}, box(12.50, 55.60, 12.70, 55.75)),
		highlight.OnEachFeature(highlight.BaseOverlayStyle))
	city := m.AddGeoJSON("location", namedCollection([]string{"City"}, box(12.55, 55.66, 12.60, 55.70)),
		highlight.OnEachFeature(highlight.LocationOverlayStyle))

	m.PointerMove(orb.Point{12.57, 55.68})
	if m.Hovered() != city.Polygons()[0] {
		t.Fatal("the top layer should take the hover")
	}

	// Removing the hovered layer hands the hover to what is underneath.
	if !m.RemoveLayer("location") {
		t.Fatal("expected layer to be removed")
	}
	if m.Layer("location") != nil {
		t.Error("layer should be gone")
	}
	if hovered := m.Hovered(); hovered == nil || hovered.tooltip != "Base" {
		t.Errorf("expected Base to be hovered after removal, got %#v", hovered)
	}

	// A late base layer still goes underneath.
	city = m.AddGeoJSON("location", namedCollection([]string{"City"}, box(12.55, 55.66, 12.60, 55.70)), nil)
	m.AddGeoJSONBelow("base", namedCollection([]string{"Base"}, box(12.50, 55.60, 12.70, 55.75)),
		highlight.OnEachFeature(highlight.BaseOverlayStyle))
	if m.Layers()[0].Name() != "base" || m.Hovered() != city.Polygons()[0] {
		t.Error("a layer added below should not take the hover")
	}

	m.PointerLeave()
	if m.Hovered() != nil {
		t.Error("leaving the map should clear the hover")
	}
	if m.Layer("base").Polygons()[0].Style() != highlight.BaseOverlayStyle {
		t.Error("leaving the map should restore the base style")
	}
}

func TestAddGeoJSONReplacesAndSkips(t *testing.T) {
	m, _ := newTestMap(DefaultCenter, DefaultZoom)

	fc := namedCollection([]string{"Poly", "Line"},
		box(9, 55, 10, 56),
		orb.LineString{{9, 55}, {10, 56}},
	)
	layer := m.AddGeoJSON("location", fc, nil)
	if len(layer.Polygons()) != 1 || layer.Skipped() != 1 {
		t.Errorf("expected 1 polygon and 1 skipped, got %d and %d", len(layer.Polygons()), layer.Skipped())
	}

	m.AddGeoJSON("location", namedCollection(nil), nil)
	if len(m.Layers()) != 1 {
		t.Errorf("adding a layer with the same name should replace it, got %d layers", len(m.Layers()))
	}
}

func TestLayersIsACopy(t *testing.T) {
	m, _ := newTestMap(DefaultCenter, DefaultZoom)
	m.AddGeoJSON("base", namedCollection([]string{"A"}, box(9, 55, 10, 56)), nil)
	m.AddGeoJSON("location", namedCollection([]string{"B"}, box(9, 55, 10, 56)), nil)
	m.AddGeoJSON("extra", namedCollection([]string{"C"}, box(9, 55, 10, 56)), nil)

	held := m.Layers()
	m.RemoveLayer("base")

	if held[0].Name() != "base" || held[1].Name() != "location" || held[2].Name() != "extra" {
		t.Errorf("held slice changed after RemoveLayer: %s %s %s", held[0].Name(), held[1].Name(), held[2].Name())
	}
	if layers := m.Layers(); len(layers) != 2 || layers[0].Name() != "location" {
		t.Errorf("expected [location extra], got %d layers", len(layers))
	}

	held[0] = nil
	if m.Layers()[0] == nil {
		t.Error("writing to the returned slice should not touch the map")
	}
}

func TestMarkerAtAndCells(t *testing.T) {
	m, _ := newTestMap(DefaultCenter, DefaultZoom)
	m.SetMarkers(locations.DefaultLocations())

	aarhus := locations.DefaultLocations()[1]
	col, row, ok := m.PointToCell(aarhus.Point())
	if !ok {
		t.Fatal("aarhus should be on screen at the default view")
	}

	loc, ok := m.MarkerAt(col+1, row)
	if !ok || loc.Id != "aarhus" {
		t.Errorf("expected to hit aarhus, got %#v %v", loc, ok)
	}
	if _, ok := m.MarkerAt(col, row+5); ok {
		t.Error("expected a miss away from the marker")
	}

	m.AddGeoJSON("base", namedCollection([]string{"Fyn"}, box(9.8, 55.0, 10.8, 55.6)), nil)
	m.PointerMove(m.CellToPoint(3, 3))

	grid := m.Cells()
	if len(grid) != 40 || len(grid[0]) != 80 {
		t.Fatalf("unexpected grid size %dx%d", len(grid), len(grid[0]))
	}
	if grid[row][col].Marker == nil || grid[row][col].Marker.Id != "aarhus" {
		t.Error("expected aarhus marker in the grid")
	}
	if !grid[3][3].Pointer {
		t.Error("expected pointer cell to be flagged")
	}

	fynCol, fynRow, ok := m.PointToCell(orb.Point{10.3, 55.3})
	if !ok {
		t.Fatal("fyn should be on screen")
	}
	if grid[fynRow][fynCol].Polygon == nil {
		t.Error("expected the middle of fyn to be covered")
	}
	if grid[fynRow][fynCol].Edge {
		t.Error("the middle of fyn should not be an edge")
	}
}
