package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func square(minX, minY, size float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minX, minY},
		{minX + size, minY},
		{minX + size, minY + size},
		{minX, minY + size},
		{minX, minY},
	}}
}

func TestHitTreeMatches(t *testing.T) {
	ht := NewHitTree[string]()

	if err := ht.InsertGeometry(square(0, 0, 10), "big"); err != nil {
		t.Fatal(err)
	}
	if err := ht.InsertGeometry(square(2, 2, 2), "small"); err != nil {
		t.Fatal(err)
	}
	mp := orb.MultiPolygon{square(20, 20, 1), square(30, 30, 1)}
	if err := ht.InsertGeometry(mp, "islands"); err != nil {
		t.Fatal(err)
	}

	if ht.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", ht.Len())
	}

	tests := []struct {
		name  string
		point orb.Point
		want  map[string]bool
	}{
		{"inside both", orb.Point{3, 3}, map[string]bool{"big": true, "small": true}},
		{"inside big only", orb.Point{8, 8}, map[string]bool{"big": true}},
		{"second island", orb.Point{30.5, 30.5}, map[string]bool{"islands": true}},
		{"between islands", orb.Point{25, 25}, map[string]bool{}},
		{"outside", orb.Point{-1, -1}, map[string]bool{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			matches := ht.Matches(tc.point)
			if len(matches) != len(tc.want) {
				t.Fatalf("expected %d matches, got %v", len(tc.want), matches)
			}
			for _, m := range matches {
				if !tc.want[m] {
					t.Errorf("unexpected match %s", m)
				}
			}
		})
	}

	bound := ht.Bound()
	if bound.Min != (orb.Point{0, 0}) || bound.Max != (orb.Point{31, 31}) {
		t.Errorf("unexpected bound %v", bound)
	}
}

func TestHitTreeRejectsUnsupported(t *testing.T) {
	ht := NewHitTree[int]()
	if err := ht.InsertGeometry(orb.LineString{{0, 0}, {1, 1}}, 1); err == nil {
		t.Error("expected LineString to be rejected")
	}
	if err := ht.InsertGeometry(nil, 1); err == nil {
		t.Error("expected nil geometry to be rejected")
	}
	if ht.Len() != 0 {
		t.Error("rejected geometries should not be counted")
	}
}

func TestGeometrySupported(t *testing.T) {
	if !GeometrySupported(square(0, 0, 1)) {
		t.Error("polygon should be supported")
	}
	if !GeometrySupported(orb.MultiPolygon{square(0, 0, 1)}) {
		t.Error("multipolygon should be supported")
	}
	if GeometrySupported(orb.Point{1, 1}) {
		t.Error("point should not be supported")
	}
	if GeometrySupported(nil) {
		t.Error("nil should not be supported")
	}
}

func TestLabelPointInsideShape(t *testing.T) {
	// A U shape whose centroid falls in the notch.
	u := orb.Polygon{orb.Ring{
		{0, 0}, {10, 0}, {10, 10}, {7, 10}, {7, 2}, {3, 2}, {3, 10}, {0, 10}, {0, 0},
	}}

	p := LabelPoint(u)
	if !planar.PolygonContains(u, p) {
		t.Errorf("label point %v is outside the polygon", p)
	}

	sq := square(0, 0, 2)
	if p := LabelPoint(sq); p != (orb.Point{1, 1}) {
		t.Errorf("expected centroid of square, got %v", p)
	}

	mp := orb.MultiPolygon{square(0, 0, 1), u}
	if p := LabelPoint(mp); !planar.MultiPolygonContains(mp, p) {
		t.Errorf("label point %v is outside the multipolygon", p)
	}
}

func TestLargestPolygon(t *testing.T) {
	if LargestPolygon(nil) != nil {
		t.Error("expected nil for empty multipolygon")
	}
	small := square(0, 0, 1)
	large := square(5, 5, 3)
	got := LargestPolygon(orb.MultiPolygon{small, large})
	if got.Bound() != large.Bound() {
		t.Errorf("expected the larger square, got %v", got.Bound())
	}
}
