package geo

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"
)

type hitEntry[V any] struct {
	polygon      orb.Polygon
	multiPolygon orb.MultiPolygon
	value        V
	containsFn   func(orb.Point) bool
}

func (e hitEntry[V]) polygonContains(p orb.Point) bool {
	return planar.PolygonContains(e.polygon, p)
}

func (e hitEntry[V]) multiPolygonContains(p orb.Point) bool {
	return planar.MultiPolygonContains(e.multiPolygon, p)
}

// HitTree answers "which shapes contain this point" for polygon and
// multipolygon features. Bounding boxes go into an rtree and candidates are
// confirmed with an exact planar test.
type HitTree[V any] struct {
	mutex sync.RWMutex
	rtree rtree.RTreeG[hitEntry[V]]
	bound orb.Bound
	count int
}

func (ht *HitTree[V]) insertEntry(bbox orb.Bound, entry hitEntry[V]) {
	ht.mutex.Lock()
	defer ht.mutex.Unlock()
	ht.rtree.Insert(bbox.Min, bbox.Max, entry)
	if ht.count == 0 {
		ht.bound = bbox
	} else {
		ht.bound = ht.bound.Union(bbox)
	}
	ht.count++
}

func (ht *HitTree[V]) InsertGeometry(geometry orb.Geometry, value V) error {
	switch typed := geometry.(type) {
	case orb.Polygon:
		entry := hitEntry[V]{polygon: typed, value: value}
		entry.containsFn = entry.polygonContains
		ht.insertEntry(typed.Bound(), entry)
	case orb.MultiPolygon:
		entry := hitEntry[V]{multiPolygon: typed, value: value}
		entry.containsFn = entry.multiPolygonContains
		ht.insertEntry(typed.Bound(), entry)
	case nil:
		return fmt.Errorf("geometry is missing")
	default:
		return fmt.Errorf("GeoJSONType %s is not supported", geometry.GeoJSONType())
	}
	return nil
}

func (ht *HitTree[V]) InsertFeature(feature *geojson.Feature, value V) error {
	return ht.InsertGeometry(feature.Geometry, value)
}

// Matches returns every value whose shape contains p.
func (ht *HitTree[V]) Matches(p orb.Point) []V {
	matches := make([]V, 0, 2)

	ht.mutex.RLock()
	defer ht.mutex.RUnlock()
	ht.rtree.Search(p, p, func(min, max [2]float64, entry hitEntry[V]) bool {
		if entry.containsFn(p) {
			matches = append(matches, entry.value)
		}
		return true
	})

	return matches
}

func (ht *HitTree[V]) Len() int {
	ht.mutex.RLock()
	defer ht.mutex.RUnlock()
	return ht.count
}

// Bound is the union of all inserted bounding boxes. Zero when empty.
func (ht *HitTree[V]) Bound() orb.Bound {
	ht.mutex.RLock()
	defer ht.mutex.RUnlock()
	return ht.bound
}

func NewHitTree[V any]() *HitTree[V] {
	return &HitTree[V]{}
}
