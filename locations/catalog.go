package locations

import (
	"errors"
	"fmt"

	"github.com/UnownHash/Flyover/feature_repo"
)

const (
	MIN_ZOOM = 0
	MAX_ZOOM = 19
)

// Catalog is the fixed, ordered set of locations shown as markers. It is
// built once at startup and never changes afterwards, so it is safe to share.
type Catalog struct {
	list []Location
	byId map[string]int
}

// List returns the locations in configured order. The returned slice is a
// copy.
func (catalog *Catalog) List() []Location {
	list := make([]Location, len(catalog.list))
	copy(list, catalog.list)
	return list
}

func (catalog *Catalog) Len() int {
	return len(catalog.list)
}

func (catalog *Catalog) Get(id string) (Location, bool) {
	idx, ok := catalog.byId[id]
	if !ok {
		return Location{}, false
	}
	return catalog.list[idx], true
}

// Index returns the position of the location in List(), or -1.
func (catalog *Catalog) Index(id string) int {
	idx, ok := catalog.byId[id]
	if !ok {
		return -1
	}
	return idx
}

func NewCatalog(list []Location) (*Catalog, error) {
	catalog := &Catalog{
		list: make([]Location, len(list)),
		byId: make(map[string]int, len(list)),
	}

	for idx, loc := range list {
		if loc.Id == "" {
			return nil, fmt.Errorf("location #%d has no id", idx+1)
		}
		if !feature_repo.ValidResourceId(loc.Id) {
			return nil, fmt.Errorf("location '%s': id may only hold letters, digits, '-' and '_'", loc.Id)
		}
		if _, exists := catalog.byId[loc.Id]; exists {
			return nil, fmt.Errorf("location '%s' is listed more than once", loc.Id)
		}
		if loc.DefaultZoom < MIN_ZOOM || loc.DefaultZoom > MAX_ZOOM {
			return nil, fmt.Errorf("location '%s': zoom %d is not within %d..%d", loc.Id, loc.DefaultZoom, MIN_ZOOM, MAX_ZOOM)
		}
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
			return nil, fmt.Errorf("location '%s': coordinates (%f, %f) are out of range", loc.Id, loc.Lat, loc.Lon)
		}
		catalog.list[idx] = loc
		catalog.byId[loc.Id] = idx
	}

	if len(catalog.list) == 0 {
		return nil, errors.New("no locations configured")
	}

	return catalog, nil
}
