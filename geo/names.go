package geo

import (
	"sort"

	"github.com/paulmach/orb/geojson"
)

// Feature properties are a mix of Danish and English sources. The Danish
// key wins when both are present.
const (
	PRIMARY_NAME_KEY  = "navn"
	FALLBACK_NAME_KEY = "name"
)

// FeatureName resolves the display name of a feature. ok is false when
// neither name key holds a non-empty string.
func FeatureName(feature *geojson.Feature) (name string, ok bool) {
	if feature == nil {
		return "", false
	}

	props := feature.Properties
	if name, _ = props[PRIMARY_NAME_KEY].(string); name != "" {
		return name, true
	}
	if name, _ = props[FALLBACK_NAME_KEY].(string); name != "" {
		return name, true
	}
	return "", false
}

type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (set NameSet) Contains(name string) bool {
	_, ok := set[name]
	return ok
}

func (set NameSet) Len() int {
	return len(set)
}

// Sorted returns the names in lexical order, mostly for logging.
func (set NameSet) Sorted() []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
