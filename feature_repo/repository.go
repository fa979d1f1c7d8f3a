package feature_repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/paulmach/orb/geojson"

	"github.com/UnownHash/Flyover/geo"
)

const (
	MAX_RESOURCE_BYTES = 64 << 20

	featureCollectionType = "FeatureCollection"
	featureType           = "Feature"
)

var resourceIdRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Repository fetches named FeatureCollection resources. Implementations do
// not retry; a failed fetch is reported to the caller as-is.
type Repository interface {
	Name() string
	FetchCollection(ctx context.Context, resourceId string) (*geojson.FeatureCollection, error)
}

func ValidResourceId(resourceId string) bool {
	return resourceIdRe.MatchString(resourceId)
}

func ResourceFilename(resourceId string) string {
	return resourceId + ".json"
}

func decodeCollection(resourceId string, reader io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MAX_RESOURCE_BYTES+1))
	if err != nil {
		return nil, &MalformedDataError{ResourceId: resourceId, Err: fmt.Errorf("read failed: %w", err)}
	}
	if len(data) > MAX_RESOURCE_BYTES {
		return nil, &MalformedDataError{ResourceId: resourceId, Err: fmt.Errorf("larger than %d bytes", MAX_RESOURCE_BYTES)}
	}

	fc, err := geojson.UnmarshalFeatureCollection(withFeatureTypes(data))
	if err != nil {
		return nil, &MalformedDataError{ResourceId: resourceId, Err: err}
	}
	if fc.Type != featureCollectionType {
		return nil, &MalformedDataError{ResourceId: resourceId, Err: fmt.Errorf("type is '%s'", fc.Type)}
	}
	for idx, feature := range fc.Features {
		if feature == nil {
			return nil, &MalformedDataError{ResourceId: resourceId, Err: fmt.Errorf("feature #%d is null", idx)}
		}
	}

	return fc, nil
}

// withFeatureTypes fills in "type":"Feature" on features that only carry
// properties and geometry. Anything it cannot make sense of is returned
// unchanged for the real decoder to reject.
func withFeatureTypes(data []byte) []byte {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return data
	}

	var features []json.RawMessage
	if err := json.Unmarshal(top["features"], &features); err != nil {
		return data
	}

	changed := false
	for idx, raw := range features {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}

		var feature map[string]json.RawMessage
		if err := json.Unmarshal(raw, &feature); err != nil {
			return data
		}
		if _, ok := feature["type"]; ok {
			continue
		}

		feature["type"] = json.RawMessage(`"` + featureType + `"`)
		fixed, err := json.Marshal(feature)
		if err != nil {
			return data
		}
		features[idx] = fixed
		changed = true
	}

	if !changed {
		return data
	}

	fixed, err := json.Marshal(features)
	if err != nil {
		return data
	}
	top["features"] = fixed

	out, err := json.Marshal(top)
	if err != nil {
		return data
	}
	return out
}

// FilterByNames returns a new collection holding only the features whose
// resolved display name is in allowed. Order is preserved and fc is left
// untouched; the features themselves are shared.
func FilterByNames(fc *geojson.FeatureCollection, allowed geo.NameSet) *geojson.FeatureCollection {
	filtered := geojson.NewFeatureCollection()
	if fc == nil {
		return filtered
	}

	for _, feature := range fc.Features {
		name, ok := geo.FeatureName(feature)
		if !ok || !allowed.Contains(name) {
			continue
		}
		filtered.Append(feature)
	}

	return filtered
}

// FetchFiltered fetches a resource and filters it. A collection with no
// surviving features comes back along with an *EmptyResultWarning.
func FetchFiltered(ctx context.Context, repo Repository, resourceId string, allowed geo.NameSet) (*geojson.FeatureCollection, error) {
	fc, err := repo.FetchCollection(ctx, resourceId)
	if err != nil {
		return nil, err
	}

	filtered := FilterByNames(fc, allowed)
	if len(filtered.Features) == 0 {
		return filtered, &EmptyResultWarning{ResourceId: resourceId, Total: len(fc.Features)}
	}

	return filtered, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
