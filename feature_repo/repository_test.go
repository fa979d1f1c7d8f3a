package feature_repo

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/UnownHash/Flyover/geo"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func namedFeature(key, name string) *geojson.Feature {
	feature := geojson.NewFeature(orb.Polygon{orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	if key != "" {
		feature.Properties[key] = name
	}
	return feature
}

func collectionOf(names ...string) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, name := range names {
		fc.Append(namedFeature("navn", name))
	}
	return fc
}

func featureNames(fc *geojson.FeatureCollection) []string {
	names := make([]string, 0, len(fc.Features))
	for _, feature := range fc.Features {
		name, _ := geo.FeatureName(feature)
		names = append(names, name)
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}

func TestFilterByNamesKeepsOrder(t *testing.T) {
	fc := collectionOf("A", "C", "B")

	filtered := FilterByNames(fc, geo.NewNameSet("A", "B"))

	if got := featureNames(filtered); !equalStrings(got, []string{"A", "B"}) {
		t.Errorf("expected [A B], got %v", got)
	}
	if filtered.Type != "FeatureCollection" {
		t.Errorf("expected FeatureCollection type, got '%s'", filtered.Type)
	}
}

func TestFilterByNamesDoesNotMutate(t *testing.T) {
	fc := collectionOf("A", "C", "B", "D")
	before := featureNames(fc)

	filtered := FilterByNames(fc, geo.NewNameSet("C"))
	filtered.Features[0].Properties["touched"] = true
	filtered.Append(namedFeature("navn", "E"))

	if got := featureNames(fc); !equalStrings(got, before) {
		t.Errorf("input collection changed: %v -> %v", before, got)
	}
	if len(fc.Features) != 4 {
		t.Errorf("expected input to keep 4 features, got %d", len(fc.Features))
	}
}

func TestFilterByNamesUsesNameFallback(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(namedFeature("name", "Valby"))
	fc.Append(namedFeature("navn", "Vanløse"))
	fc.Append(namedFeature("", ""))
	fc.Append(namedFeature("name", "Elsewhere"))

	filtered := FilterByNames(fc, geo.NewNameSet("Valby", "Vanløse", ""))
	if got := featureNames(filtered); !equalStrings(got, []string{"Valby", "Vanløse"}) {
		t.Errorf("expected [Valby Vanløse], got %v", got)
	}
}

func TestFilterByNamesEdges(t *testing.T) {
	if got := FilterByNames(nil, geo.NewNameSet("A")); len(got.Features) != 0 {
		t.Error("nil collection should filter to empty")
	}
	if got := FilterByNames(collectionOf("A", "B"), geo.NewNameSet()); len(got.Features) != 0 {
		t.Error("empty allow-list should filter everything")
	}
}

type fakeRepo struct {
	fc  *geojson.FeatureCollection
	err error
}

func (repo *fakeRepo) Name() string { return "fake" }

func (repo *fakeRepo) FetchCollection(ctx context.Context, resourceId string) (*geojson.FeatureCollection, error) {
	return repo.fc, repo.err
}

func TestFetchFiltered(t *testing.T) {
	ctx := context.Background()

	fc, err := FetchFiltered(ctx, &fakeRepo{fc: collectionOf("A", "C", "B")}, "bydele", geo.NewNameSet("B"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := featureNames(fc); !equalStrings(got, []string{"B"}) {
		t.Errorf("expected [B], got %v", got)
	}

	fc, err = FetchFiltered(ctx, &fakeRepo{fc: collectionOf("A", "C")}, "bydele", geo.NewNameSet("Z"))
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	var warning *EmptyResultWarning
	if !errors.As(err, &warning) || warning.Total != 2 {
		t.Errorf("expected warning with total 2, got %#v", err)
	}
	if fc == nil || len(fc.Features) != 0 {
		t.Error("expected an empty collection alongside the warning")
	}

	notFound := &NotFoundError{ResourceId: "bydele", StatusCode: 404}
	if _, err := FetchFiltered(ctx, &fakeRepo{err: notFound}, "bydele", geo.NewNameSet("A")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{&NotFoundError{ResourceId: "x"}, "not_found"},
		{&MalformedDataError{ResourceId: "x", Err: errors.New("bad")}, "malformed"},
		{&EmptyResultWarning{ResourceId: "x"}, "empty"},
		{context.Canceled, "canceled"},
		{errors.New("boom"), "other"},
	}
	for _, tc := range tests {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("ErrorKind(%v): expected %s, got %s", tc.err, tc.want, got)
		}
	}
}

func TestValidResourceId(t *testing.T) {
	for _, id := range []string{"bydele", "copenhagen", "x", "a_b-1"} {
		if !ValidResourceId(id) {
			t.Errorf("expected '%s' to be valid", id)
		}
	}
	for _, id := range []string{"", "../etc/passwd", "a/b", "a.json", "a b"} {
		if ValidResourceId(id) {
			t.Errorf("expected '%s' to be invalid", id)
		}
	}
}

func TestDecodeCollection(t *testing.T) {
	const square = `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`

	tests := []struct {
		name      string
		body      string
		wantNames []string
		malformed bool
	}{
		{
			name:      "typed",
			body:      `{"type":"FeatureCollection","features":[{"type":"Feature","properties":{"navn":"A"},"geometry":` + square + `}]}`,
			wantNames: []string{"A"},
		},
		{
			name:      "untyped features",
			body:      `{"type":"FeatureCollection","features":[{"properties":{"navn":"A"},"geometry":` + square + `},{"type":"Feature","properties":{"name":"B"},"geometry":` + square + `}]}`,
			wantNames: []string{"A", "B"},
		},
		{
			name:      "null geometry and properties",
			body:      `{"type":"FeatureCollection","features":[{"properties":null,"geometry":null}]}`,
			wantNames: []string{""},
		},
		{
			name:      "null feature",
			body:      `{"type":"FeatureCollection","features":[null]}`,
			malformed: true,
		},
		{
			name:      "geometry instead of feature",
			body:      `{"type":"FeatureCollection","features":[` + square + `]}`,
			malformed: true,
		},
		{
			name:      "not a collection",
			body:      square,
			malformed: true,
		},
		{
			name:      "array",
			body:      `[]`,
			malformed: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fc, err := decodeCollection("x", strings.NewReader(tc.body))
			if tc.malformed {
				if !errors.Is(err, ErrMalformedData) {
					t.Errorf("expected ErrMalformedData, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if got := featureNames(fc); !equalStrings(got, tc.wantNames) {
				t.Errorf("expected %v, got %v", tc.wantNames, got)
			}
			for _, feature := range fc.Features {
				if feature.Type != "Feature" {
					t.Errorf("expected Feature type, got '%s'", feature.Type)
				}
			}
		})
	}
}
