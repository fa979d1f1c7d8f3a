package feature_repo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const twoFeatures = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"navn": "Indre By"},
     "geometry": {"type": "Polygon", "coordinates": [[[12.5, 55.6], [12.6, 55.6], [12.6, 55.7], [12.5, 55.6]]]}},
    {"type": "Feature", "properties": {"name": "Valby"},
     "geometry": {"type": "Polygon", "coordinates": [[[12.4, 55.6], [12.5, 55.6], [12.5, 55.7], [12.4, 55.6]]]}}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/geojson/x.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(twoFeatures))
	})
	mux.HandleFunc("/geojson/broken.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "FeatureCollection", "features": [`))
	})
	mux.HandleFunc("/geojson/point.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "Point", "coordinates": [1, 2]}`))
	})
	mux.HandleFunc("/geojson/html.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<!doctype html><html></html>`))
	})
	mux.HandleFunc("/geojson/down.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/geojson/slow.json", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPRepositoryFetch(t *testing.T) {
	srv := newTestServer(t)

	repo, err := NewHTTPRepository(testLogger(), srv.URL+"/", time.Second*5)
	if err != nil {
		t.Fatal(err)
	}

	if got := repo.ResourceUrl("x"); got != srv.URL+"/geojson/x.json" {
		t.Errorf("unexpected resource url %s", got)
	}

	fc, err := repo.FetchCollection(context.Background(), "x")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if got := featureNames(fc); !equalStrings(got, []string{"Indre By", "Valby"}) {
		t.Errorf("unexpected features %v", got)
	}
}

func TestHTTPRepositoryErrors(t *testing.T) {
	srv := newTestServer(t)

	repo, err := NewHTTPRepository(testLogger(), srv.URL, time.Second*5)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		resourceId string
		want       error
	}{
		{"missing", ErrNotFound},
		{"down", ErrNotFound},
		{"../x", ErrNotFound},
		{"broken", ErrMalformedData},
		{"point", ErrMalformedData},
		{"html", ErrMalformedData},
	}

	for _, tc := range tests {
		t.Run(tc.resourceId, func(t *testing.T) {
			fc, err := repo.FetchCollection(context.Background(), tc.resourceId)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if fc != nil {
				t.Error("expected no collection on error")
			}
		})
	}

	_, err = repo.FetchCollection(context.Background(), "missing")
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) || nfErr.StatusCode != http.StatusNotFound {
		t.Errorf("expected NotFoundError with status 404, got %#v", err)
	}
}

func TestHTTPRepositoryUnreachable(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL
	srv.Close()

	repo, err := NewHTTPRepository(testLogger(), url, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := repo.FetchCollection(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected transport failure to be ErrNotFound, got %v", err)
	}
}

func TestHTTPRepositoryCancel(t *testing.T) {
	srv := newTestServer(t)

	repo, err := NewHTTPRepository(testLogger(), srv.URL, time.Second*10)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancelFn)

	_, err = repo.FetchCollection(ctx, "slow")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("cancellation should not be reported as not found")
	}
}

func TestNewHTTPRepositoryRejectsBadUrls(t *testing.T) {
	for _, u := range []string{"", "/relative", "ftp://host", "://bad"} {
		if _, err := NewHTTPRepository(testLogger(), u, time.Second); err == nil {
			t.Errorf("expected '%s' to be rejected", u)
		}
	}
}
