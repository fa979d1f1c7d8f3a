package feature_repo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

var _ Repository = (*HTTPRepository)(nil)

// HTTPRepository fetches resources from <baseUrl>/geojson/<id>.json.
type HTTPRepository struct {
	logger  *logrus.Logger
	baseUrl string

	httpClient *http.Client
}

func (repo *HTTPRepository) Name() string {
	return "http"
}

func (repo *HTTPRepository) ResourceUrl(resourceId string) string {
	return repo.baseUrl + "/geojson/" + ResourceFilename(resourceId)
}

func (repo *HTTPRepository) makeRequest(ctx context.Context, url_str string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url_str, nil)
	if err != nil {
		return nil, fmt.Errorf("error forming http request: %w", err)
	}

	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := repo.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error doing http request: %w", err)
	}

	return resp, nil
}

func (repo *HTTPRepository) FetchCollection(ctx context.Context, resourceId string) (*geojson.FeatureCollection, error) {
	if !ValidResourceId(resourceId) {
		return nil, &NotFoundError{ResourceId: resourceId, Err: fmt.Errorf("invalid resource id")}
	}

	url_str := repo.ResourceUrl(resourceId)
	repo.logger.Debugf("FETCH[%s]: GET %s", resourceId, url_str)

	resp, err := repo.makeRequest(ctx, url_str)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &NotFoundError{ResourceId: resourceId, Err: err}
	}

	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NotFoundError{ResourceId: resourceId, StatusCode: resp.StatusCode}
	}

	fc, err := decodeCollection(resourceId, resp.Body)
	if err != nil && isContextErr(ctx.Err()) {
		return nil, ctx.Err()
	}
	return fc, err
}

// NewHTTPRepository accepts an absolute base url or an empty one. An empty
// base has no host to talk to, so callers should pair it with a directory
// repository instead.
func NewHTTPRepository(logger *logrus.Logger, baseUrl string, timeout time.Duration) (*HTTPRepository, error) {
	baseUrl = strings.TrimRight(baseUrl, "/")

	uri, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("invalid resource base url '%s': %w", baseUrl, err)
	}
	if uri.Scheme != "http" && uri.Scheme != "https" {
		return nil, fmt.Errorf("resource base url '%s' must be http or https", baseUrl)
	}

	return &HTTPRepository{
		logger:  logger,
		baseUrl: baseUrl,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}
