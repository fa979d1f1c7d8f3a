package feature_repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

var _ Repository = (*DirRepository)(nil)

// DirRepository reads <dir>/<id>.json. It is what a local checkout uses,
// where the resources sit next to the binary instead of behind a host.
type DirRepository struct {
	logger *logrus.Logger
	dir    string
}

func (repo *DirRepository) Name() string {
	return "dir"
}

func (repo *DirRepository) Dir() string {
	return repo.dir
}

func (repo *DirRepository) FetchCollection(ctx context.Context, resourceId string) (*geojson.FeatureCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !ValidResourceId(resourceId) {
		return nil, &NotFoundError{ResourceId: resourceId, Err: fmt.Errorf("invalid resource id")}
	}

	filename := filepath.Join(repo.dir, ResourceFilename(resourceId))
	repo.logger.Debugf("FETCH[%s]: reading %s", resourceId, filename)

	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{ResourceId: resourceId, Err: fs.ErrNotExist}
		}
		return nil, &NotFoundError{ResourceId: resourceId, Err: err}
	}
	defer f.Close()

	return decodeCollection(resourceId, f)
}

func NewDirRepository(logger *logrus.Logger, dir string) (*DirRepository, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("resource dir '%s' is missing or not accessible: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resource dir '%s' is not a directory", dir)
	}
	return &DirRepository{
		logger: logger,
		dir:    dir,
	}, nil
}
