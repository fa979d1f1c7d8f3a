package overlay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/UnownHash/Flyover/feature_repo"
	"github.com/UnownHash/Flyover/geo"
)

type StatsCollector interface {
	AddFetch(kind string)
	AddFetchError(kind string, err error)
}

// Loader produces the always-on region overlay. It loads once per process;
// the result, or its absence, is then fixed.
type Loader struct {
	logger         *logrus.Logger
	repo           feature_repo.Repository
	statsCollector StatsCollector
	resourceId     string
	allowed        geo.NameSet

	once    sync.Once
	err     error
	overlay atomic.Pointer[geojson.FeatureCollection]
}

// Overlay returns the published overlay, or nil while loading and when
// absent.
func (loader *Loader) Overlay() *geojson.FeatureCollection {
	return loader.overlay.Load()
}

// Load fetches and filters the base resource. Only the first call does any
// work; later calls return the first outcome. A nil collection means there is
// nothing to render and err says why. Failures are logged here and are never
// fatal.
func (loader *Loader) Load(ctx context.Context) (*geojson.FeatureCollection, error) {
	loader.once.Do(func() {
		loader.err = loader.load(ctx)
	})
	return loader.Overlay(), loader.err
}

func (loader *Loader) load(ctx context.Context) error {
	loader.logger.Infof("OVERLAY: loading '%s' from %s repository (%d allowed name(s))",
		loader.resourceId,
		loader.repo.Name(),
		loader.allowed.Len(),
	)

	loader.statsCollector.AddFetch("base")

	fc, err := feature_repo.FetchFiltered(ctx, loader.repo, loader.resourceId, loader.allowed)
	if err != nil {
		loader.statsCollector.AddFetchError("base", err)
		if errors.Is(err, feature_repo.ErrEmptyResult) {
			loader.logger.Warnf("OVERLAY: %v. Not drawing the base overlay.", err)
		} else {
			loader.logger.Errorf("OVERLAY: failed to load '%s': %v. Continuing without the base overlay.", loader.resourceId, err)
		}
		return fmt.Errorf("base overlay: %w", err)
	}

	loader.overlay.Store(fc)
	loader.logger.Infof("OVERLAY: loaded %d feature(s) from '%s'", len(fc.Features), loader.resourceId)

	return nil
}

func NewLoader(logger *logrus.Logger, repo feature_repo.Repository, statsCollector StatsCollector, config Config) (*Loader, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Loader{
		logger:         logger,
		repo:           repo,
		statsCollector: statsCollector,
		resourceId:     config.ResourceId,
		allowed:        config.NameSet(),
	}, nil
}
