package selection

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/UnownHash/Flyover/feature_repo"
	"github.com/UnownHash/Flyover/locations"
)

type Viewport interface {
	TransitionTo(center orb.Point, zoom int)
}

type StatsCollector interface {
	AddFetch(kind string)
	AddFetchError(kind string, err error)
	AddStaleDiscarded()
	AddOverlayApplied()
}

// Listener hears about every change to the displayed location overlay: a
// nil collection right after a selection, then the fetched one if it lands.
type Listener interface {
	OverlayChanged(loc locations.Location, fc *geojson.FeatureCollection)
}

type Outcome int

const (
	OutcomeApplied Outcome = iota
	OutcomeFailed
	OutcomeStale
)

func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	}
	return "unknown"
}

// Request is one selection's fetch. It carries the epoch it was issued
// under.
type Request struct {
	Epoch    uint64
	Location locations.Location

	ctx context.Context
}

type Result struct {
	Epoch      uint64
	LocationId string
	Collection *geojson.FeatureCollection
	Err        error
}

type CoordinatorConfig struct {
	Logger         *logrus.Logger
	Repository     feature_repo.Repository
	Viewport       Viewport
	StatsCollector StatsCollector
	Listener       Listener
}

// Coordinator owns the selection state machine. Select and Apply must be
// called from a single goroutine; Fetch may run anywhere. Other goroutines
// read Snapshot().
type Coordinator struct {
	logger         *logrus.Logger
	repo           feature_repo.Repository
	viewport       Viewport
	statsCollector StatsCollector
	listener       Listener

	state    State
	lastErr  error
	cancelFn context.CancelFunc

	snapshot atomic.Pointer[Snapshot]
}

func (coord *Coordinator) publish() {
	snap := &Snapshot{
		Phase:     coord.state.Phase(),
		Overlay:   coord.state.Loaded,
		Epoch:     coord.state.Epoch,
		LastError: coord.lastErr,
	}
	if coord.state.Selected != nil {
		loc := *coord.state.Selected
		snap.Location = &loc
	}
	if snap.Phase == PhaseSelecting && coord.lastErr != nil {
		snap.Phase = PhaseFailed
	}
	coord.snapshot.Store(snap)
}

func (coord *Coordinator) Snapshot() *Snapshot {
	return coord.snapshot.Load()
}

// Select makes loc the current selection: the epoch moves on, the old
// overlay goes away, the camera moves, and any in-flight fetch is cancelled.
// The returned Request should be passed to Fetch.
func (coord *Coordinator) Select(ctx context.Context, loc locations.Location) Request {
	if coord.cancelFn != nil {
		coord.cancelFn()
		coord.cancelFn = nil
	}

	coord.state.Epoch++
	coord.state.Selected = &loc
	coord.state.Loaded = nil
	coord.lastErr = nil

	reqCtx, cancelFn := context.WithCancel(ctx)
	coord.cancelFn = cancelFn

	req := Request{
		Epoch:    coord.state.Epoch,
		Location: loc,
		ctx:      reqCtx,
	}

	coord.logger.Debugf("SELECT[%s]: selected (epoch %d)", loc.Id, req.Epoch)

	coord.viewport.TransitionTo(loc.Point(), loc.DefaultZoom)
	coord.statsCollector.AddFetch("location")
	coord.publish()

	if coord.listener != nil {
		coord.listener.OverlayChanged(loc, nil)
	}

	return req
}

// Fetch retrieves the overlay for req. It does not touch any state.
func (coord *Coordinator) Fetch(req Request) Result {
	ctx := req.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	fc, err := coord.repo.FetchCollection(ctx, req.Location.Id)
	return Result{
		Epoch:      req.Epoch,
		LocationId: req.Location.Id,
		Collection: fc,
		Err:        err,
	}
}

// Apply reconciles a fetch result with the current selection. Results from
// an older epoch are dropped without a trace beyond a debug line.
func (coord *Coordinator) Apply(res Result) Outcome {
	if res.Epoch != coord.state.Epoch || coord.state.Selected == nil {
		coord.logger.Debugf("SELECT[%s]: discarding result for epoch %d (current %d)", res.LocationId, res.Epoch, coord.state.Epoch)
		coord.statsCollector.AddStaleDiscarded()
		return OutcomeStale
	}

	if coord.cancelFn != nil {
		coord.cancelFn()
		coord.cancelFn = nil
	}

	loc := *coord.state.Selected

	err := res.Err
	if err == nil && res.Collection == nil {
		err = &feature_repo.MalformedDataError{ResourceId: res.LocationId, Err: errors.New("no collection returned")}
	}

	if err != nil {
		coord.statsCollector.AddFetchError("location", err)
		coord.lastErr = fmt.Errorf("%s: %w", loc, err)
		coord.logger.Errorf("SELECT[%s]: failed to load overlay: %v", loc.Id, err)
		coord.publish()
		return OutcomeFailed
	}

	coord.state.Loaded = res.Collection
	coord.lastErr = nil
	coord.statsCollector.AddOverlayApplied()
	coord.logger.Infof("SELECT[%s]: showing %d feature(s)", loc.Id, len(res.Collection.Features))
	coord.publish()

	if coord.listener != nil {
		coord.listener.OverlayChanged(loc, res.Collection)
	}

	return OutcomeApplied
}

// State returns a copy of the current state.
func (coord *Coordinator) State() State {
	return coord.state
}

// Close cancels any in-flight fetch.
func (coord *Coordinator) Close() {
	if coord.cancelFn != nil {
		coord.cancelFn()
		coord.cancelFn = nil
	}
}

func NewCoordinator(config CoordinatorConfig) (*Coordinator, error) {
	if config.Logger == nil {
		return nil, errors.New("coordinator needs a logger")
	}
	if config.Repository == nil {
		return nil, errors.New("coordinator needs a feature repository")
	}
	if config.Viewport == nil {
		return nil, errors.New("coordinator needs a viewport")
	}
	if config.StatsCollector == nil {
		return nil, errors.New("coordinator needs a stats collector")
	}

	coord := &Coordinator{
		logger:         config.Logger,
		repo:           config.Repository,
		viewport:       config.Viewport,
		statsCollector: config.StatsCollector,
		listener:       config.Listener,
	}
	coord.publish()

	return coord, nil
}
