package selection

import (
	"github.com/paulmach/orb/geojson"

	"github.com/UnownHash/Flyover/locations"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelecting
	PhaseLoaded
	// PhaseFailed is Selecting whose fetch failed. Nothing more will arrive
	// for this epoch.
	PhaseFailed
)

func (phase Phase) String() string {
	switch phase {
	case PhaseIdle:
		return "idle"
	case PhaseSelecting:
		return "selecting"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// State is owned by the Coordinator and only ever touched from the
// goroutine driving it.
type State struct {
	Selected *locations.Location
	Loaded   *geojson.FeatureCollection
	// Epoch goes up by one on every selection. A fetch result only counts
	// when it carries the current epoch.
	Epoch uint64
}

func (state *State) Phase() Phase {
	switch {
	case state.Selected == nil:
		return PhaseIdle
	case state.Loaded == nil:
		return PhaseSelecting
	}
	return PhaseLoaded
}

// Snapshot is an immutable copy of State plus the last failure, safe to hand
// to other goroutines.
type Snapshot struct {
	Phase     Phase
	Location  *locations.Location
	Overlay   *geojson.FeatureCollection
	Epoch     uint64
	LastError error
}

func (snap *Snapshot) FeatureCount() int {
	if snap.Overlay == nil {
		return 0
	}
	return len(snap.Overlay.Features)
}

func (snap *Snapshot) LocationId() string {
	if snap.Location == nil {
		return ""
	}
	return snap.Location.Id
}
