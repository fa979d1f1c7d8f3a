package viewport

import (
	"time"

	"github.com/paulmach/orb"
)

const DEFAULT_FLY_DURATION = 1500 * time.Millisecond

type ViewOptions struct {
	Animate  bool
	Duration time.Duration
}

// Surface is the part of a map the controller drives.
type Surface interface {
	SetView(center orb.Point, zoom int, opts ViewOptions)
}

// Controller turns a selection into exactly one camera move. It does not
// look at overlay fetches at all: the camera moves on click.
type Controller struct {
	surface  Surface
	duration time.Duration
}

func (ctrl *Controller) TransitionTo(center orb.Point, zoom int) {
	ctrl.surface.SetView(center, zoom, ViewOptions{
		Animate:  ctrl.duration > 0,
		Duration: ctrl.duration,
	})
}

// NewController returns a controller flying over duration. A zero duration
// jumps instead.
func NewController(surface Surface, duration time.Duration) *Controller {
	if duration < 0 {
		duration = 0
	}
	return &Controller{
		surface:  surface,
		duration: duration,
	}
}
