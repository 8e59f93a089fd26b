package viewport

import (
	"sync"
	"time"
)

// State of the transcript viewport relative to live playback.
type State int

const (
	// Following auto-scrolls the view to the bottom on every content change.
	Following State = iota
	// Browsing suspends auto-scroll while the user reads older segments.
	Browsing
)

func (s State) String() string {
	switch s {
	case Following:
		return "following"
	case Browsing:
		return "browsing"
	default:
		return "unknown"
	}
}

const (
	// DefaultBottomThreshold is the near-bottom distance, in pixels, inside
	// which the view still counts as pinned to live.
	DefaultBottomThreshold = 120.0
	// DefaultQuietPeriod is how long scroll input must be absent before the
	// controller re-measures the position and may resume following.
	DefaultQuietPeriod = 2 * time.Second
)

// Controller arbitrates between auto-scroll and user browsing. Explicit
// states with guarded transitions; the timer interplay lives in the
// lastScroll timestamp rather than a timeout handle.
type Controller struct {
	mu         sync.Mutex
	state      State
	threshold  float64
	quiet      time.Duration
	lastScroll time.Time
}

func NewController() *Controller {
	return &Controller{
		state:     Following,
		threshold: DefaultBottomThreshold,
		quiet:     DefaultQuietPeriod,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnScroll handles a user scroll gesture. distanceFromBottom is the measured
// gap between the scroll position and the bottom of the transcript view;
// scrollingUp reports the gesture direction.
func (c *Controller) OnScroll(distanceFromBottom float64, scrollingUp bool, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastScroll = now
	if c.state == Following && scrollingUp && distanceFromBottom > c.threshold {
		c.state = Browsing
	}
}

// OnJumpToLive is the explicit return-to-live affordance.
func (c *Controller) OnJumpToLive() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Following
}

// OnContentChange runs whenever new words become visible or a segment gains
// an insight. distanceFromBottom is re-measured by the caller at call time.
// It returns true when the view should be programmatically scrolled to the
// bottom. While browsing, a quiet period followed by a near-bottom position
// resumes following; anything else leaves the user alone.
func (c *Controller) OnContentChange(distanceFromBottom float64, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Following:
		return true
	case Browsing:
		if now.Sub(c.lastScroll) >= c.quiet && distanceFromBottom <= c.threshold {
			c.state = Following
			return true
		}
	}
	return false
}

// ShowJumpToLive reports whether the return-to-live affordance should be
// surfaced.
func (c *Controller) ShowJumpToLive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Browsing
}
