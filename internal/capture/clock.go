package capture

import (
	"sync"
	"time"
)

// ClockState identifies the timing phase of a Clock.
type ClockState string

const (
	ClockStopped ClockState = "stopped"
	ClockRunning ClockState = "running"
	ClockPaused  ClockState = "paused"
)

// Clock accumulates elapsed recording time across pause/resume cycles. Paused
// spans contribute nothing to the total. A stopped clock reports its final
// duration forever; restarting requires a fresh Clock.
type Clock struct {
	mu     sync.Mutex
	state  ClockState
	now    func() time.Time
	base   time.Time     // start of the current running span
	frozen time.Duration // elapsed accumulated before the current span

	tickEvery time.Duration
	tickFn    func(time.Duration)
	quit      chan struct{}
}

// ClockOption customizes a Clock at construction.
type ClockOption func(*Clock)

// WithNow replaces the wall clock, primarily for tests.
func WithNow(now func() time.Time) ClockOption {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithTick installs a periodic callback that receives the current elapsed
// duration while the clock is running. interval must be positive.
func WithTick(interval time.Duration, fn func(time.Duration)) ClockOption {
	return func(c *Clock) {
		if interval > 0 && fn != nil {
			c.tickEvery = interval
			c.tickFn = fn
		}
	}
}

// NewClock returns a stopped clock at zero elapsed time.
func NewClock(opts ...ClockOption) *Clock {
	c := &Clock{state: ClockStopped, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports the current phase.
func (c *Clock) State() ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins timing. Only legal on a freshly constructed (or never started)
// stopped clock with zero accumulated time being irrelevant; a clock that has
// already run and stopped cannot be restarted.
func (c *Clock) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != ClockStopped {
		return Wrap(ErrInvalidState, "clock", "start", "already started", nil)
	}
	c.base = c.now()
	c.state = ClockRunning
	if c.tickFn != nil {
		c.quit = make(chan struct{})
		go c.tickLoop(c.quit)
	}
	return nil
}

// Pause freezes the accumulated duration. Pausing an already paused clock is a
// no-op.
func (c *Clock) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case ClockPaused:
		return nil
	case ClockRunning:
		c.frozen += c.now().Sub(c.base)
		c.state = ClockPaused
		return nil
	default:
		return Wrap(ErrInvalidState, "clock", "pause", "clock is stopped", nil)
	}
}

// Resume continues timing after a pause. Resuming a running clock is a no-op.
// The reference instant is re-based so the paused span never counts.
func (c *Clock) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case ClockRunning:
		return nil
	case ClockPaused:
		c.base = c.now()
		c.state = ClockRunning
		return nil
	default:
		return Wrap(ErrInvalidState, "clock", "resume", "clock is stopped", nil)
	}
}

// Stop finalizes the duration. Stopping a stopped clock is a no-op so callers
// can use it unconditionally during teardown.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == ClockStopped {
		return
	}
	if c.state == ClockRunning {
		c.frozen += c.now().Sub(c.base)
	}
	c.state = ClockStopped
	if c.quit != nil {
		close(c.quit)
		c.quit = nil
	}
}

// Sample reports the elapsed duration. Legal in every state; after Stop it
// keeps returning the final value.
func (c *Clock) Sample() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == ClockRunning {
		return c.frozen + c.now().Sub(c.base)
	}
	return c.frozen
}

func (c *Clock) tickLoop(quit chan struct{}) {
	ticker := time.NewTicker(c.tickEvery)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			c.mu.Lock()
			running := c.state == ClockRunning
			elapsed := c.frozen
			if running {
				elapsed += c.now().Sub(c.base)
			}
			fn := c.tickFn
			c.mu.Unlock()
			if running && fn != nil {
				fn(elapsed)
			}
		}
	}
}
