// SPDX-License-Identifier: MIT
package timeline

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/metrics"
)

// Corrector keeps a paused live stream inside its sliding DVR window. While
// paused, real time advances the window past the frozen playhead; on every
// tick the corrector recomputes the window and, when the position has fallen
// at or before the window start, jumps playback forward by a fixed offset
// and re-emits the range.
//
// Start is called when playback pauses during a live session; Stop on
// resume, seek start and session end. The timer never outlives its session.
type Corrector struct {
	eng interface {
		Position() float64
		SetPosition(float64)
	}
	window   func() (start, end float64, ok bool)
	interval time.Duration
	offset   float64

	// dispatch serializes the tick onto the session's dispatch loop.
	dispatch func(func())

	// onCorrected re-emits the stream range after a jump.
	onCorrected func()

	logger zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	running bool
	epoch   uint64
}

// NewCorrector builds a drift corrector bound to one calculator's engine.
func NewCorrector(calc *Calculator, opts Options, dispatch func(func()), onCorrected func(), logger zerolog.Logger) *Corrector {
	opts = opts.withDefaults()
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &Corrector{
		eng:         calc.eng,
		window:      calc.eng.SeekableRange,
		interval:    opts.DriftInterval,
		offset:      opts.DriftOffset,
		dispatch:    dispatch,
		onCorrected: onCorrected,
		logger:      logger,
	}
}

// Start begins the recurring recheck. Idempotent while running.
func (c *Corrector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.epoch++
	c.schedule(c.epoch)
}

// Stop cancels the recheck timer. Late ticks become no-ops through the
// epoch guard.
func (c *Corrector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.running = false
	c.epoch++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Running reports whether the corrector is active. Intended for tests.
func (c *Corrector) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Corrector) schedule(epoch uint64) {
	c.timer = time.AfterFunc(c.interval, func() {
		c.dispatch(func() { c.tick(epoch) })
	})
}

func (c *Corrector) tick(epoch uint64) {
	c.mu.Lock()
	if !c.running || epoch != c.epoch {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	start, _, ok := c.window()
	if ok && c.eng.Position() <= start {
		corrected := start + c.offset
		c.eng.SetPosition(corrected)
		metrics.IncDriftCorrection()
		c.logger.Debug().
			Str("event", "dvr.drift_corrected").
			Float64("window_start", start).
			Float64("position", corrected).
			Msg("paused playhead fell out of DVR window, jumped forward")
		if c.onCorrected != nil {
			c.onCorrected()
		}
	}

	c.mu.Lock()
	if c.running && epoch == c.epoch {
		c.schedule(epoch)
	}
	c.mu.Unlock()
}
