// SPDX-License-Identifier: MIT

// Package timeline computes the normalized stream range (position,
// duration, play mode and live-edge proximity) from heterogeneous engine
// primitives, and owns the paused-DVR drift-correction timer.
package timeline

import (
	"math"
	"time"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

// dvrModeThreshold is the minimum DVR window length, in seconds, for a live
// stream to be classified livedvr rather than live.
const dvrModeThreshold = 100.0

// Defaults for the configurable timing constants.
const (
	DefaultLiveEdgeMargin = 10.0
	DefaultDriftInterval  = 5 * time.Second
	DefaultDriftOffset    = 10.0
)

// Options carries the configurable timing constants of a calculator.
type Options struct {
	// LiveEdgeMargin is the distance from the window end, in seconds,
	// within which the position counts as at the live edge.
	LiveEdgeMargin float64

	// DriftInterval is the paused-DVR recheck period.
	DriftInterval time.Duration

	// DriftOffset is the forward jump applied when the paused position has
	// fallen out of the sliding window, in seconds.
	DriftOffset float64
}

func (o Options) withDefaults() Options {
	if o.LiveEdgeMargin <= 0 {
		o.LiveEdgeMargin = DefaultLiveEdgeMargin
	}
	if o.DriftInterval <= 0 {
		o.DriftInterval = DefaultDriftInterval
	}
	if o.DriftOffset <= 0 {
		o.DriftOffset = DefaultDriftOffset
	}
	return o
}

// StreamRange is the computed range snapshot.
type StreamRange struct {
	Position float64
	Duration float64
	PlayMode types.PlayMode

	IsAtLivePosition bool

	// AbsolutePosition and AbsoluteStartPosition are Unix seconds. When the
	// engine reports no wall-clock stream start they are estimated from the
	// local clock minus elapsed position.
	AbsolutePosition      float64
	AbsoluteStartPosition float64
}

// AsUpdate projects the range onto state keys.
func (r StreamRange) AsUpdate() state.Update {
	return state.Update{
		state.KeyPosition:              r.Position,
		state.KeyDuration:              r.Duration,
		state.KeyPlayMode:              r.PlayMode,
		state.KeyIsAtLivePosition:      r.IsAtLivePosition,
		state.KeyAbsolutePosition:      r.AbsolutePosition,
		state.KeyAbsoluteStartPosition: r.AbsoluteStartPosition,
	}
}

// Calculator derives the normalized stream range for one engine variant.
// Variants differ only in their live-detection and window hooks.
type Calculator struct {
	eng    engine.Timeline
	isLive func() bool
	opts   Options
	now    func() time.Time
}

// NewBasic builds the calculator for the plain media-element engine, which
// signals live through an unbounded native duration.
func NewBasic(eng engine.Timeline, opts Options) *Calculator {
	return &Calculator{
		eng:    eng,
		isLive: func() bool { return math.IsInf(eng.Duration(), 1) },
		opts:   opts.withDefaults(),
		now:    time.Now,
	}
}

// NewHLS builds the calculator for the segmented-HLS engine. The engine
// exposes an explicit playlist live flag; an unbounded duration is honoured
// as a fallback for playlists without one.
func NewHLS(eng engine.Timeline, live engine.LiveReporter, opts Options) *Calculator {
	return &Calculator{
		eng: eng,
		isLive: func() bool {
			return live.IsLive() || math.IsInf(eng.Duration(), 1)
		},
		opts: opts.withDefaults(),
		now:  time.Now,
	}
}

// NewDASH builds the calculator for the MPEG-DASH engine, which reports an
// explicit dynamic-manifest flag.
func NewDASH(eng engine.Timeline, live engine.LiveReporter, opts Options) *Calculator {
	return &Calculator{
		eng:    eng,
		isLive: live.IsLive,
		opts:   opts.withDefaults(),
		now:    time.Now,
	}
}

// NewMSS builds the calculator for the alternative adaptive engine.
func NewMSS(eng engine.Timeline, live engine.LiveReporter, opts Options) *Calculator {
	return &Calculator{
		eng:    eng,
		isLive: live.IsLive,
		opts:   opts.withDefaults(),
		now:    time.Now,
	}
}

// Range computes the current normalized stream range on demand.
func (c *Calculator) Range() StreamRange {
	if !c.isLive() {
		return c.onDemandRange()
	}
	return c.liveRange()
}

func (c *Calculator) onDemandRange() StreamRange {
	pos := c.eng.Position()
	dur := c.eng.Duration()
	if math.IsNaN(dur) || math.IsInf(dur, 0) {
		dur = 0
	}

	r := StreamRange{
		Position: clampNonNegative(pos),
		Duration: dur,
		PlayMode: types.PlayModeOnDemand,
	}
	r.AbsolutePosition, r.AbsoluteStartPosition = c.absolutePositions(r.Position)
	return r
}

func (c *Calculator) liveRange() StreamRange {
	current := c.eng.Position()
	start, end, ok := c.eng.SeekableRange()

	var pos, dur float64
	if ok && !math.IsInf(end-start, 0) {
		dur = end - start
		pos = current - start
	}

	mode := types.PlayModeLive
	if dur >= dvrModeThreshold {
		mode = types.PlayModeLiveDVR
	}

	pos = clampNonNegative(pos)
	r := StreamRange{
		Position:         pos,
		Duration:         dur,
		PlayMode:         mode,
		IsAtLivePosition: pos > dur-c.opts.LiveEdgeMargin,
	}
	r.AbsolutePosition, r.AbsoluteStartPosition = c.absolutePositions(pos)
	return r
}

// absolutePositions derives wall-clock positions from the engine's stream
// start time, falling back to a local-clock estimate. The fallback is a
// documented best effort, not a contract.
func (c *Calculator) absolutePositions(position float64) (absPos, absStart float64) {
	if start, ok := c.eng.StreamStart(); ok {
		absStart = float64(start.UnixMilli()) / 1000
		return absStart + position, absStart
	}
	nowSec := float64(c.now().UnixMilli()) / 1000
	return nowSec, nowSec - position
}

// SeekTo translates a normalized position into a native seek. For live
// streams the position is relative to the window start.
func (c *Calculator) SeekTo(position float64) {
	if !c.isLive() {
		c.eng.SetPosition(position)
		return
	}
	start, _, ok := c.eng.SeekableRange()
	if !ok {
		return
	}
	c.eng.SetPosition(start + position)
}

// GotoLive jumps the playhead to the live edge. No-op for on-demand.
func (c *Calculator) GotoLive() {
	if !c.isLive() {
		return
	}
	_, end, ok := c.eng.SeekableRange()
	if !ok {
		return
	}
	c.eng.SetPosition(end)
}

// IsLive reports the variant's live signal.
func (c *Calculator) IsLive() bool {
	return c.isLive()
}

func clampNonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
