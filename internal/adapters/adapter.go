// SPDX-License-Identifier: MIT

// Package adapters binds one native engine to the normalization components:
// stream range calculator, track managers, bitrate manager, error mapper and
// source change handler. One adapter variant exists per engine; all satisfy
// the same contract.
package adapters

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/bitrate"
	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/errmap"
	"github.com/nordav/playcore/internal/lifecycle"
	"github.com/nordav/playcore/internal/props"
	"github.com/nordav/playcore/internal/source"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/timeline"
	"github.com/nordav/playcore/internal/tracks"
	"github.com/nordav/playcore/internal/types"
)

// Adapter is the contract every engine variant satisfies.
type Adapter interface {
	Technology() types.Technology

	// StartSession resets per-source resources and emits the initial
	// snapshot for a new session.
	StartSession(sessionID string)

	// HandleSourceChange reconfigures the engine for a new source. A nil
	// source releases the active media resource.
	HandleSourceChange(ctx context.Context, sessionID string, src *types.PlaybackSource) error

	// ApplyProperties applies a property batch in the documented order.
	ApplyProperties(batch types.PlaybackProps)

	// EventHandlers returns the handler map registered and unregistered as
	// one unit. The same map instance is returned on every call so Attach
	// and Detach stay symmetric.
	EventHandlers() engine.HandlerMap

	TextTrackManager() *tracks.TextManager
	AudioTrackManager() *tracks.AudioManager

	// Cleanup detaches handlers, stops timers and releases the engine.
	Cleanup()
}

// Deps carries the session-scoped collaborators an adapter variant needs.
type Deps struct {
	Updater  *state.Updater
	Life     *lifecycle.Manager
	Options  timeline.Options
	Dispatch func(func())
	OnError  func(*types.PlaybackError)
	Logger   zerolog.Logger
}

// New builds the adapter variant for the resolved technology.
func New(tech types.Technology, eng engine.Engine, deps Deps) (Adapter, error) {
	switch tech {
	case types.TechBasic:
		return newBasic(eng, deps), nil
	case types.TechHLS:
		return newHLS(eng, deps)
	case types.TechDASH:
		return newDASH(eng, deps)
	case types.TechMSS:
		return newMSS(eng, deps)
	default:
		return nil, fmt.Errorf("no adapter for technology %q", tech)
	}
}

// liveEngine is what the adaptive variants require from their engine.
type liveEngine interface {
	engine.Engine
	engine.LiveReporter
}

func requireLive(tech types.Technology, eng engine.Engine) (liveEngine, error) {
	le, ok := eng.(liveEngine)
	if !ok {
		return nil, fmt.Errorf("engine for %q does not report live state: %w",
			tech, errUnsupportedEngine(tech))
	}
	return le, nil
}

func errUnsupportedEngine(tech types.Technology) error {
	return &types.PlaybackError{
		Code:       types.CodeStreamErrorTechnologyUnsupported,
		Technology: tech,
		Severity:   types.SeverityFatal,
		Message:    "engine prerequisites missing on this runtime",
	}
}

// base is the shared adapter core. Variants embed it and override the
// handler wiring where their engine's event surface differs.
type base struct {
	tech      types.Technology
	eng       engine.Engine
	updater   *state.Updater
	life      *lifecycle.Manager
	calc      *timeline.Calculator
	corrector *timeline.Corrector
	text      *tracks.TextManager
	audio     *tracks.AudioManager
	bits      *bitrate.Manager
	changer   *source.Changer
	logger    zerolog.Logger
	onError   func(*types.PlaybackError)
	dispatch  func(func())
	handlers  engine.HandlerMap
}

func newBase(tech types.Technology, eng engine.Engine, calc *timeline.Calculator,
	text *tracks.TextManager, deps Deps) *base {
	b := &base{
		tech:     tech,
		eng:      eng,
		updater:  deps.Updater,
		life:     deps.Life,
		calc:     calc,
		text:     text,
		audio:    tracks.NewAudio(eng, deps.Updater, deps.Logger),
		bits:     bitrate.New(eng, deps.Updater, deps.Logger),
		logger:   deps.Logger,
		onError:  deps.OnError,
		dispatch: deps.Dispatch,
	}
	b.corrector = timeline.NewCorrector(calc, deps.Options, deps.Dispatch, b.emitRange, deps.Logger)
	b.life.BindLiveSupport(b.corrector, calc.IsLive)
	b.changer = source.NewChanger(eng, deps.Life, deps.Logger,
		b.resetSession, b.text.SetSideLoaded, nil)
	b.handlers = b.coreHandlers()
	for t, h := range b.handlers {
		b.handlers[t] = b.wrap(h)
	}
	return b
}

// wrap routes a handler through the session dispatch loop so engine events
// serialize with timer callbacks and commands. Events from a replaced
// session are dropped there.
func (b *base) wrap(h engine.Handler) engine.Handler {
	if b.dispatch == nil {
		return h
	}
	return func(ev engine.Event) {
		b.dispatch(func() { h(ev) })
	}
}

func (b *base) Technology() types.Technology { return b.tech }

func (b *base) TextTrackManager() *tracks.TextManager   { return b.text }
func (b *base) AudioTrackManager() *tracks.AudioManager { return b.audio }

func (b *base) EventHandlers() engine.HandlerMap { return b.handlers }

func (b *base) StartSession(sessionID string) {
	b.life.StartSession(sessionID)
	b.resetSession()
}

func (b *base) HandleSourceChange(ctx context.Context, sessionID string, src *types.PlaybackSource) error {
	return b.changer.Change(ctx, sessionID, src)
}

func (b *base) ApplyProperties(batch types.PlaybackProps) {
	props.Apply(b, batch, b.logger)
}

func (b *base) Cleanup() {
	b.eng.Detach(b.handlers)
	b.corrector.Stop()
	b.changer.Close()
	b.life.Teardown()
	b.eng.Release()
}

// resetSession clears per-source resources and re-emits their initial
// state. The lifecycle part of the session start is handled by the changer.
func (b *base) resetSession() {
	b.corrector.Stop()
	b.text.Reset()
	b.audio.Reset()
	b.bits.Reset()
	b.text.EmitInitial()
	b.audio.EmitInitial()
	b.bits.EmitInitial()
	b.emitVolume()
}

// coreHandlers is the event wiring shared by every variant.
func (b *base) coreHandlers() engine.HandlerMap {
	return engine.HandlerMap{
		engine.EventLoadStart: func(engine.Event) {
			b.life.NotifyLoading()
		},
		engine.EventReady: func(engine.Event) {
			b.life.NotifyReady(b.eng.Paused())
			b.emitRange()
			b.emitVolume()
		},
		engine.EventPlaying: func(engine.Event) {
			b.life.NotifyPlaying()
		},
		engine.EventPause: func(engine.Event) {
			b.life.NotifyPaused()
		},
		engine.EventWaiting: func(engine.Event) {
			b.life.NotifyBuffering(true)
		},
		engine.EventSeeking: func(engine.Event) {
			b.life.NotifySeeking()
		},
		engine.EventSeeked: func(engine.Event) {
			b.life.NotifySeeked()
			b.emitRangeIfStarted()
		},
		engine.EventTimeUpdate: func(engine.Event) {
			b.emitRangeIfStarted()
		},
		engine.EventVolumeChange: func(engine.Event) {
			b.emitVolume()
		},
		engine.EventEnded: func(engine.Event) {
			b.life.NotifyEnded()
		},
		engine.EventError: func(ev engine.Event) {
			b.handleError(ev)
		},
		engine.EventTracksChanged: func(engine.Event) {
			b.text.HandleNativeTracksChanged()
			b.audio.HandleNativeTracksChanged()
		},
		engine.EventTrackLoaded: func(ev engine.Event) {
			if ev.Track != nil {
				b.text.HandleTrackLoaded(ev.Track)
			}
		},
	}
}

func (b *base) handleError(ev engine.Event) {
	mapped := errmap.Map(b.tech, ev.Err)
	b.life.NotifyError(mapped)
	if b.onError != nil {
		b.onError(mapped)
	}
}

// emitRange publishes the computed stream range plus the buffer depth.
func (b *base) emitRange() {
	update := b.calc.Range().AsUpdate()
	update[state.KeyBufferedAhead] = b.eng.BufferedAhead()
	b.updater.Update(update)
}

func (b *base) emitRangeIfStarted() {
	if b.life.Stage() != lifecycle.StageStarted {
		return
	}
	b.emitRange()
}

func (b *base) emitVolume() {
	b.updater.Update(state.Update{
		state.KeyVolume:  b.eng.Volume(),
		state.KeyIsMuted: b.eng.Muted(),
	})
}

// props.Target implementation.

func (b *base) SetPaused(paused bool) {
	if paused {
		b.eng.Pause()
		return
	}
	b.eng.Play()
}

func (b *base) SetVolume(volume float64) { b.eng.SetVolume(volume) }

func (b *base) SetMuted(muted bool) { b.eng.SetMuted(muted) }

func (b *base) SeekTo(position float64) { b.calc.SeekTo(position) }

func (b *base) GotoLive() { b.calc.GotoLive() }

func (b *base) SelectTextTrack(sel *types.AvailableTrack) error {
	return b.text.Select(sel)
}

func (b *base) SelectAudioTrack(sel *types.AvailableTrack) error {
	return b.audio.Select(sel)
}

func (b *base) CapBitrate(maxKbps float64) { b.bits.CapBitrate(maxKbps) }

func (b *base) FixBitrate(lock types.BitrateLock) { b.bits.FixBitrate(lock) }
