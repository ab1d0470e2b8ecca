// SPDX-License-Identifier: MIT

// Package player is the public control surface of the normalization engine:
// one Player presents a consistent observable stream state and an
// idempotent property-setting API over whichever engine variant the
// resolver picks for the active source.
package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/adapters"
	"github.com/nordav/playcore/internal/config"
	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/lifecycle"
	"github.com/nordav/playcore/internal/log"
	"github.com/nordav/playcore/internal/metrics"
	"github.com/nordav/playcore/internal/resolve"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/timeline"
	"github.com/nordav/playcore/internal/types"
)

// EngineFactory builds the native engine for a resolved technology. The
// daemon and the tests supply the scripted fake; production embedders
// supply bindings to their real engines.
type EngineFactory func(tech types.Technology, cfg config.EngineConfig) (engine.Engine, error)

// Callbacks carries the caller's observation surface. OnState receives
// successive partial updates, never a full snapshot after the first.
// Callbacks run on the session's dispatch loop and must not call back into
// the Player.
type Callbacks struct {
	OnState state.Sink
	OnError func(*types.PlaybackError)
}

// Player drives one playback session at a time. All engine events and timer
// callbacks are serialized onto one logical dispatch loop guarded by mu;
// in-flight callbacks from a torn-down session are invalidated through the
// session epoch.
type Player struct {
	mu sync.Mutex

	cfg     *config.Config
	runtime resolve.Runtime
	factory EngineFactory
	cb      Callbacks
	logger  zerolog.Logger

	updater *state.Updater
	life    *lifecycle.Manager

	adapter   adapters.Adapter
	eng       engine.Engine
	sessionID string
	epoch     uint64
	closed    bool

	snapMu   sync.RWMutex
	snapshot types.VideoStreamState
}

// New builds a Player. cfg may be nil for defaults.
func New(cfg *config.Config, rt resolve.Runtime, factory EngineFactory, cb Callbacks) *Player {
	if cfg == nil {
		cfg = config.Default()
	}
	p := &Player{
		cfg:     cfg,
		runtime: rt,
		factory: factory,
		cb:      cb,
		logger:  log.WithComponent("player"),
	}
	p.updater = state.NewUpdater(p.forwardState)
	p.life = lifecycle.New(p.updater, p.logger)
	return p
}

// Lifecycle returns the stage accessor for observers.
func (p *Player) Stage() lifecycle.Stage {
	return p.life.Stage()
}

// SessionID returns the active session identifier, empty when idle.
func (p *Player) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessionID
}

// SetSource replaces the active source and starts a new playback session.
// A nil source tears the current session down and releases the media
// resource. Resolution errors occur before any session starts; they are
// surfaced through the error callback and returned.
func (p *Player) SetSource(ctx context.Context, src *types.PlaybackSource) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("player is closed")
	}

	p.epoch++
	p.teardownLocked()

	if src == nil {
		return nil
	}

	resolved, err := resolve.SelectDRMVariant(src, p.runtime)
	if err != nil {
		return p.resolutionError(err)
	}
	tech, err := resolve.Resolve(resolved, p.runtime)
	if err != nil {
		return p.resolutionError(err)
	}

	ecfg := p.cfg.ForTechnology(string(tech))
	eng, err := p.factory(tech, ecfg)
	if err != nil {
		return p.resolutionError(fmt.Errorf("construct %s engine: %w", tech, err))
	}

	sessionID := uuid.NewString()
	logger := log.WithSession("session", sessionID)

	adapter, err := adapters.New(tech, eng, adapters.Deps{
		Updater:  p.updater,
		Life:     p.life,
		Options:  timelineOptions(ecfg),
		Dispatch: p.dispatchForEpoch(p.epoch),
		OnError:  p.surfaceError,
		Logger:   logger,
	})
	if err != nil {
		return p.resolutionError(err)
	}

	p.adapter = adapter
	p.eng = eng
	p.sessionID = sessionID
	eng.Attach(adapter.EventHandlers())
	metrics.IncSessionStarted(string(tech))

	p.logger.Info().
		Str("event", "player.source_set").
		Str("session_id", sessionID).
		Str("technology", string(tech)).
		Str("url", resolved.URL).
		Msg("source resolved, starting session")

	if err := adapter.HandleSourceChange(ctx, sessionID, resolved); err != nil {
		loadErr := &types.PlaybackError{
			Code:        types.CodeStreamErrorDownload,
			Technology:  tech,
			Severity:    types.SeverityFatal,
			Message:     err.Error(),
			SourceError: err,
		}
		p.life.NotifyError(loadErr)
		p.surfaceError(loadErr)
		return err
	}
	return nil
}

// SetProperties applies a partial property batch against the active
// session. Batches are idempotent and order-independent across calls; a key
// absent from the batch changes nothing.
func (p *Player) SetProperties(batch types.PlaybackProps) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.adapter == nil {
		p.logger.Debug().
			Str("event", "player.props_dropped").
			Msg("property batch ignored, no active session")
		return
	}
	p.adapter.ApplyProperties(batch)
}

// Snapshot returns the merged point-in-time view of the observable state.
func (p *Player) Snapshot() types.VideoStreamState {
	p.snapMu.RLock()
	defer p.snapMu.RUnlock()
	return p.snapshot
}

// Close tears down the active session. Timers and in-flight callbacks are
// invalidated; the Player cannot be reused.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.epoch++
	p.teardownLocked()
}

func (p *Player) teardownLocked() {
	if p.adapter != nil {
		p.adapter.Cleanup()
		p.adapter = nil
		p.eng = nil
		p.sessionID = ""
	}
}

// dispatchForEpoch serializes engine events and timer callbacks onto the
// player's dispatch loop. Callbacks belonging to a replaced session observe
// a stale epoch and become no-ops instead of corrupting the new session.
func (p *Player) dispatchForEpoch(epoch uint64) func(func()) {
	return func(fn func()) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.closed || p.epoch != epoch {
			return
		}
		fn()
	}
}

// forwardState merges each filtered update into the snapshot before handing
// it to the caller.
func (p *Player) forwardState(update state.Update) {
	p.snapMu.Lock()
	applySnapshot(&p.snapshot, update)
	p.snapMu.Unlock()

	if p.cb.OnState != nil {
		p.cb.OnState(update)
	}
}

func (p *Player) surfaceError(err *types.PlaybackError) {
	if p.cb.OnError != nil {
		p.cb.OnError(err)
	}
}

// resolutionError normalizes pre-session failures. No lifecycle transition
// applies because no session has started.
func (p *Player) resolutionError(err error) error {
	var perr *types.PlaybackError
	if pe, ok := err.(*types.PlaybackError); ok {
		perr = pe
	} else {
		perr = &types.PlaybackError{
			Code:        types.CodeStreamErrorTechnologyUnsupported,
			Severity:    types.SeverityFatal,
			Message:     err.Error(),
			SourceError: err,
		}
	}
	metrics.IncPlaybackError(string(perr.Code), string(perr.Severity))
	p.logger.Warn().
		Str("event", "player.resolution_failed").
		Str("error_code", string(perr.Code)).
		Msg(perr.Message)
	p.surfaceError(perr)
	return err
}

func timelineOptions(ecfg config.EngineConfig) timeline.Options {
	opts := timeline.Options{
		DriftInterval: ecfg.PauseInterval(),
	}
	if ecfg.LiveEdgeMargin != nil {
		opts.LiveEdgeMargin = *ecfg.LiveEdgeMargin
	}
	if ecfg.DriftCorrectionOffset != nil {
		opts.DriftOffset = *ecfg.DriftCorrectionOffset
	}
	return opts
}
