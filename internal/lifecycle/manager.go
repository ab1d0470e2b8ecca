// SPDX-License-Identifier: MIT
package lifecycle

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/metrics"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

// PauseMonitor is the recurring background operation owned by a paused live
// session, typically the DVR drift corrector. The manager starts it when
// playback pauses during a live session and stops it on resume, seek start
// and session end.
type PauseMonitor interface {
	Start()
	Stop()
}

// Manager is the top-level playback finite state machine. It consumes
// normalized engine events and drives the filtered state updater. Native
// event arrival order is authoritative; events that contradict the expected
// phase order are dropped by stage-gating, never reordered.
type Manager struct {
	mu      sync.Mutex
	stage   Stage
	updater *state.Updater
	logger  zerolog.Logger

	monitor PauseMonitor
	isLive  func() bool
}

// New builds a lifecycle manager emitting through updater. monitor and
// isLive may be nil for engines without live support.
func New(updater *state.Updater, logger zerolog.Logger) *Manager {
	return &Manager{
		stage:   StageUnknown,
		updater: updater,
		logger:  logger,
	}
}

// BindLiveSupport attaches the pause monitor and the live signal. Called by
// the adapter once the calculator exists.
func (m *Manager) BindLiveSupport(monitor PauseMonitor, isLive func() bool) {
	m.mu.Lock()
	m.monitor = monitor
	m.isLive = isLive
	m.mu.Unlock()
}

// Stage returns the current lifecycle stage.
func (m *Manager) Stage() Stage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// StartSession re-enters StageNew regardless of the prior stage, clears the
// updater's memory and re-emits the manager-owned part of the initial
// snapshot. Track and bitrate lists are re-emitted by their managers.
func (m *Manager) StartSession(sessionID string) {
	m.mu.Lock()
	prior := m.stage
	m.stage = StageNew
	monitor := m.monitor
	m.mu.Unlock()

	if monitor != nil {
		monitor.Stop()
	}

	m.logger.Info().
		Str("event", "lifecycle.session_started").
		Str("session_id", sessionID).
		Str("old_stage", prior.String()).
		Msg("playback session started")
	metrics.IncStageTransition(StageNew.String())

	m.updater.Reset()
	m.updater.Update(state.Update{
		state.KeyPlayState:             types.PlayStateInactive,
		state.KeyPlayMode:              types.PlayModeOnDemand,
		state.KeyPosition:              float64(0),
		state.KeyDuration:              float64(0),
		state.KeyIsPaused:              false,
		state.KeyIsBuffering:           false,
		state.KeyIsSeeking:             false,
		state.KeyBufferedAhead:         float64(0),
		state.KeyIsAtLivePosition:      false,
		state.KeyAbsolutePosition:      float64(0),
		state.KeyAbsoluteStartPosition: float64(0),
		state.KeyError:                 (*types.PlaybackError)(nil),
	})
}

// NotifyLoading records that the engine began loading the source.
func (m *Manager) NotifyLoading() {
	if !m.transition(StageStarting) {
		return
	}
	m.updater.Update(state.Update{
		state.KeyPlayState: types.PlayStateStarting,
	})
}

// NotifyReady records that the engine confirmed readiness.
func (m *Manager) NotifyReady(paused bool) {
	if !m.transition(StageStarted) {
		return
	}
	playState := types.PlayStatePlaying
	if paused {
		playState = types.PlayStatePaused
	}
	m.updater.Update(state.Update{
		state.KeyPlayState: playState,
		state.KeyIsPaused:  paused,
	})
}

// NotifyEnded records stream completion.
func (m *Manager) NotifyEnded() {
	if !m.transition(StageEnded) {
		return
	}
	m.stopMonitor()
	m.updater.Update(state.Update{
		state.KeyPlayState:   types.PlayStateInactive,
		state.KeyIsBuffering: false,
		state.KeyIsSeeking:   false,
	})
}

// NotifyError surfaces a normalized error into the state. A FATAL severity
// forces StageDead and emits the terminal subset; volume and track data are
// deliberately left untouched. Non-fatal errors never change the stage.
func (m *Manager) NotifyError(err *types.PlaybackError) {
	if err == nil {
		return
	}
	metrics.IncPlaybackError(string(err.Code), string(err.Severity))

	if !err.IsFatal() {
		m.logger.Warn().
			Str("event", "lifecycle.recoverable_error").
			Str("error_code", string(err.Code)).
			Str("severity", string(err.Severity)).
			Msg(err.Message)
		m.updater.Update(state.Update{state.KeyError: err})
		return
	}

	if !m.transition(StageDead) {
		// Already terminal; still record the error for observability.
		m.updater.Update(state.Update{state.KeyError: err})
		return
	}

	m.stopMonitor()
	m.logger.Error().
		Str("event", "lifecycle.fatal_error").
		Str("error_code", string(err.Code)).
		Str("technology", string(err.Technology)).
		Msg(err.Message)

	m.updater.Update(state.Update{
		state.KeyPlayState:   types.PlayStateInactive,
		state.KeyIsBuffering: false,
		state.KeyIsSeeking:   false,
		state.KeyError:       err,
	})
}

// NotifyPlaying propagates a playback-progress signal. Gated to
// StageStarted so stale events never leak across session boundaries.
func (m *Manager) NotifyPlaying() {
	if !m.started() {
		return
	}
	m.stopMonitor()
	m.updater.Update(state.Update{
		state.KeyPlayState:   types.PlayStatePlaying,
		state.KeyIsPaused:    false,
		state.KeyIsBuffering: false,
	})
}

// NotifyPaused propagates a pause signal and, for live sessions, starts the
// paused-DVR monitor.
func (m *Manager) NotifyPaused() {
	if !m.started() {
		return
	}
	m.updater.Update(state.Update{
		state.KeyPlayState: types.PlayStatePaused,
		state.KeyIsPaused:  true,
	})

	m.mu.Lock()
	monitor := m.monitor
	live := m.isLive
	m.mu.Unlock()
	if monitor != nil && live != nil && live() {
		monitor.Start()
	}
}

// NotifyBuffering propagates a stall signal.
func (m *Manager) NotifyBuffering(active bool) {
	if !m.started() {
		return
	}
	if active {
		m.updater.Update(state.Update{
			state.KeyIsBuffering: true,
			state.KeyPlayState:   types.PlayStateBuffering,
		})
		return
	}
	m.updater.Update(state.Update{state.KeyIsBuffering: false})
}

// NotifySeeking propagates a seek start and stops the paused-DVR monitor.
func (m *Manager) NotifySeeking() {
	if !m.started() {
		return
	}
	m.stopMonitor()
	m.updater.Update(state.Update{
		state.KeyIsSeeking: true,
		state.KeyPlayState: types.PlayStateSeeking,
	})
}

// NotifySeeked propagates seek completion.
func (m *Manager) NotifySeeked() {
	if !m.started() {
		return
	}
	m.updater.Update(state.Update{state.KeyIsSeeking: false})
}

// Teardown stops any recurring operation; no timer outlives its session.
func (m *Manager) Teardown() {
	m.stopMonitor()
}

func (m *Manager) started() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage == StageStarted
}

func (m *Manager) stopMonitor() {
	m.mu.Lock()
	monitor := m.monitor
	m.mu.Unlock()
	if monitor != nil {
		monitor.Stop()
	}
}

// transition applies a stage-gated edge. Unknown edges are dropped, not
// errors: native event order is authoritative and stray events are ignored.
func (m *Manager) transition(to Stage) bool {
	m.mu.Lock()
	from := m.stage
	if !canTransition(from, to) {
		m.mu.Unlock()
		m.logger.Debug().
			Str("event", "lifecycle.transition_dropped").
			Str("old_stage", from.String()).
			Str("new_stage", to.String()).
			Msg("stage-gated event dropped")
		return false
	}
	m.stage = to
	m.mu.Unlock()

	metrics.IncStageTransition(to.String())
	m.logger.Info().
		Str("event", "lifecycle.transition").
		Str("old_stage", from.String()).
		Str("new_stage", to.String()).
		Msg("lifecycle stage changed")
	return true
}
