// SPDX-License-Identifier: MIT
package lifecycle

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

type fakeMonitor struct {
	starts int
	stops  int
}

func (f *fakeMonitor) Start() { f.starts++ }

func (f *fakeMonitor) Stop() { f.stops++ }

func newManagerFixture(t *testing.T) (*Manager, *[]state.Update) {
	t.Helper()
	var got []state.Update
	updater := state.NewUpdater(func(u state.Update) { got = append(got, u) })
	return New(updater, zerolog.Nop()), &got
}

func startSession(m *Manager) {
	m.StartSession("session-1")
	m.NotifyLoading()
	m.NotifyReady(false)
}

func lastValue(got *[]state.Update, key state.Key) (any, bool) {
	for i := len(*got) - 1; i >= 0; i-- {
		if v, ok := (*got)[i][key]; ok {
			return v, true
		}
	}
	return nil, false
}

func TestHappyPathStages(t *testing.T) {
	m, got := newManagerFixture(t)

	assert.Equal(t, StageUnknown, m.Stage())

	m.StartSession("session-1")
	assert.Equal(t, StageNew, m.Stage())

	m.NotifyLoading()
	assert.Equal(t, StageStarting, m.Stage())
	v, _ := lastValue(got, state.KeyPlayState)
	assert.Equal(t, types.PlayStateStarting, v)

	m.NotifyReady(false)
	assert.Equal(t, StageStarted, m.Stage())
	v, _ = lastValue(got, state.KeyPlayState)
	assert.Equal(t, types.PlayStatePlaying, v)

	m.NotifyEnded()
	assert.Equal(t, StageEnded, m.Stage())
	v, _ = lastValue(got, state.KeyPlayState)
	assert.Equal(t, types.PlayStateInactive, v)
}

func TestReadyPausedEntersPausedState(t *testing.T) {
	m, got := newManagerFixture(t)
	m.StartSession("session-1")
	m.NotifyLoading()
	m.NotifyReady(true)

	v, _ := lastValue(got, state.KeyPlayState)
	assert.Equal(t, types.PlayStatePaused, v)
	p, _ := lastValue(got, state.KeyIsPaused)
	assert.Equal(t, true, p)
}

func TestInitialSnapshotEmitted(t *testing.T) {
	m, got := newManagerFixture(t)
	m.StartSession("session-1")

	require.NotEmpty(t, *got)
	initial := (*got)[0]
	assert.Equal(t, types.PlayStateInactive, initial[state.KeyPlayState])
	assert.Equal(t, types.PlayModeOnDemand, initial[state.KeyPlayMode])
	assert.Equal(t, float64(0), initial[state.KeyPosition])
	assert.Contains(t, initial, state.KeyError)
}

func TestRestartReemitsInitialSnapshot(t *testing.T) {
	m, got := newManagerFixture(t)
	startSession(m)

	before := len(*got)
	m.StartSession("session-2")
	require.Greater(t, len(*got), before, "updater reset must re-forward the initial snapshot")
	assert.Equal(t, StageNew, m.Stage())

	// The full lifecycle works again after the restart.
	m.NotifyLoading()
	m.NotifyReady(false)
	assert.Equal(t, StageStarted, m.Stage())
}

func TestSubStateEventsGatedUntilStarted(t *testing.T) {
	m, got := newManagerFixture(t)
	m.StartSession("session-1")
	before := len(*got)

	// None of these may leak through before the engine confirmed readiness.
	m.NotifyPlaying()
	m.NotifyPaused()
	m.NotifyBuffering(true)
	m.NotifySeeking()
	m.NotifySeeked()
	assert.Len(t, *got, before)
}

func TestOutOfOrderTransitionsDropped(t *testing.T) {
	m, _ := newManagerFixture(t)
	m.StartSession("session-1")

	// Ready without loading first is not a valid edge.
	m.NotifyReady(false)
	assert.Equal(t, StageNew, m.Stage())

	m.NotifyEnded()
	assert.Equal(t, StageNew, m.Stage())
}

func TestFatalErrorEntersDeadWithTerminalSubset(t *testing.T) {
	m, got := newManagerFixture(t)
	startSession(m)
	m.NotifyBuffering(true)

	fatal := &types.PlaybackError{
		Code:     types.CodeStreamErrorDownload,
		Severity: types.SeverityFatal,
		Message:  "segment fetch failed",
	}
	m.NotifyError(fatal)

	assert.Equal(t, StageDead, m.Stage())
	playState, _ := lastValue(got, state.KeyPlayState)
	assert.Equal(t, types.PlayStateInactive, playState)
	buffering, _ := lastValue(got, state.KeyIsBuffering)
	assert.Equal(t, false, buffering)
	seeking, _ := lastValue(got, state.KeyIsSeeking)
	assert.Equal(t, false, seeking)
	errVal, _ := lastValue(got, state.KeyError)
	assert.Equal(t, fatal, errVal)

	// Dead is terminal for playback events.
	m.NotifyPlaying()
	assert.Equal(t, StageDead, m.Stage())
}

func TestWarningKeepsStageAndPlayState(t *testing.T) {
	m, got := newManagerFixture(t)
	startSession(m)
	m.NotifyPlaying()

	warning := &types.PlaybackError{
		Code:     types.CodeStreamErrorDownload,
		Severity: types.SeverityWarning,
		Message:  "subtitle fragment failed",
	}
	m.NotifyError(warning)

	assert.Equal(t, StageStarted, m.Stage())
	last := (*got)[len(*got)-1]
	assert.Equal(t, warning, last[state.KeyError])
	assert.NotContains(t, last, state.KeyPlayState, "warnings must not disturb the play state")
}

func TestRestartAfterFatalError(t *testing.T) {
	m, _ := newManagerFixture(t)
	startSession(m)
	m.NotifyError(&types.PlaybackError{Severity: types.SeverityFatal, Code: types.CodeStreamError})
	require.Equal(t, StageDead, m.Stage())

	m.StartSession("session-2")
	assert.Equal(t, StageNew, m.Stage())
}

func TestPausedLiveSessionStartsMonitor(t *testing.T) {
	m, _ := newManagerFixture(t)
	mon := &fakeMonitor{}
	live := true
	m.BindLiveSupport(mon, func() bool { return live })
	startSession(m)

	m.NotifyPaused()
	assert.Equal(t, 1, mon.starts)

	m.NotifyPlaying()
	assert.GreaterOrEqual(t, mon.stops, 1, "resume stops the monitor")

	// On-demand pause never starts it.
	live = false
	m.NotifyPaused()
	assert.Equal(t, 1, mon.starts)
}

func TestSeekingStopsMonitor(t *testing.T) {
	m, _ := newManagerFixture(t)
	mon := &fakeMonitor{}
	m.BindLiveSupport(mon, func() bool { return true })
	startSession(m)

	m.NotifyPaused()
	require.Equal(t, 1, mon.starts)

	stopsBefore := mon.stops
	m.NotifySeeking()
	assert.Greater(t, mon.stops, stopsBefore)
}

func TestTeardownStopsMonitor(t *testing.T) {
	m, _ := newManagerFixture(t)
	mon := &fakeMonitor{}
	m.BindLiveSupport(mon, func() bool { return true })
	startSession(m)
	m.NotifyPaused()

	stopsBefore := mon.stops
	m.Teardown()
	assert.Greater(t, mon.stops, stopsBefore)
}

func TestBufferingTransitions(t *testing.T) {
	m, got := newManagerFixture(t)
	startSession(m)

	m.NotifyBuffering(true)
	v, _ := lastValue(got, state.KeyPlayState)
	assert.Equal(t, types.PlayStateBuffering, v)

	m.NotifyBuffering(false)
	b, _ := lastValue(got, state.KeyIsBuffering)
	assert.Equal(t, false, b)
}
