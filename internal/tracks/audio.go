// SPDX-License-Identifier: MIT
package tracks

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/metrics"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

// AudioManager reconciles in-stream audio tracks for one engine. Audio
// tracks are never side-loaded; discovery happens exclusively through native
// add/remove signals.
type AudioManager struct {
	target  engine.AudioTrackTarget
	updater *state.Updater
	logger  zerolog.Logger

	tracked []*managedTrack
	nextID  int

	lastTracks  []types.AvailableTrack
	lastCurrent *types.AvailableTrack
	emitted     bool
}

func newAudioManager(target engine.AudioTrackTarget, updater *state.Updater, logger zerolog.Logger) *AudioManager {
	return &AudioManager{
		target:  target,
		updater: updater,
		logger:  logger,
	}
}

// HandleNativeTracksChanged diffs the engine's audio track list against the
// managed set by native-handle identity.
func (m *AudioManager) HandleNativeTracksChanged() {
	natives := m.target.AudioTracks()

	matched := make(map[engine.NativeTrack]bool, len(natives))
	for _, native := range natives {
		if existing := m.findByHandle(native); existing != nil {
			matched[native] = true
			continue
		}
		m.nextID++
		m.tracked = append(m.tracked, &managedTrack{
			public: types.AvailableTrack{
				ID:       trackID("audio", m.nextID),
				Kind:     native.Kind(),
				Label:    native.Label(),
				Language: normalizeLanguage(native.Language()),
				Origin:   types.OriginInStream,
			},
			native: native,
			loaded: true,
		})
		matched[native] = true
	}

	kept := m.tracked[:0]
	for _, t := range m.tracked {
		if matched[t.native] {
			kept = append(kept, t)
		}
	}
	m.tracked = kept

	m.refreshAndEmit()
}

// Select resolves the public projection to its native handle and activates
// it. Audio cannot be deselected; a nil selection is ignored.
func (m *AudioManager) Select(sel *types.AvailableTrack) error {
	if sel == nil {
		return nil
	}
	t := m.resolve(*sel)
	if t == nil {
		return fmt.Errorf("audio track %q not available", sel.ID)
	}
	if err := m.target.SelectAudioTrack(t.native); err != nil {
		return fmt.Errorf("select audio track %q: %w", t.public.ID, err)
	}
	m.refreshAndEmit()
	return nil
}

// Current returns the managed track the engine reports active.
func (m *AudioManager) Current() *types.AvailableTrack {
	for _, t := range m.tracked {
		if t.native != nil && t.native.Selected() {
			public := t.public
			return &public
		}
	}
	return nil
}

// Tracks returns the selectable projections in stable order.
func (m *AudioManager) Tracks() []types.AvailableTrack {
	out := make([]types.AvailableTrack, 0, len(m.tracked))
	for _, t := range m.tracked {
		out = append(out, t.public)
	}
	return out
}

// Reset drops all managed state at a session boundary.
func (m *AudioManager) Reset() {
	m.tracked = nil
	m.nextID = 0
	m.lastTracks = nil
	m.lastCurrent = nil
	m.emitted = false
}

// EmitInitial pushes the empty list at session start.
func (m *AudioManager) EmitInitial() {
	m.updater.Update(state.Update{
		state.KeyAudioTracks:       []types.AvailableTrack{},
		state.KeyCurrentAudioTrack: (*types.AvailableTrack)(nil),
	})
	m.lastTracks = []types.AvailableTrack{}
	m.lastCurrent = nil
	m.emitted = true
}

func (m *AudioManager) refreshAndEmit() {
	metrics.IncTrackReconciliation("audio")

	tracksNow := m.Tracks()
	current := m.Current()

	if m.emitted && sameTrackList(tracksNow, m.lastTracks) && sameCurrent(current, m.lastCurrent) {
		return
	}
	m.lastTracks = tracksNow
	m.lastCurrent = current
	m.emitted = true

	m.updater.Update(state.Update{
		state.KeyAudioTracks:       tracksNow,
		state.KeyCurrentAudioTrack: current,
	})
}

func (m *AudioManager) findByHandle(native engine.NativeTrack) *managedTrack {
	for _, t := range m.tracked {
		if t.native == native {
			return t
		}
	}
	return nil
}

func (m *AudioManager) resolve(sel types.AvailableTrack) *managedTrack {
	for _, t := range m.tracked {
		if t.public.ID == sel.ID {
			return t
		}
	}
	return nil
}
