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

// TextManager reconciles side-loaded and in-stream text tracks for one
// engine. All methods run on the session's dispatch loop; the manager is the
// exclusive owner of its managed-track list.
type TextManager struct {
	target  engine.TextTrackTarget
	updater *state.Updater
	logger  zerolog.Logger

	// defaultKind fills in the track kind when the caller or engine leaves
	// it empty; engines disagree on the default.
	defaultKind string

	tracked []*managedTrack
	nextID  int

	lastTracks  []types.AvailableTrack
	lastCurrent *types.AvailableTrack
	emitted     bool
}

func newTextManager(target engine.TextTrackTarget, updater *state.Updater, logger zerolog.Logger, defaultKind string) *TextManager {
	return &TextManager{
		target:      target,
		updater:     updater,
		logger:      logger,
		defaultKind: defaultKind,
	}
}

// SetSideLoaded replaces the caller-supplied track list. Previously
// side-loaded entries missing from the new list are retired rather than
// deleted, so that an identical re-supplied list reactivates the same
// managed tracks, with their selection intact, without duplicating native
// entries. Deselection happens only for tracks that stay retired after the
// matching pass.
func (m *TextManager) SetSideLoaded(supplied []types.SideLoadedTrack) error {
	for _, t := range m.tracked {
		if t.sideLoaded() {
			t.retired = true
		}
	}

	for _, src := range supplied {
		src := src
		kind := src.Kind
		if kind == "" {
			kind = m.defaultKind
		}
		if existing := m.findBySource(src, kind); existing != nil {
			// Same logical track re-supplied: refresh in place and lift
			// the retirement. Its native selection is left untouched.
			existing.source = &src
			existing.retired = false
			continue
		}

		native, err := m.target.AddSideLoadedTrack(src)
		if err != nil {
			return fmt.Errorf("add side-loaded track %q: %w", src.Label, err)
		}
		m.nextID++
		m.tracked = append(m.tracked, &managedTrack{
			public: types.AvailableTrack{
				ID:       trackID("text", m.nextID),
				Kind:     kind,
				Label:    src.Label,
				Language: normalizeLanguage(src.Language),
				Origin:   types.OriginSideLoaded,
			},
			source: &src,
			native: native,
		})
	}

	for _, t := range m.tracked {
		if !t.retired || t.native == nil || !t.native.Selected() {
			continue
		}
		if err := m.target.SelectTextTrack(nil); err != nil {
			m.logger.Warn().Err(err).
				Str("event", "tracks.deselect_failed").
				Str("track_id", t.public.ID).
				Msg("could not deselect retiring side-loaded track")
		}
	}

	m.refreshAndEmit()
	return nil
}

// HandleNativeTracksChanged diffs the engine's current track list against
// the managed set by native-handle identity. Unmatched native entries become
// new managed tracks; unmatched managed in-stream entries are dropped.
func (m *TextManager) HandleNativeTracksChanged() {
	natives := m.target.TextTracks()

	matched := make(map[engine.NativeTrack]bool, len(natives))
	for _, native := range natives {
		if existing := m.findByHandle(native); existing != nil {
			matched[native] = true
			continue
		}
		m.nextID++
		kind := native.Kind()
		if kind == "" {
			kind = m.defaultKind
		}
		m.tracked = append(m.tracked, &managedTrack{
			public: types.AvailableTrack{
				ID:       trackID("text", m.nextID),
				Kind:     kind,
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
		if t.sideLoaded() || matched[t.native] {
			kept = append(kept, t)
		}
	}
	m.tracked = kept

	m.refreshAndEmit()
}

// HandleTrackLoaded marks an asynchronously attached side-loaded track as
// ready.
func (m *TextManager) HandleTrackLoaded(native engine.NativeTrack) {
	t := m.findByHandle(native)
	if t == nil {
		return
	}
	t.loaded = true
	m.refreshAndEmit()
}

// Select resolves the public projection to its native handle and shows it.
// A nil selection hides all text tracks.
func (m *TextManager) Select(sel *types.AvailableTrack) error {
	if sel == nil {
		if err := m.target.SelectTextTrack(nil); err != nil {
			return fmt.Errorf("deselect text track: %w", err)
		}
		m.refreshAndEmit()
		return nil
	}

	t := m.resolve(*sel)
	if t == nil {
		return fmt.Errorf("text track %q not available", sel.ID)
	}
	if err := m.target.SelectTextTrack(t.native); err != nil {
		return fmt.Errorf("select text track %q: %w", t.public.ID, err)
	}
	m.refreshAndEmit()
	return nil
}

// Current returns the managed, non-retired track the engine reports active.
func (m *TextManager) Current() *types.AvailableTrack {
	for _, t := range m.tracked {
		if t.retired || t.native == nil {
			continue
		}
		if t.native.Selected() {
			public := t.public
			return &public
		}
	}
	return nil
}

// Tracks returns the selectable projections in stable order.
func (m *TextManager) Tracks() []types.AvailableTrack {
	out := make([]types.AvailableTrack, 0, len(m.tracked))
	for _, t := range m.tracked {
		if t.retired {
			continue
		}
		out = append(out, t.public)
	}
	return out
}

// Reset drops all managed state at a session boundary.
func (m *TextManager) Reset() {
	m.tracked = nil
	m.nextID = 0
	m.lastTracks = nil
	m.lastCurrent = nil
	m.emitted = false
}

// EmitInitial pushes the empty list at session start so callers observe the
// documented initial snapshot.
func (m *TextManager) EmitInitial() {
	m.updater.Update(state.Update{
		state.KeyTextTracks:       []types.AvailableTrack{},
		state.KeyCurrentTextTrack: (*types.AvailableTrack)(nil),
	})
	m.lastTracks = []types.AvailableTrack{}
	m.lastCurrent = nil
	m.emitted = true
}

// refreshAndEmit recomputes {tracks, currentTrack} and emits them as one
// state update, short-circuiting when nothing observably changed.
func (m *TextManager) refreshAndEmit() {
	metrics.IncTrackReconciliation("text")

	tracksNow := m.Tracks()
	current := m.Current()

	if m.emitted && sameTrackList(tracksNow, m.lastTracks) && sameCurrent(current, m.lastCurrent) {
		return
	}
	m.lastTracks = tracksNow
	m.lastCurrent = current
	m.emitted = true

	m.updater.Update(state.Update{
		state.KeyTextTracks:       tracksNow,
		state.KeyCurrentTextTrack: current,
	})
}

// findBySource matches by logical identity using the effective kind, with
// the default already substituted for an empty supplied kind.
func (m *TextManager) findBySource(src types.SideLoadedTrack, kind string) *managedTrack {
	for _, t := range m.tracked {
		if t.matchesSource(src, kind) {
			return t
		}
	}
	return nil
}

func (m *TextManager) findByHandle(native engine.NativeTrack) *managedTrack {
	for _, t := range m.tracked {
		if t.native == native {
			return t
		}
	}
	return nil
}

// resolve maps a public projection back to a managed entry, by ID first,
// then by content identity for side-loaded tracks.
func (m *TextManager) resolve(sel types.AvailableTrack) *managedTrack {
	for _, t := range m.tracked {
		if !t.retired && t.public.ID == sel.ID {
			return t
		}
	}
	for _, t := range m.tracked {
		if !t.retired && t.sideLoaded() && t.public.SameLogicalTrack(sel) {
			return t
		}
	}
	return nil
}
