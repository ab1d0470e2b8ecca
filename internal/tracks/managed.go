// SPDX-License-Identifier: MIT

// Package tracks reconciles side-loaded and in-stream text and audio tracks
// into a stable selectable-track list and reports the active selection
// through the filtered state updater.
package tracks

import (
	"fmt"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/types"
)

// managedTrack wraps one public track projection together with its native
// handle and bookkeeping. Owned exclusively by its manager; never exposed to
// callers.
//
// Retirement is a soft delete: a retired side-loaded track keeps its native
// attachment so an identical re-supplied list can be recognized and
// reactivated without flicker or duplicate native tracks.
type managedTrack struct {
	public  types.AvailableTrack
	source  *types.SideLoadedTrack
	native  engine.NativeTrack
	retired bool
	loaded  bool
}

func (m *managedTrack) sideLoaded() bool {
	return m.public.Origin == types.OriginSideLoaded
}

// matchesSource reports whether the managed track is the same logical track
// as a supplied side-loaded resource, by content identity. The caller passes
// the effective kind so a supplied empty kind compares equal to the stored
// default.
func (m *managedTrack) matchesSource(t types.SideLoadedTrack, kind string) bool {
	if !m.sideLoaded() {
		return false
	}
	return m.public.Language == normalizeLanguage(t.Language) &&
		m.public.Kind == kind &&
		m.public.Label == t.Label
}

// trackID builds a stable public ID from a concern prefix and a counter.
func trackID(concern string, n int) string {
	return fmt.Sprintf("%s-%d", concern, n)
}

// sameTrackList is the shallow-equality short circuit applied before
// emitting a recomputed track list.
func sameTrackList(a, b []types.AvailableTrack) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameCurrent(a, b *types.AvailableTrack) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
