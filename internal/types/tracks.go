// SPDX-License-Identifier: MIT
package types

// TrackOrigin distinguishes caller-supplied tracks from tracks embedded in
// the stream.
type TrackOrigin string

const (
	// OriginSideLoaded marks a track supplied explicitly by the caller.
	OriginSideLoaded TrackOrigin = "side-loaded"

	// OriginInStream marks a track discovered inside the stream.
	OriginInStream TrackOrigin = "in-stream"
)

// AvailableTrack is the public projection of one selectable text or audio
// track. IDs are stable across reconciliation passes for the same logical
// track: two side-loaded tracks are the same logical track when language,
// kind and label all match; two in-stream tracks are the same when the
// engine reports the identical native handle.
type AvailableTrack struct {
	ID       string      `json:"id"`
	Kind     string      `json:"kind,omitempty"`
	Label    string      `json:"label,omitempty"`
	Language string      `json:"language,omitempty"`
	Origin   TrackOrigin `json:"origin"`
}

// SameLogicalTrack reports whether two side-loaded projections describe the
// same logical track, by content identity rather than reference.
func (t AvailableTrack) SameLogicalTrack(other AvailableTrack) bool {
	return t.Language == other.Language &&
		t.Kind == other.Kind &&
		t.Label == other.Label
}

// TrackSelection carries a requested track selection. A nil Track means
// "deselect"; the selection being absent from a PlaybackProps batch means
// "no change".
type TrackSelection struct {
	Track *AvailableTrack
}

// Bitrate describes one rung of the adaptive ladder, in kilobits per second.
type Bitrate struct {
	Kbps int `json:"kbps"`
}

// BitratePreset is a sentinel for fixing the bitrate to a ladder extreme.
type BitratePreset string

const (
	BitrateMin BitratePreset = "min"
	BitrateMax BitratePreset = "max"
)

// BitrateLock requests pinning the adaptive ladder. Either Preset is set, or
// Kbps carries the requested value. A non-finite or absent value re-enables
// automatic selection.
type BitrateLock struct {
	Kbps   float64
	Preset BitratePreset
}
