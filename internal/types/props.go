// SPDX-License-Identifier: MIT
package types

// PlaybackProps is the settable subset of the stream state. All fields are
// optional; a nil field means "no change", never "reset to default". Batches
// are idempotent: applying the same batch twice yields the same state.
type PlaybackProps struct {
	IsPaused *bool
	Volume   *float64
	IsMuted  *bool

	// Position requests a seek to the given stream position in seconds
	// (relative to the start of the seekable window for live streams).
	Position *float64

	// IsAtLivePosition, when set true, requests a jump to the live edge.
	// When both Position and IsAtLivePosition are present in one batch the
	// live jump wins only if explicitly requested.
	IsAtLivePosition *bool

	SelectedTextTrack  *TrackSelection
	SelectedAudioTrack *TrackSelection

	// LockedBitrate pins the adaptive ladder; MaxBitrate caps it without
	// disabling automation. Values are kilobits per second.
	LockedBitrate *BitrateLock
	MaxBitrate    *float64
}

// IsZero reports whether the batch requests no changes at all.
func (p PlaybackProps) IsZero() bool {
	return p.IsPaused == nil && p.Volume == nil && p.IsMuted == nil &&
		p.Position == nil && p.IsAtLivePosition == nil &&
		p.SelectedTextTrack == nil && p.SelectedAudioTrack == nil &&
		p.LockedBitrate == nil && p.MaxBitrate == nil
}
