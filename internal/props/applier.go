// SPDX-License-Identifier: MIT

// Package props translates a batch of requested property changes into
// ordered calls against the playback controls, track managers and bitrate
// manager.
package props

import (
	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/types"
)

// Target is the control surface one engine adapter exposes to the applier.
type Target interface {
	SetPaused(paused bool)
	SetVolume(volume float64)
	SetMuted(muted bool)

	SeekTo(position float64)
	GotoLive()

	SelectTextTrack(sel *types.AvailableTrack) error
	SelectAudioTrack(sel *types.AvailableTrack) error

	CapBitrate(maxKbps float64)
	FixBitrate(lock types.BitrateLock)
}

// Apply applies a batch in a fixed order: pause/resume, volume, mute,
// position-or-live-jump, text track, audio track, bitrate constraints. The
// fixed order makes simultaneous requests deterministic; in particular a
// live jump wins over a position set only when explicitly requested.
func Apply(target Target, batch types.PlaybackProps, logger zerolog.Logger) {
	if batch.IsZero() {
		return
	}

	if batch.IsPaused != nil {
		target.SetPaused(*batch.IsPaused)
	}
	if batch.Volume != nil {
		target.SetVolume(*batch.Volume)
	}
	if batch.IsMuted != nil {
		target.SetMuted(*batch.IsMuted)
	}

	switch {
	case batch.IsAtLivePosition != nil && *batch.IsAtLivePosition:
		target.GotoLive()
	case batch.Position != nil:
		target.SeekTo(*batch.Position)
	}

	if batch.SelectedTextTrack != nil {
		if err := target.SelectTextTrack(batch.SelectedTextTrack.Track); err != nil {
			logger.Warn().Err(err).
				Str("event", "props.text_selection_failed").
				Msg("requested text track could not be selected")
		}
	}
	if batch.SelectedAudioTrack != nil {
		if err := target.SelectAudioTrack(batch.SelectedAudioTrack.Track); err != nil {
			logger.Warn().Err(err).
				Str("event", "props.audio_selection_failed").
				Msg("requested audio track could not be selected")
		}
	}

	if batch.LockedBitrate != nil {
		target.FixBitrate(*batch.LockedBitrate)
	}
	if batch.MaxBitrate != nil {
		target.CapBitrate(*batch.MaxBitrate)
	}
}
