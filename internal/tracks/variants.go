// SPDX-License-Identifier: MIT
package tracks

import (
	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/state"
)

// Per-engine constructors. The reconciliation core is shared; variants
// differ in the default track kind their engine reports for unlabeled
// entries.

// NewBasicText builds the text manager for the plain media-element engine.
func NewBasicText(target engine.TextTrackTarget, updater *state.Updater, logger zerolog.Logger) *TextManager {
	return newTextManager(target, updater, logger, "subtitles")
}

// NewHLSText builds the text manager for the segmented-HLS engine.
func NewHLSText(target engine.TextTrackTarget, updater *state.Updater, logger zerolog.Logger) *TextManager {
	return newTextManager(target, updater, logger, "subtitles")
}

// NewDASHText builds the text manager for the MPEG-DASH engine, which
// reports caption renditions without a kind.
func NewDASHText(target engine.TextTrackTarget, updater *state.Updater, logger zerolog.Logger) *TextManager {
	return newTextManager(target, updater, logger, "captions")
}

// NewMSSText builds the text manager for the alternative adaptive engine.
func NewMSSText(target engine.TextTrackTarget, updater *state.Updater, logger zerolog.Logger) *TextManager {
	return newTextManager(target, updater, logger, "subtitles")
}

// NewAudio builds the audio manager; audio reconciliation is identical
// across engines.
func NewAudio(target engine.AudioTrackTarget, updater *state.Updater, logger zerolog.Logger) *AudioManager {
	return newAudioManager(target, updater, logger)
}
