// SPDX-License-Identifier: MIT

// Package state implements the change-filtered state-notification mechanism.
// Components push partial updates through an Updater; the caller-supplied
// sink only ever sees keys whose value actually changed.
package state

// Key names one field of the observable video stream state.
type Key string

const (
	KeyPlayState Key = "playState"
	KeyPlayMode  Key = "playMode"

	KeyPosition Key = "position"
	KeyDuration Key = "duration"

	KeyIsPaused    Key = "isPaused"
	KeyIsBuffering Key = "isBuffering"
	KeyIsSeeking   Key = "isSeeking"

	KeyVolume  Key = "volume"
	KeyIsMuted Key = "isMuted"

	KeyBufferedAhead Key = "bufferedAhead"

	KeyAbsolutePosition      Key = "absolutePosition"
	KeyAbsoluteStartPosition Key = "absoluteStartPosition"
	KeyIsAtLivePosition      Key = "isAtLivePosition"

	KeyBitrates       Key = "bitrates"
	KeyCurrentBitrate Key = "currentBitrate"
	KeyBitrateCap     Key = "bitrateCap"
	KeyBitrateFix     Key = "bitrateFix"

	KeyTextTracks       Key = "textTracks"
	KeyCurrentTextTrack Key = "currentTextTrack"

	KeyAudioTracks       Key = "audioTracks"
	KeyCurrentAudioTrack Key = "currentAudioTrack"

	KeyError Key = "error"
)

// Update is one partial state notification. Keys absent from the map are
// unchanged; there is no defined ordering between keys of one update.
type Update map[Key]any

// Sink receives filtered updates. It is invoked synchronously on the
// session's dispatch loop, in the order components requested emissions.
type Sink func(Update)
