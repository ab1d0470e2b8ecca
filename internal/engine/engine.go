// SPDX-License-Identifier: MIT
package engine

import (
	"context"
	"time"

	"github.com/nordav/playcore/internal/types"
)

// NativeError is the raw error shape engines report. The error mapper
// translates it into the normalized taxonomy before it reaches callers.
type NativeError struct {
	// Code is the engine-specific error identifier, e.g. "fragLoadError"
	// for the HLS engine or "MEDIA_ERR_DECODE" for the basic engine.
	Code string

	Message string

	// Cause carries an underlying error when the engine provides one.
	Cause error
}

// Error implements the error interface.
func (e *NativeError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// Unwrap exposes the underlying cause.
func (e *NativeError) Unwrap() error {
	return e.Cause
}

// Level is one rung of the engine's adaptive ladder. Bandwidth is in bits
// per second, as engines natively report it.
type Level struct {
	Index     int
	Bandwidth int
	Width     int
	Height    int
}

// NativeTrack is the engine's handle for one text or audio track. Handle
// identity (pointer equality of the interface value) is the in-stream track
// identity used during reconciliation.
type NativeTrack interface {
	Kind() string
	Label() string
	Language() string

	// Selected reports whether the engine currently shows/plays this track.
	Selected() bool
}

// Descriptor is the load request handed to a native engine. DRM parameters
// are passed through opaquely.
type Descriptor struct {
	URL           string
	ContentType   string
	StartPosition float64
	DRM           *types.DRMDetails
}

// Timeline exposes the engine's playback position primitives.
type Timeline interface {
	// Position is the native playhead position in seconds.
	Position() float64

	// Duration is the native duration; +Inf signals an unbounded live
	// stream on engines without an explicit live flag.
	Duration() float64

	// SeekableRange is the engine's seekable/DVR window. ok is false when
	// the window is indeterminate.
	SeekableRange() (start, end float64, ok bool)

	// StreamStart is the wall-clock time of stream position zero, when the
	// engine can derive it (e.g. from program date time). ok is false when
	// unknown.
	StreamStart() (time.Time, bool)

	// BufferedAhead is the number of seconds buffered past the playhead.
	BufferedAhead() float64

	SetPosition(seconds float64)
}

// Transport exposes the engine's load/teardown surface.
type Transport interface {
	Load(ctx context.Context, d Descriptor) error

	// Release detaches the current media resource without loading another.
	Release()
}

// Playback exposes the engine's basic playback controls.
type Playback interface {
	Play()
	Pause()
	Paused() bool

	Volume() float64
	SetVolume(v float64)
	Muted() bool
	SetMuted(m bool)
}

// TextTrackTarget is the native text-track surface.
type TextTrackTarget interface {
	TextTracks() []NativeTrack

	// SelectTextTrack shows the given track; nil hides all text tracks.
	SelectTextTrack(t NativeTrack) error

	// AddSideLoadedTrack attaches a caller-supplied track resource and
	// returns its native handle. Loading completes asynchronously with an
	// EventTrackLoaded event.
	AddSideLoadedTrack(t types.SideLoadedTrack) (NativeTrack, error)

	// RemoveSideLoadedTrack detaches a previously added track.
	RemoveSideLoadedTrack(t NativeTrack)
}

// AudioTrackTarget is the native audio-track surface.
type AudioTrackTarget interface {
	AudioTracks() []NativeTrack
	SelectAudioTrack(t NativeTrack) error
}

// AdaptiveBitrate is the native ladder-control surface. Engines without an
// adaptive ladder return an empty level list.
type AdaptiveBitrate interface {
	Levels() []Level

	// CurrentLevel returns the active ladder index, or -1 when unknown.
	CurrentLevel() int

	// SetLevelCap bounds automatic selection to the given index without
	// disabling automation; -1 removes the bound.
	SetLevelCap(index int)

	// SetFixedLevel disables automatic selection and pins the given index;
	// -1 re-enables automatic selection.
	SetFixedLevel(index int)
}

// Engine is the complete surface the normalization layer drives. Every
// backend variant satisfies it; variant-specific extensions below refine the
// live-detection signal.
type Engine interface {
	EventSource
	Timeline
	Transport
	Playback
	TextTrackTarget
	AudioTrackTarget
	AdaptiveBitrate
}

// LiveReporter is implemented by engines with an explicit live flag (DASH,
// MSS, HLS playlist type). Engines without it signal live through an
// unbounded duration.
type LiveReporter interface {
	IsLive() bool
}
