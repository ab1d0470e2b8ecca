// SPDX-License-Identifier: MIT

// Package engine defines the contracts every native playback backend must
// satisfy: playback primitives, native track and level objects, and the
// event registration surface. The engines themselves are black boxes; the
// normalization layer only ever talks to these interfaces.
package engine

// EventType names one normalized native engine event.
type EventType string

const (
	// EventLoadStart fires when the engine begins loading a source.
	EventLoadStart EventType = "loadstart"

	// EventReady fires when the engine has enough data to begin playback.
	EventReady EventType = "ready"

	// EventPlaying fires when playback progresses after start, resume or
	// recovery from a stall.
	EventPlaying EventType = "playing"

	// EventPause fires when playback pauses.
	EventPause EventType = "pause"

	// EventWaiting fires when playback stalls waiting for data.
	EventWaiting EventType = "waiting"

	// EventSeeking and EventSeeked bracket a seek operation.
	EventSeeking EventType = "seeking"
	EventSeeked  EventType = "seeked"

	// EventTimeUpdate fires periodically while the playback position moves.
	EventTimeUpdate EventType = "timeupdate"

	// EventVolumeChange fires when volume or mute state changes.
	EventVolumeChange EventType = "volumechange"

	// EventEnded fires when the stream completes.
	EventEnded EventType = "ended"

	// EventError carries a native error object.
	EventError EventType = "error"

	// EventTracksChanged fires when the engine's in-stream text or audio
	// track list changes, including add and remove signals.
	EventTracksChanged EventType = "trackschanged"

	// EventTrackLoaded fires when an attached side-loaded track finished
	// loading. Payload carries the native track handle.
	EventTrackLoaded EventType = "trackloaded"

	// EventBitrateChanged fires when the engine switches ladder rung.
	EventBitrateChanged EventType = "bitratechanged"
)

// Event is one normalized native engine event with its payload.
type Event struct {
	Type EventType

	// Err is set for EventError.
	Err *NativeError

	// Track is set for EventTrackLoaded.
	Track NativeTrack
}

// Handler consumes one event. Handlers run on the session's dispatch loop;
// they must not block.
type Handler func(Event)

// HandlerMap is a set of event handlers registered and unregistered as one
// unit at session start and teardown.
type HandlerMap map[EventType]Handler

// EventSource is the registration surface of a native engine. Attach and
// Detach are symmetric: detaching the map passed to Attach removes exactly
// those handlers.
type EventSource interface {
	Attach(HandlerMap)
	Detach(HandlerMap)
}
