// SPDX-License-Identifier: MIT
package types

import (
	"encoding/json"
	"fmt"
)

// PlayState represents the observable playback phase of a stream.
type PlayState string

// Play state constants define all observable playback phases.
const (
	// PlayStateInactive indicates no stream is playing or loading.
	PlayStateInactive PlayState = "inactive"

	// PlayStateStarting indicates the engine is loading the stream.
	PlayStateStarting PlayState = "starting"

	// PlayStatePlaying indicates playback is progressing.
	PlayStatePlaying PlayState = "playing"

	// PlayStatePaused indicates playback is paused.
	PlayStatePaused PlayState = "paused"

	// PlayStateSeeking indicates a seek operation is in flight.
	PlayStateSeeking PlayState = "seeking"

	// PlayStateBuffering indicates playback stalled waiting for data.
	PlayStateBuffering PlayState = "buffering"
)

// String implements fmt.Stringer.
func (s PlayState) String() string {
	return string(s)
}

// IsValid checks whether the play state is valid.
func (s PlayState) IsValid() bool {
	switch s {
	case PlayStateInactive, PlayStateStarting, PlayStatePlaying,
		PlayStatePaused, PlayStateSeeking, PlayStateBuffering:
		return true
	default:
		return false
	}
}

// MarshalJSON implements json.Marshaler.
func (s PlayState) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *PlayState) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	state := PlayState(str)
	if !state.IsValid() {
		return fmt.Errorf("invalid play state: %q", str)
	}

	*s = state
	return nil
}

// PlayMode classifies the stream category derived from the engine's
// seekable window.
type PlayMode string

const (
	// PlayModeOnDemand is a bounded, fully seekable stream.
	PlayModeOnDemand PlayMode = "ondemand"

	// PlayModeLive is a live stream without a usable DVR window.
	PlayModeLive PlayMode = "live"

	// PlayModeLiveDVR is a live stream with a seekable DVR window.
	PlayModeLiveDVR PlayMode = "livedvr"
)

// String implements fmt.Stringer.
func (m PlayMode) String() string {
	return string(m)
}

// IsValid checks whether the play mode is valid.
func (m PlayMode) IsValid() bool {
	switch m {
	case PlayModeOnDemand, PlayModeLive, PlayModeLiveDVR:
		return true
	default:
		return false
	}
}

// IsLive reports whether the mode describes a live stream.
func (m PlayMode) IsLive() bool {
	return m == PlayModeLive || m == PlayModeLiveDVR
}
