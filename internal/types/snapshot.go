// SPDX-License-Identifier: MIT
package types

// VideoStreamState is the full observable snapshot of one playback session.
// It is produced incrementally, key by key, through the filtered state
// updater; the merged form exists for callers that want a point-in-time view
// (for example the daemon's /state endpoint). Every key, once emitted,
// continues to reflect the most recent distinct value until session reset.
type VideoStreamState struct {
	PlayState PlayState `json:"playState"`
	PlayMode  PlayMode  `json:"playMode"`

	Position float64 `json:"position"`
	Duration float64 `json:"duration"`

	IsPaused    bool `json:"isPaused"`
	IsBuffering bool `json:"isBuffering"`
	IsSeeking   bool `json:"isSeeking"`

	Volume  float64 `json:"volume"`
	IsMuted bool    `json:"isMuted"`

	BufferedAhead float64 `json:"bufferedAhead"`

	// AbsolutePosition and AbsoluteStartPosition are wall-clock times in
	// Unix seconds. When the engine cannot report a stream start time they
	// are best-effort estimates from the local clock, not a contract.
	AbsolutePosition      float64 `json:"absolutePosition"`
	AbsoluteStartPosition float64 `json:"absoluteStartPosition"`

	IsAtLivePosition bool `json:"isAtLivePosition"`

	Bitrates       []Bitrate `json:"bitrates"`
	CurrentBitrate float64   `json:"currentBitrate"`
	BitrateCap     float64   `json:"bitrateCap"`
	BitrateFix     float64   `json:"bitrateFix"`

	TextTracks       []AvailableTrack `json:"textTracks"`
	CurrentTextTrack *AvailableTrack  `json:"currentTextTrack"`

	AudioTracks       []AvailableTrack `json:"audioTracks"`
	CurrentAudioTrack *AvailableTrack  `json:"currentAudioTrack"`

	Error *PlaybackError `json:"error,omitempty"`
}
