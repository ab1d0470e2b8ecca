// SPDX-License-Identifier: MIT
package player

import (
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

// applySnapshot merges one filtered update into the point-in-time view.
// Values arrive with the types the emitting components use; a key carrying
// an unexpected type is skipped rather than clobbering the snapshot.
func applySnapshot(s *types.VideoStreamState, update state.Update) {
	for key, value := range update {
		switch key {
		case state.KeyPlayState:
			if v, ok := value.(types.PlayState); ok {
				s.PlayState = v
			}
		case state.KeyPlayMode:
			if v, ok := value.(types.PlayMode); ok {
				s.PlayMode = v
			}
		case state.KeyPosition:
			if v, ok := asFloat(value); ok {
				s.Position = v
			}
		case state.KeyDuration:
			if v, ok := asFloat(value); ok {
				s.Duration = v
			}
		case state.KeyIsPaused:
			if v, ok := value.(bool); ok {
				s.IsPaused = v
			}
		case state.KeyIsBuffering:
			if v, ok := value.(bool); ok {
				s.IsBuffering = v
			}
		case state.KeyIsSeeking:
			if v, ok := value.(bool); ok {
				s.IsSeeking = v
			}
		case state.KeyVolume:
			if v, ok := asFloat(value); ok {
				s.Volume = v
			}
		case state.KeyIsMuted:
			if v, ok := value.(bool); ok {
				s.IsMuted = v
			}
		case state.KeyBufferedAhead:
			if v, ok := asFloat(value); ok {
				s.BufferedAhead = v
			}
		case state.KeyAbsolutePosition:
			if v, ok := asFloat(value); ok {
				s.AbsolutePosition = v
			}
		case state.KeyAbsoluteStartPosition:
			if v, ok := asFloat(value); ok {
				s.AbsoluteStartPosition = v
			}
		case state.KeyIsAtLivePosition:
			if v, ok := value.(bool); ok {
				s.IsAtLivePosition = v
			}
		case state.KeyBitrates:
			if v, ok := value.([]types.Bitrate); ok {
				s.Bitrates = v
			}
		case state.KeyCurrentBitrate:
			if v, ok := asFloat(value); ok {
				s.CurrentBitrate = v
			}
		case state.KeyBitrateCap:
			if v, ok := asFloat(value); ok {
				s.BitrateCap = v
			}
		case state.KeyBitrateFix:
			if v, ok := asFloat(value); ok {
				s.BitrateFix = v
			}
		case state.KeyTextTracks:
			if v, ok := value.([]types.AvailableTrack); ok {
				s.TextTracks = v
			}
		case state.KeyCurrentTextTrack:
			v, _ := value.(*types.AvailableTrack)
			s.CurrentTextTrack = v
		case state.KeyAudioTracks:
			if v, ok := value.([]types.AvailableTrack); ok {
				s.AudioTracks = v
			}
		case state.KeyCurrentAudioTrack:
			v, _ := value.(*types.AvailableTrack)
			s.CurrentAudioTrack = v
		case state.KeyError:
			v, _ := value.(*types.PlaybackError)
			s.Error = v
		}
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
