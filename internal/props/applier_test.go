// SPDX-License-Identifier: MIT
package props

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/nordav/playcore/internal/types"
)

// recordingTarget records the order of control calls.
type recordingTarget struct {
	calls     []string
	selectErr error
}

func (r *recordingTarget) SetPaused(paused bool) {
	if paused {
		r.calls = append(r.calls, "pause")
		return
	}
	r.calls = append(r.calls, "play")
}

func (r *recordingTarget) SetVolume(float64) { r.calls = append(r.calls, "volume") }

func (r *recordingTarget) SetMuted(bool) { r.calls = append(r.calls, "mute") }

func (r *recordingTarget) SeekTo(float64) { r.calls = append(r.calls, "seek") }

func (r *recordingTarget) GotoLive() { r.calls = append(r.calls, "gotolive") }

func (r *recordingTarget) SelectTextTrack(*types.AvailableTrack) error {
	r.calls = append(r.calls, "text")
	return r.selectErr
}

func (r *recordingTarget) SelectAudioTrack(*types.AvailableTrack) error {
	r.calls = append(r.calls, "audio")
	return r.selectErr
}

func (r *recordingTarget) CapBitrate(float64) { r.calls = append(r.calls, "cap") }

func (r *recordingTarget) FixBitrate(types.BitrateLock) { r.calls = append(r.calls, "fix") }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func TestApplyFixedOrder(t *testing.T) {
	target := &recordingTarget{}

	Apply(target, types.PlaybackProps{
		IsPaused:           boolPtr(false),
		Volume:             floatPtr(0.5),
		IsMuted:            boolPtr(true),
		Position:           floatPtr(30),
		SelectedTextTrack:  &types.TrackSelection{},
		SelectedAudioTrack: &types.TrackSelection{},
		LockedBitrate:      &types.BitrateLock{Kbps: 2000},
		MaxBitrate:         floatPtr(5000),
	}, zerolog.Nop())

	assert.Equal(t, []string{"play", "volume", "mute", "seek", "text", "audio", "fix", "cap"}, target.calls)
}

func TestApplyEmptyBatchIsNoOp(t *testing.T) {
	target := &recordingTarget{}
	Apply(target, types.PlaybackProps{}, zerolog.Nop())
	assert.Empty(t, target.calls)
}

func TestExplicitLiveJumpWinsOverPosition(t *testing.T) {
	target := &recordingTarget{}
	Apply(target, types.PlaybackProps{
		Position:         floatPtr(30),
		IsAtLivePosition: boolPtr(true),
	}, zerolog.Nop())
	assert.Equal(t, []string{"gotolive"}, target.calls)
}

func TestLiveJumpFalseFallsBackToPosition(t *testing.T) {
	target := &recordingTarget{}
	Apply(target, types.PlaybackProps{
		Position:         floatPtr(30),
		IsAtLivePosition: boolPtr(false),
	}, zerolog.Nop())
	assert.Equal(t, []string{"seek"}, target.calls)
}

func TestSelectionErrorsDoNotAbortBatch(t *testing.T) {
	target := &recordingTarget{selectErr: errors.New("track gone")}
	Apply(target, types.PlaybackProps{
		SelectedTextTrack: &types.TrackSelection{},
		MaxBitrate:        floatPtr(3000),
	}, zerolog.Nop())
	assert.Equal(t, []string{"text", "cap"}, target.calls)
}

func TestPauseOnly(t *testing.T) {
	target := &recordingTarget{}
	Apply(target, types.PlaybackProps{IsPaused: boolPtr(true)}, zerolog.Nop())
	assert.Equal(t, []string{"pause"}, target.calls)
}
