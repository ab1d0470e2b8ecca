// SPDX-License-Identifier: MIT

// Package lifecycle implements the playback session state machine. It is the
// exclusive owner of the lifecycle stage; every other component reads it
// through the accessor and never mutates it.
package lifecycle

// Stage is the coarse phase of one playback session.
type Stage string

const (
	// StageUnknown is the pre-session zero value.
	StageUnknown Stage = "unknown"

	// StageNew is entered when a session starts, before the engine loads.
	StageNew Stage = "new"

	// StageStarting is entered when the engine begins loading.
	StageStarting Stage = "starting"

	// StageStarted is entered when the engine confirms readiness. Only this
	// stage allows buffering/seeking/paused sub-state transitions to
	// propagate.
	StageStarted Stage = "started"

	// StageEnded is entered when the stream completes.
	StageEnded Stage = "ended"

	// StageDead is the terminal stage after a fatal error.
	StageDead Stage = "dead"
)

// String implements fmt.Stringer.
func (s Stage) String() string {
	return string(s)
}

// transitions is the allowed edge set. Starting a new session re-enters
// StageNew from any stage and is therefore not listed here.
var transitions = map[Stage][]Stage{
	StageNew:      {StageStarting, StageDead},
	StageStarting: {StageStarted, StageDead},
	StageStarted:  {StageEnded, StageDead},
}

func canTransition(from, to Stage) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
