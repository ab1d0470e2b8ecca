// SPDX-License-Identifier: MIT
package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID = "session_id"
	FieldComponent = "component"
	FieldEvent     = "event"

	// Stream fields
	FieldTechnology = "technology"
	FieldURL        = "url"
	FieldPlayMode   = "play_mode"
	FieldPosition   = "position"
	FieldDuration   = "duration"

	// State fields
	FieldOldStage = "old_stage"
	FieldNewStage = "new_stage"

	// Track fields
	FieldTrackID   = "track_id"
	FieldTrackKind = "track_kind"

	// Error fields
	FieldErrorCode = "error_code"
	FieldSeverity  = "severity"
)
