// SPDX-License-Identifier: MIT
package types

import "fmt"

// ErrorCode is the normalized playback error taxonomy.
type ErrorCode string

const (
	// CodeStreamError is the generic fallback classification.
	CodeStreamError ErrorCode = "STREAM_ERROR"

	// CodeStreamErrorDownload covers network, manifest and segment fetch
	// failures.
	CodeStreamErrorDownload ErrorCode = "STREAM_ERROR_DOWNLOAD"

	// CodeStreamErrorDecode covers codec and parsing failures.
	CodeStreamErrorDecode ErrorCode = "STREAM_ERROR_DECODE"

	// CodeStreamErrorDRMClientUnavailable indicates the DRM client is
	// missing or failed to initialize.
	CodeStreamErrorDRMClientUnavailable ErrorCode = "STREAM_ERROR_DRM_CLIENT_UNAVAILABLE"

	// CodeStreamErrorDRMOutputBlocked indicates a secure-path or HDCP
	// restriction blocked output.
	CodeStreamErrorDRMOutputBlocked ErrorCode = "STREAM_ERROR_DRM_OUTPUT_BLOCKED"

	// CodeStreamErrorTechnologyUnsupported indicates engine prerequisites
	// are missing on this runtime.
	CodeStreamErrorTechnologyUnsupported ErrorCode = "STREAM_ERROR_TECHNOLOGY_UNSUPPORTED"
)

// Severity grades a playback error.
type Severity string

const (
	SeverityFatal   Severity = "FATAL"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// PlaybackError is the normalized error shape surfaced to callers. Native
// engine errors never reach callers directly; the error mapper produces one
// of these instead. Immutable once created.
type PlaybackError struct {
	Code        ErrorCode
	Technology  Technology
	Severity    Severity
	Message     string
	SourceError error
}

// Error implements the error interface.
func (e *PlaybackError) Error() string {
	return fmt.Sprintf("%s (%s/%s): %s", e.Code, e.Technology, e.Severity, e.Message)
}

// Unwrap exposes the native error for errors.Is/As chains.
func (e *PlaybackError) Unwrap() error {
	return e.SourceError
}

// IsFatal reports whether the error must terminate the session.
func (e *PlaybackError) IsFatal() bool {
	return e.Severity == SeverityFatal
}
