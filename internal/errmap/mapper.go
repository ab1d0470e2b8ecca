// SPDX-License-Identifier: MIT

// Package errmap classifies native engine errors into the normalized
// playback error taxonomy. Mapping is a pure function of the native code and
// the active technology; callers never see native error shapes.
package errmap

import (
	"strings"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/types"
)

// Map translates a native error into a PlaybackError. Severity defaults to
// FATAL unless the specific native code is known to be recoverable.
func Map(tech types.Technology, native *engine.NativeError) *types.PlaybackError {
	if native == nil {
		return &types.PlaybackError{
			Code:       types.CodeStreamError,
			Technology: tech,
			Severity:   types.SeverityFatal,
			Message:    "unspecified engine error",
		}
	}

	code, severity := classify(tech, native.Code)
	msg := native.Message
	if msg == "" {
		msg = native.Code
	}

	return &types.PlaybackError{
		Code:        code,
		Technology:  tech,
		Severity:    severity,
		Message:     msg,
		SourceError: native,
	}
}

func classify(tech types.Technology, nativeCode string) (types.ErrorCode, types.Severity) {
	switch tech {
	case types.TechBasic:
		return classifyBasic(nativeCode)
	case types.TechHLS:
		return classifyHLS(nativeCode)
	case types.TechDASH:
		return classifyDASH(nativeCode)
	case types.TechMSS:
		return classifyMSS(nativeCode)
	default:
		return types.CodeStreamError, types.SeverityFatal
	}
}

// classifyBasic maps media-element error codes.
func classifyBasic(code string) (types.ErrorCode, types.Severity) {
	switch code {
	case "MEDIA_ERR_NETWORK":
		return types.CodeStreamErrorDownload, types.SeverityFatal
	case "MEDIA_ERR_DECODE":
		return types.CodeStreamErrorDecode, types.SeverityFatal
	case "MEDIA_ERR_SRC_NOT_SUPPORTED":
		return types.CodeStreamErrorTechnologyUnsupported, types.SeverityFatal
	case "MEDIA_ERR_ABORTED":
		// User-initiated abort during teardown, not a stream failure.
		return types.CodeStreamError, types.SeverityInfo
	default:
		return types.CodeStreamError, types.SeverityFatal
	}
}

// classifyHLS maps segmented-HLS engine codes.
func classifyHLS(code string) (types.ErrorCode, types.Severity) {
	switch code {
	case "manifestLoadError", "manifestLoadTimeOut", "manifestParsingError",
		"levelLoadError", "levelLoadTimeOut":
		return types.CodeStreamErrorDownload, types.SeverityFatal
	case "fragLoadError", "fragLoadTimeOut":
		return types.CodeStreamErrorDownload, types.SeverityFatal
	case "subtitleLoadError", "subtitleTrackLoadTimeOut":
		// A subtitle fragment failure degrades captions, not playback.
		return types.CodeStreamErrorDownload, types.SeverityWarning
	case "audioTrackLoadError", "audioTrackLoadTimeOut":
		return types.CodeStreamErrorDownload, types.SeverityWarning
	case "fragParsingError", "fragDecryptError", "bufferAppendError",
		"bufferAppendingError", "remuxAllocError":
		return types.CodeStreamErrorDecode, types.SeverityFatal
	case "bufferStallError", "bufferNudgeOnStall":
		// The engine recovers stalls on its own.
		return types.CodeStreamError, types.SeverityWarning
	case "keySystemNoKeys", "keySystemNoAccess", "keyLoadError", "keyLoadTimeOut":
		return types.CodeStreamErrorDRMClientUnavailable, types.SeverityFatal
	case "keySystemOutputRestricted":
		return types.CodeStreamErrorDRMOutputBlocked, types.SeverityFatal
	case "mediaSourceUnavailable":
		return types.CodeStreamErrorTechnologyUnsupported, types.SeverityFatal
	default:
		return types.CodeStreamError, types.SeverityFatal
	}
}

// classifyDASH maps MPEG-DASH engine codes.
func classifyDASH(code string) (types.ErrorCode, types.Severity) {
	switch code {
	case "DOWNLOAD_ERROR_ID_MANIFEST", "DOWNLOAD_ERROR_ID_CONTENT",
		"DOWNLOAD_ERROR_ID_INITIALIZATION", "DOWNLOAD_ERROR_ID_XLINK":
		return types.CodeStreamErrorDownload, types.SeverityFatal
	case "DOWNLOAD_ERROR_ID_SIDX":
		return types.CodeStreamErrorDownload, types.SeverityWarning
	case "MANIFEST_ERROR_ID_PARSE", "MANIFEST_ERROR_ID_NOSTREAMS",
		"MEDIASOURCE_TYPE_UNSUPPORTED", "TIMED_TEXT_ERROR_ID_PARSE":
		return types.CodeStreamErrorDecode, types.SeverityFatal
	case "CAPABILITY_ERROR_MEDIASOURCE":
		return types.CodeStreamErrorTechnologyUnsupported, types.SeverityFatal
	case "KEY_SESSION_CREATED_ERROR", "KEY_SYSTEM_ACCESS_DENIED",
		"MEDIA_KEYERR_CLIENT":
		return types.CodeStreamErrorDRMClientUnavailable, types.SeverityFatal
	case "MEDIA_KEYERR_OUTPUT", "MEDIA_KEYERR_HARDWARECHANGE":
		return types.CodeStreamErrorDRMOutputBlocked, types.SeverityFatal
	default:
		return types.CodeStreamError, types.SeverityFatal
	}
}

// classifyMSS maps alternative adaptive engine codes. The engine reports
// dotted category prefixes rather than flat constants.
func classifyMSS(code string) (types.ErrorCode, types.Severity) {
	switch {
	case strings.HasPrefix(code, "download."):
		return types.CodeStreamErrorDownload, types.SeverityFatal
	case strings.HasPrefix(code, "parse."), strings.HasPrefix(code, "decode."):
		return types.CodeStreamErrorDecode, types.SeverityFatal
	case code == "drm.client_unavailable", code == "drm.no_key_system":
		return types.CodeStreamErrorDRMClientUnavailable, types.SeverityFatal
	case code == "drm.output_restricted":
		return types.CodeStreamErrorDRMOutputBlocked, types.SeverityFatal
	case code == "capability.unsupported":
		return types.CodeStreamErrorTechnologyUnsupported, types.SeverityFatal
	case strings.HasPrefix(code, "warn."):
		return types.CodeStreamError, types.SeverityWarning
	default:
		return types.CodeStreamError, types.SeverityFatal
	}
}
