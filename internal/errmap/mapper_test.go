// SPDX-License-Identifier: MIT
package errmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/types"
)

func TestMapClassification(t *testing.T) {
	tests := []struct {
		name         string
		tech         types.Technology
		nativeCode   string
		wantCode     types.ErrorCode
		wantSeverity types.Severity
	}{
		{"basic network", types.TechBasic, "MEDIA_ERR_NETWORK", types.CodeStreamErrorDownload, types.SeverityFatal},
		{"basic decode", types.TechBasic, "MEDIA_ERR_DECODE", types.CodeStreamErrorDecode, types.SeverityFatal},
		{"basic unsupported", types.TechBasic, "MEDIA_ERR_SRC_NOT_SUPPORTED", types.CodeStreamErrorTechnologyUnsupported, types.SeverityFatal},
		{"basic abort is informational", types.TechBasic, "MEDIA_ERR_ABORTED", types.CodeStreamError, types.SeverityInfo},
		{"basic unknown", types.TechBasic, "SOMETHING_ELSE", types.CodeStreamError, types.SeverityFatal},

		{"hls manifest", types.TechHLS, "manifestLoadError", types.CodeStreamErrorDownload, types.SeverityFatal},
		{"hls fragment parse", types.TechHLS, "fragParsingError", types.CodeStreamErrorDecode, types.SeverityFatal},
		{"hls subtitle degrades only", types.TechHLS, "subtitleLoadError", types.CodeStreamErrorDownload, types.SeverityWarning},
		{"hls audio track degrades only", types.TechHLS, "audioTrackLoadError", types.CodeStreamErrorDownload, types.SeverityWarning},
		{"hls stall recovers", types.TechHLS, "bufferStallError", types.CodeStreamError, types.SeverityWarning},
		{"hls key system", types.TechHLS, "keySystemNoAccess", types.CodeStreamErrorDRMClientUnavailable, types.SeverityFatal},
		{"hls output restricted", types.TechHLS, "keySystemOutputRestricted", types.CodeStreamErrorDRMOutputBlocked, types.SeverityFatal},
		{"hls mse missing", types.TechHLS, "mediaSourceUnavailable", types.CodeStreamErrorTechnologyUnsupported, types.SeverityFatal},

		{"dash manifest download", types.TechDASH, "DOWNLOAD_ERROR_ID_MANIFEST", types.CodeStreamErrorDownload, types.SeverityFatal},
		{"dash sidx degrades only", types.TechDASH, "DOWNLOAD_ERROR_ID_SIDX", types.CodeStreamErrorDownload, types.SeverityWarning},
		{"dash manifest parse", types.TechDASH, "MANIFEST_ERROR_ID_PARSE", types.CodeStreamErrorDecode, types.SeverityFatal},
		{"dash key client", types.TechDASH, "MEDIA_KEYERR_CLIENT", types.CodeStreamErrorDRMClientUnavailable, types.SeverityFatal},
		{"dash key output", types.TechDASH, "MEDIA_KEYERR_OUTPUT", types.CodeStreamErrorDRMOutputBlocked, types.SeverityFatal},
		{"dash capability", types.TechDASH, "CAPABILITY_ERROR_MEDIASOURCE", types.CodeStreamErrorTechnologyUnsupported, types.SeverityFatal},

		{"mss download prefix", types.TechMSS, "download.segment_timeout", types.CodeStreamErrorDownload, types.SeverityFatal},
		{"mss parse prefix", types.TechMSS, "parse.manifest_invalid", types.CodeStreamErrorDecode, types.SeverityFatal},
		{"mss drm client", types.TechMSS, "drm.client_unavailable", types.CodeStreamErrorDRMClientUnavailable, types.SeverityFatal},
		{"mss drm output", types.TechMSS, "drm.output_restricted", types.CodeStreamErrorDRMOutputBlocked, types.SeverityFatal},
		{"mss warn prefix", types.TechMSS, "warn.bitrate_downgrade", types.CodeStreamError, types.SeverityWarning},
		{"mss unknown", types.TechMSS, "weird", types.CodeStreamError, types.SeverityFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := Map(tt.tech, &engine.NativeError{Code: tt.nativeCode, Message: "boom"})
			require.NotNil(t, mapped)
			assert.Equal(t, tt.wantCode, mapped.Code)
			assert.Equal(t, tt.wantSeverity, mapped.Severity)
			assert.Equal(t, tt.tech, mapped.Technology)
			assert.Equal(t, "boom", mapped.Message)
		})
	}
}

func TestMapNilNativeError(t *testing.T) {
	mapped := Map(types.TechHLS, nil)
	require.NotNil(t, mapped)
	assert.Equal(t, types.CodeStreamError, mapped.Code)
	assert.True(t, mapped.IsFatal())
}

func TestMapPreservesNativeCause(t *testing.T) {
	native := &engine.NativeError{Code: "manifestLoadError"}
	mapped := Map(types.TechHLS, native)

	var unwrapped *engine.NativeError
	require.True(t, errors.As(mapped, &unwrapped))
	assert.Equal(t, native, unwrapped)
	// Message falls back to the native code when the engine gives none.
	assert.Equal(t, "manifestLoadError", mapped.Message)
}
