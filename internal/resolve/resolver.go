// SPDX-License-Identifier: MIT

// Package resolve selects the engine variant and DRM-scheme variant for a
// source. Both decisions are pure functions of the source descriptor and the
// runtime capabilities, never of runtime type inspection.
package resolve

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/nordav/playcore/internal/types"
)

// Typed resolution errors. They occur before any session starts, so no
// lifecycle transition applies; callers decide whether they are fatal.
var (
	ErrNoSupportedEngine = errors.New("no playback engine supports this source")
	ErrNoSupportedDRM    = errors.New("no source variant matches a supported DRM scheme")
)

// Runtime describes the capabilities of the host environment the decision
// depends on.
type Runtime struct {
	// NativeHLS is true on runtimes with built-in HLS support, where the
	// basic engine substitutes for the segmented-HLS engine.
	NativeHLS bool

	// DRMSchemes lists the supported schemes in priority order appropriate
	// to the runtime.
	DRMSchemes []types.DRMScheme
}

// SupportsScheme reports whether the runtime supports the given scheme.
func (r Runtime) SupportsScheme(s types.DRMScheme) bool {
	for _, scheme := range r.DRMSchemes {
		if scheme == s {
			return true
		}
	}
	return false
}

// Content type constants recognized by the resolver.
const (
	ContentTypeHLS  = "application/x-mpegurl"
	ContentTypeHLS2 = "application/vnd.apple.mpegurl"
	ContentTypeDASH = "application/dash+xml"
	ContentTypeMSS  = "application/vnd.ms-sstr+xml"
	ContentTypeMP4  = "video/mp4"
	ContentTypeWebM = "video/webm"
)

// Resolve picks the engine variant for a source by content type first, URL
// pattern second. This function is total over resolvable sources; anything
// unrecognized returns ErrNoSupportedEngine.
func Resolve(source *types.PlaybackSource, runtime Runtime) (types.Technology, error) {
	if source == nil || source.URL == "" {
		return "", fmt.Errorf("resolve: %w", ErrNoSupportedEngine)
	}

	contentType := strings.ToLower(strings.TrimSpace(source.ContentType))
	switch contentType {
	case ContentTypeHLS, ContentTypeHLS2:
		return hlsTechnology(runtime), nil
	case ContentTypeDASH:
		return types.TechDASH, nil
	case ContentTypeMSS:
		return types.TechMSS, nil
	case ContentTypeMP4, ContentTypeWebM, "video/ogg":
		return types.TechBasic, nil
	}

	switch streamExtension(source.URL) {
	case ".m3u8":
		return hlsTechnology(runtime), nil
	case ".mpd":
		return types.TechDASH, nil
	case ".ism", ".isml":
		return types.TechMSS, nil
	case ".mp4", ".m4v", ".webm", ".ogv", ".mp3", ".aac":
		return types.TechBasic, nil
	}

	// Smooth-streaming manifests conventionally end in /Manifest.
	if strings.HasSuffix(strings.ToLower(source.URL), "/manifest") {
		return types.TechMSS, nil
	}

	return "", fmt.Errorf("resolve %q: %w", source.URL, ErrNoSupportedEngine)
}

// hlsTechnology substitutes the native playback path on runtimes with
// built-in HLS support.
func hlsTechnology(runtime Runtime) types.Technology {
	if runtime.NativeHLS {
		return types.TechBasic
	}
	return types.TechHLS
}

// SelectDRMVariant picks the source resource matching the runtime's DRM
// scheme priority. A source without DRM alternatives is returned unchanged.
// Resources are checked in the runtime's priority order, not the source's
// declaration order.
func SelectDRMVariant(source *types.PlaybackSource, runtime Runtime) (*types.PlaybackSource, error) {
	if source == nil {
		return nil, fmt.Errorf("select drm variant: %w", ErrNoSupportedDRM)
	}
	if len(source.Alternatives) == 0 {
		if source.DRM != nil && !runtime.SupportsScheme(source.DRM.Scheme) {
			return nil, fmt.Errorf("scheme %q: %w", source.DRM.Scheme, ErrNoSupportedDRM)
		}
		return source, nil
	}

	for _, scheme := range runtime.DRMSchemes {
		for _, alt := range source.Alternatives {
			if alt.DRM != nil && alt.DRM.Scheme == scheme {
				resolved := *source
				resolved.URL = alt.URL
				if alt.ContentType != "" {
					resolved.ContentType = alt.ContentType
				}
				resolved.DRM = alt.DRM
				resolved.Alternatives = nil
				return &resolved, nil
			}
		}
	}

	// Clear variants remain usable on runtimes without any DRM support.
	for _, alt := range source.Alternatives {
		if alt.DRM == nil {
			resolved := *source
			resolved.URL = alt.URL
			if alt.ContentType != "" {
				resolved.ContentType = alt.ContentType
			}
			resolved.DRM = nil
			resolved.Alternatives = nil
			return &resolved, nil
		}
	}

	return nil, fmt.Errorf("select drm variant: %w", ErrNoSupportedDRM)
}

func streamExtension(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(path.Ext(raw))
	}
	return strings.ToLower(path.Ext(u.Path))
}
