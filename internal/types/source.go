// SPDX-License-Identifier: MIT

// Package types holds the shared playback data model: sources, stream state
// values, settable properties, tracks and normalized errors. It has no
// dependencies on the engine adapters so every layer can import it.
package types

// Technology identifies one interchangeable native playback backend.
type Technology string

const (
	// TechBasic drives a plain progressive media element.
	TechBasic Technology = "basic"

	// TechHLS drives the segmented-HLS engine.
	TechHLS Technology = "hls"

	// TechDASH drives the MPEG-DASH engine.
	TechDASH Technology = "dash"

	// TechMSS drives the alternative adaptive (smooth-streaming) engine.
	TechMSS Technology = "mss"
)

// String implements fmt.Stringer.
func (t Technology) String() string {
	return string(t)
}

// IsValid checks whether the technology is one of the known backends.
func (t Technology) IsValid() bool {
	switch t {
	case TechBasic, TechHLS, TechDASH, TechMSS:
		return true
	default:
		return false
	}
}

// DRMScheme identifies a content-protection scheme a runtime may support.
type DRMScheme string

const (
	DRMWidevine  DRMScheme = "widevine"
	DRMPlayReady DRMScheme = "playready"
	DRMFairPlay  DRMScheme = "fairplay"
	DRMClearKey  DRMScheme = "clearkey"
)

// DRMDetails carries opaque license-acquisition parameters for one source.
// The normalization layer passes them through to the engine untouched.
type DRMDetails struct {
	Scheme     DRMScheme
	LicenseURL string

	// Headers are added to license requests verbatim.
	Headers map[string]string

	// Params are scheme-specific opaque options.
	Params map[string]string
}

// SideLoadedTrack describes a caller-supplied text track resource.
type SideLoadedTrack struct {
	URL         string
	Kind        string
	Label       string
	Language    string
	ContentType string
}

// SourceVariant is one alternative resource carrying the same content under
// a different DRM scheme.
type SourceVariant struct {
	URL         string
	ContentType string
	DRM         *DRMDetails
}

// PlaybackSource describes one stream to play. It is immutable for the
// duration of a session; replacing it starts a new session.
type PlaybackSource struct {
	URL         string
	ContentType string

	// StartPosition is the initial playback offset in seconds. Zero means
	// the engine default (start of stream, or live edge for live streams).
	StartPosition float64

	DRM *DRMDetails

	// TextTracks are side-loaded subtitle resources supplied by the caller.
	TextTracks []SideLoadedTrack

	// Alternatives are same-content resources offered for DRM-scheme
	// selection. When present, the resolver picks the variant matching the
	// runtime's supported scheme.
	Alternatives []SourceVariant
}
