// SPDX-License-Identifier: MIT

// Package source implements the source-switch protocol: tearing down
// per-source resources, reconfiguring DRM and driving the engine's load when
// the active source changes.
package source

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/lifecycle"
	"github.com/nordav/playcore/internal/types"
)

// Changer handles source replacement for one engine. Engine variants differ
// only in their PreLoad hook, which reconfigures engine-native options
// before the load is triggered.
type Changer struct {
	eng    engine.Transport
	life   *lifecycle.Manager
	logger zerolog.Logger

	// resetSession clears per-source resources (track managers, bitrate
	// constraints) and re-emits their initial state.
	resetSession func()

	// sideLoad attaches the caller-supplied text tracks after a load.
	sideLoad func([]types.SideLoadedTrack) error

	// preLoad applies engine-specific reconfiguration (DRM parameters,
	// native options) before the load. May be nil.
	preLoad func(*types.PlaybackSource) error

	cancelPrev context.CancelFunc
}

// NewChanger builds a source change handler.
func NewChanger(eng engine.Transport, life *lifecycle.Manager, logger zerolog.Logger,
	resetSession func(), sideLoad func([]types.SideLoadedTrack) error,
	preLoad func(*types.PlaybackSource) error) *Changer {
	return &Changer{
		eng:          eng,
		life:         life,
		logger:       logger,
		resetSession: resetSession,
		sideLoad:     sideLoad,
		preLoad:      preLoad,
	}
}

// Change replaces the active source. Prior per-source resources are
// cancelled first; a nil source releases the active media resource instead
// of loading a new one.
func (c *Changer) Change(ctx context.Context, sessionID string, src *types.PlaybackSource) error {
	if c.cancelPrev != nil {
		c.cancelPrev()
		c.cancelPrev = nil
	}

	if src == nil {
		c.logger.Info().
			Str("event", "source.released").
			Msg("empty source, releasing media resource")
		c.life.Teardown()
		c.eng.Release()
		return nil
	}

	c.life.StartSession(sessionID)
	if c.resetSession != nil {
		c.resetSession()
	}

	if c.preLoad != nil {
		if err := c.preLoad(src); err != nil {
			return fmt.Errorf("reconfigure engine for source: %w", err)
		}
	}

	loadCtx, cancel := context.WithCancel(ctx)
	c.cancelPrev = cancel

	c.logger.Info().
		Str("event", "source.loading").
		Str("url", src.URL).
		Msg("loading source")

	if err := c.eng.Load(loadCtx, engine.Descriptor{
		URL:           src.URL,
		ContentType:   src.ContentType,
		StartPosition: src.StartPosition,
		DRM:           src.DRM,
	}); err != nil {
		return fmt.Errorf("load source %q: %w", src.URL, err)
	}

	if len(src.TextTracks) > 0 && c.sideLoad != nil {
		if err := c.sideLoad(src.TextTracks); err != nil {
			return fmt.Errorf("attach side-loaded tracks: %w", err)
		}
	}
	return nil
}

// Close cancels any in-flight load.
func (c *Changer) Close() {
	if c.cancelPrev != nil {
		c.cancelPrev()
		c.cancelPrev = nil
	}
}
