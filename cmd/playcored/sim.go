// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/config"
	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/engine/fake"
	"github.com/nordav/playcore/internal/player"
	"github.com/nordav/playcore/internal/types"
)

// runSimulation plays one scripted live session: the fake engine reports a
// sliding DVR window that grows in real time while the playhead follows the
// live edge. This exercises the same code paths a real engine binding would.
func runSimulation(ctx context.Context, p *player.Player, eng *fake.Engine,
	sourceURL string, cfg *config.Config, logger zerolog.Logger) error {

	if err := p.SetSource(ctx, &types.PlaybackSource{URL: sourceURL}); err != nil {
		return err
	}

	start := time.Now()
	windowEnd := 120.0

	eng.FireType(engine.EventLoadStart)
	eng.Script(func(s *fake.Script) {
		s.Live(true)
		s.Window(0, windowEnd)
		s.Duration(windowEnd)
		s.Position(windowEnd - 2)
		s.StreamStart(start.Add(-time.Duration(windowEnd) * time.Second))
		s.BufferedAhead(2)
		s.Levels([]engine.Level{
			{Index: 0, Bandwidth: 1_235_000, Width: 640, Height: 360},
			{Index: 1, Bandwidth: 2_346_000, Width: 1280, Height: 720},
			{Index: 2, Bandwidth: 7_892_000, Width: 1920, Height: 1080},
		})
		s.CurrentLevel(1)
		s.AddTextTrack(&fake.Track{TrackKind: "subtitles", TrackLabel: "English", TrackLanguage: "en"})
		s.AddAudioTrack(&fake.Track{TrackKind: "main", TrackLabel: "Stereo", TrackLanguage: "en", Active: true})
	})
	eng.FireType(engine.EventReady)
	eng.FireType(engine.EventTracksChanged)
	eng.FireType(engine.EventBitrateChanged)
	eng.FireType(engine.EventPlaying)

	p.SetProperties(propsFromConfig(cfg.Props))

	logger.Info().
		Str("event", "sim.started").
		Str("session_id", p.SessionID()).
		Msg("simulated live session running")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			playing := !eng.Paused()
			eng.Script(func(s *fake.Script) {
				windowEnd++
				s.Window(0, windowEnd)
				s.Duration(windowEnd)
				if playing {
					s.Position(windowEnd - 2)
				}
			})
			if playing {
				eng.FireType(engine.EventTimeUpdate)
			}
		}
	}
}
