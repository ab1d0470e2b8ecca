// SPDX-License-Identifier: MIT

// playcored is a demonstration daemon around the playback normalization
// library. It plays a simulated stream through the scripted engine and
// exposes the merged stream state, health and metrics over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/nordav/playcore/internal/config"
	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/engine/fake"
	"github.com/nordav/playcore/internal/log"
	"github.com/nordav/playcore/internal/player"
	"github.com/nordav/playcore/internal/resolve"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	sourceURL := flag.String("source", "https://demo.invalid/channel1/master.m3u8",
		"source URL for the simulated session")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	log.Configure(log.Config{Level: "info", Service: "playcored"})
	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}
	log.Configure(log.Config{Level: cfg.LogLevel, Service: "playcored"})

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.Listen).
		Str("source", *sourceURL).
		Msg("starting playcored")

	eng := fake.New()
	p := player.New(cfg,
		resolve.Runtime{DRMSchemes: []types.DRMScheme{types.DRMWidevine, types.DRMClearKey}},
		func(types.Technology, config.EngineConfig) (engine.Engine, error) {
			return eng, nil
		},
		player.Callbacks{
			OnState: func(update state.Update) {
				logger.Debug().
					Str("event", "daemon.state_update").
					Int("keys", len(update)).
					Msg("stream state changed")
			},
			OnError: func(perr *types.PlaybackError) {
				logger.Warn().
					Str("event", "daemon.playback_error").
					Str("error_code", string(perr.Code)).
					Str("severity", string(perr.Severity)).
					Msg(perr.Message)
			},
		})
	defer p.Close()

	holder := config.NewHolder(cfg, *configPath)
	if err := holder.StartWatcher(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.watcher_failed").
			Msg("failed to start config watcher")
	}
	defer holder.Stop()

	reloads := make(chan *config.Config, 1)
	holder.RegisterListener(reloads)

	srv := newServer(cfg.Listen, p, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.run(gctx)
	})

	g.Go(func() error {
		return runSimulation(gctx, p, eng, *sourceURL, cfg, logger)
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case newCfg := <-reloads:
				log.Configure(log.Config{Level: newCfg.LogLevel, Service: "playcored"})
				p.SetProperties(propsFromConfig(newCfg.Props))
				logger.Info().
					Str("event", "daemon.props_reapplied").
					Msg("applied reloaded property batch")
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.failed").
			Msg("daemon exited with error")
	}
	logger.Info().Msg("server exiting")
}

// propsFromConfig translates the YAML property section into a batch.
func propsFromConfig(pc config.PropsConfig) types.PlaybackProps {
	return types.PlaybackProps{
		IsPaused:   pc.IsPaused,
		Volume:     pc.Volume,
		IsMuted:    pc.IsMuted,
		MaxBitrate: pc.MaxBitrate,
	}
}
