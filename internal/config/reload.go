// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/log"
)

// Holder holds configuration with atomic reloading. Reads are thread-safe;
// a failed reload keeps the previous configuration untouched.
type Holder struct {
	mu         sync.RWMutex
	current    *Config
	configPath string
	watcher    *fsnotify.Watcher
	logger     zerolog.Logger

	reloadMu        sync.RWMutex
	reloadListeners []chan<- *Config
}

// NewHolder creates a holder with an initial configuration.
func NewHolder(initial *Config, configPath string) *Holder {
	return &Holder{
		current:    initial,
		configPath: configPath,
		logger:     log.WithComponent("config"),
	}
}

// Current returns the active configuration.
func (h *Holder) Current() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload re-reads the config file. Either the new config validates and is
// applied as a whole, or the old one stays in place.
func (h *Holder) Reload(_ context.Context) error {
	h.logger.Info().Str("event", "config.reload_start").Msg("reloading configuration")

	newCfg, err := Load(h.configPath)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	h.current = newCfg
	h.mu.Unlock()

	h.notifyListeners(newCfg)

	h.logger.Info().
		Str("event", "config.reload_success").
		Msg("configuration reloaded successfully")
	return nil
}

// StartWatcher watches the config file for changes. A no-op when no config
// path is set.
func (h *Holder) StartWatcher(ctx context.Context) error {
	if h.configPath == "" {
		h.logger.Info().
			Str("event", "config.watcher_disabled").
			Msg("config file watcher disabled (defaults-only configuration)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	if err := watcher.Add(h.configPath); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config file: %w", err)
	}

	h.logger.Info().
		Str("event", "config.watcher_started").
		Str("path", h.configPath).
		Msg("watching config file for changes")

	go h.watchLoop(ctx)
	return nil
}

func (h *Holder) watchLoop(ctx context.Context) {
	// Debounce so editors that write in bursts trigger one reload.
	var debounceTimer *time.Timer
	const debounce = 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			_ = h.watcher.Close()
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounce, func() {
					if err := h.Reload(ctx); err != nil {
						h.logger.Error().
							Err(err).
							Str("event", "config.auto_reload_failed").
							Msg("automatic config reload failed")
					}
				})
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str("event", "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop closes the watcher if running.
func (h *Holder) Stop() {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
}

// RegisterListener registers a channel receiving each successfully reloaded
// configuration. Sends are non-blocking; a full channel is skipped.
func (h *Holder) RegisterListener(ch chan<- *Config) {
	h.reloadMu.Lock()
	h.reloadListeners = append(h.reloadListeners, ch)
	h.reloadMu.Unlock()
}

func (h *Holder) notifyListeners(newCfg *Config) {
	h.reloadMu.RLock()
	defer h.reloadMu.RUnlock()
	for _, ch := range h.reloadListeners {
		select {
		case ch <- newCfg:
		default:
			h.logger.Warn().
				Str("event", "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}
