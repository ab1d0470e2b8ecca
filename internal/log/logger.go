// SPDX-License-Identifier: MIT

// Package log provides structured logging utilities built on zerolog.
package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config captures options for configuring the global logger.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stdout)
	Service string    // optional service name attached to every log entry
}

var (
	mu   sync.RWMutex
	base zerolog.Logger
	set  bool
)

// Configure initialises the global zerolog logger. The last call wins; tests
// may reconfigure the output writer.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
			level = parsed
		}
	} else if env := os.Getenv("LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	writer := cfg.Output
	if writer == nil {
		writer = os.Stdout
	}

	service := cfg.Service
	if service == "" {
		service = "playcore"
	}

	base = zerolog.New(writer).With().
		Timestamp().
		Str("service", service).
		Logger()
	set = true
}

func logger() zerolog.Logger {
	mu.RLock()
	ok := set
	l := base
	mu.RUnlock()
	if ok {
		return l
	}
	Configure(Config{})
	mu.RLock()
	l = base
	mu.RUnlock()
	return l
}

// Base returns the configured base logger instance.
func Base() zerolog.Logger {
	return logger()
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return logger().With().Str(FieldComponent, component).Logger()
}

// WithSession returns a child logger scoped to one playback session. All
// components of a session log through a logger derived this way instead of a
// shared mutable registry.
func WithSession(component, sessionID string) zerolog.Logger {
	return logger().With().
		Str(FieldComponent, component).
		Str(FieldSessionID, sessionID).
		Logger()
}
