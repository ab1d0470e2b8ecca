// SPDX-License-Identifier: MIT

// Package fake provides a scripted in-memory engine implementing every
// backend variant contract. Tests and the demo daemon drive it by mutating
// its primitives and firing events, exactly the way a native engine would
// report them.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/types"
)

// Track is the fake's native track object. Handle identity is pointer
// identity, as the reconciliation contract requires.
type Track struct {
	TrackKind     string
	TrackLabel    string
	TrackLanguage string
	Active        bool
	SideLoaded    bool
}

// Kind implements engine.NativeTrack.
func (t *Track) Kind() string { return t.TrackKind }

// Label implements engine.NativeTrack.
func (t *Track) Label() string { return t.TrackLabel }

// Language implements engine.NativeTrack.
func (t *Track) Language() string { return t.TrackLanguage }

// Selected implements engine.NativeTrack.
func (t *Track) Selected() bool { return t.Active }

// Engine is the scripted engine. The zero value is usable.
type Engine struct {
	mu       sync.Mutex
	handlers []engine.HandlerMap

	position  float64
	duration  float64
	winStart  float64
	winEnd    float64
	hasWindow bool
	live      bool

	streamStart    time.Time
	hasStreamStart bool

	buffered float64
	paused   bool
	volume   float64
	muted    bool

	levels     []engine.Level
	current    int
	levelCap   int
	fixedLevel int

	textTracks  []*Track
	audioTracks []*Track

	loaded   *engine.Descriptor
	released bool

	// FailLoad, when set, makes the next Load return this error.
	FailLoad error
}

// New returns a fake engine with sensible defaults.
func New() *Engine {
	return &Engine{
		paused:     true,
		volume:     1,
		current:    -1,
		levelCap:   -1,
		fixedLevel: -1,
	}
}

// Attach implements engine.EventSource.
func (e *Engine) Attach(h engine.HandlerMap) {
	e.mu.Lock()
	e.handlers = append(e.handlers, h)
	e.mu.Unlock()
}

// Detach implements engine.EventSource.
func (e *Engine) Detach(h engine.HandlerMap) {
	e.mu.Lock()
	kept := e.handlers[:0]
	for _, m := range e.handlers {
		if !sameMap(m, h) {
			kept = append(kept, m)
		}
	}
	e.handlers = kept
	e.mu.Unlock()
}

func sameMap(a, b engine.HandlerMap) bool {
	if len(a) != len(b) {
		return false
	}
	// Handler maps are registered as units; unit identity is enough.
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Fire dispatches one event to every attached handler map, synchronously.
func (e *Engine) Fire(ev engine.Event) {
	e.mu.Lock()
	maps := append([]engine.HandlerMap(nil), e.handlers...)
	e.mu.Unlock()
	for _, m := range maps {
		if h, ok := m[ev.Type]; ok {
			h(ev)
		}
	}
}

// FireType dispatches a payload-free event.
func (e *Engine) FireType(t engine.EventType) {
	e.Fire(engine.Event{Type: t})
}

// FireError dispatches a native error event.
func (e *Engine) FireError(code, message string) {
	e.Fire(engine.Event{Type: engine.EventError, Err: &engine.NativeError{Code: code, Message: message}})
}

// Timeline implementation.

func (e *Engine) Position() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

func (e *Engine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

func (e *Engine) SeekableRange() (float64, float64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.winStart, e.winEnd, e.hasWindow
}

func (e *Engine) StreamStart() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.streamStart, e.hasStreamStart
}

func (e *Engine) BufferedAhead() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffered
}

func (e *Engine) SetPosition(seconds float64) {
	e.mu.Lock()
	e.position = seconds
	e.mu.Unlock()
}

// LiveReporter implementation.

func (e *Engine) IsLive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.live
}

// Transport implementation.

func (e *Engine) Load(_ context.Context, d engine.Descriptor) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailLoad != nil {
		err := e.FailLoad
		e.FailLoad = nil
		return err
	}
	e.loaded = &d
	e.released = false
	if d.StartPosition > 0 {
		e.position = d.StartPosition
	}
	return nil
}

func (e *Engine) Release() {
	e.mu.Lock()
	e.released = true
	e.loaded = nil
	e.mu.Unlock()
}

// Playback implementation.

func (e *Engine) Play() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
}

func (e *Engine) Pause() {
	e.mu.Lock()
	e.paused = true
	e.mu.Unlock()
}

func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	e.volume = v
	e.mu.Unlock()
}

func (e *Engine) Muted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.muted
}

func (e *Engine) SetMuted(m bool) {
	e.mu.Lock()
	e.muted = m
	e.mu.Unlock()
}

// Track target implementation.

func (e *Engine) TextTracks() []engine.NativeTrack {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]engine.NativeTrack, len(e.textTracks))
	for i, t := range e.textTracks {
		out[i] = t
	}
	return out
}

func (e *Engine) SelectTextTrack(sel engine.NativeTrack) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.textTracks {
		t.Active = sel != nil && engine.NativeTrack(t) == sel
	}
	return nil
}

func (e *Engine) AddSideLoadedTrack(src types.SideLoadedTrack) (engine.NativeTrack, error) {
	t := &Track{
		TrackKind:     src.Kind,
		TrackLabel:    src.Label,
		TrackLanguage: src.Language,
		SideLoaded:    true,
	}
	e.mu.Lock()
	e.textTracks = append(e.textTracks, t)
	e.mu.Unlock()
	return t, nil
}

func (e *Engine) RemoveSideLoadedTrack(sel engine.NativeTrack) {
	e.mu.Lock()
	kept := e.textTracks[:0]
	for _, t := range e.textTracks {
		if engine.NativeTrack(t) != sel {
			kept = append(kept, t)
		}
	}
	e.textTracks = kept
	e.mu.Unlock()
}

func (e *Engine) AudioTracks() []engine.NativeTrack {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]engine.NativeTrack, len(e.audioTracks))
	for i, t := range e.audioTracks {
		out[i] = t
	}
	return out
}

func (e *Engine) SelectAudioTrack(sel engine.NativeTrack) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.audioTracks {
		t.Active = engine.NativeTrack(t) == sel
	}
	return nil
}

// AdaptiveBitrate implementation.

func (e *Engine) Levels() []engine.Level {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.Level(nil), e.levels...)
}

func (e *Engine) CurrentLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Engine) SetLevelCap(index int) {
	e.mu.Lock()
	e.levelCap = index
	e.mu.Unlock()
}

func (e *Engine) SetFixedLevel(index int) {
	e.mu.Lock()
	e.fixedLevel = index
	if index >= 0 {
		e.current = index
	}
	e.mu.Unlock()
}

// Scripting helpers.

// Script mutates the engine's primitives under lock.
func (e *Engine) Script(fn func(*Script)) {
	e.mu.Lock()
	fn(&Script{e: e})
	e.mu.Unlock()
}

// Script is the mutation surface handed to Script callbacks.
type Script struct{ e *Engine }

func (s *Script) Position(v float64) { s.e.position = v }

func (s *Script) Duration(v float64) { s.e.duration = v }

func (s *Script) Window(start, end float64) {
	s.e.winStart, s.e.winEnd, s.e.hasWindow = start, end, true
}

func (s *Script) NoWindow() { s.e.hasWindow = false }

func (s *Script) Live(v bool) { s.e.live = v }

func (s *Script) StreamStart(t time.Time) { s.e.streamStart, s.e.hasStreamStart = t, true }

func (s *Script) BufferedAhead(v float64) { s.e.buffered = v }

func (s *Script) Levels(levels []engine.Level) { s.e.levels = levels }

func (s *Script) CurrentLevel(index int) { s.e.current = index }

func (s *Script) AddTextTrack(t *Track) { s.e.textTracks = append(s.e.textTracks, t) }

func (s *Script) RemoveTextTrack(t *Track) { s.e.textTracks = removeTrack(s.e.textTracks, t) }

func (s *Script) AddAudioTrack(t *Track) { s.e.audioTracks = append(s.e.audioTracks, t) }

func (s *Script) RemoveAudioTrack(t *Track) { s.e.audioTracks = removeTrack(s.e.audioTracks, t) }

func removeTrack(list []*Track, t *Track) []*Track {
	kept := list[:0]
	for _, x := range list {
		if x != t {
			kept = append(kept, x)
		}
	}
	return kept
}

// Inspection helpers for tests.

// LoadedDescriptor returns the last load request, or nil.
func (e *Engine) LoadedDescriptor() *engine.Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Released reports whether the media resource was released.
func (e *Engine) Released() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

// LevelCap returns the last cap index applied.
func (e *Engine) LevelCap() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.levelCap
}

// FixedLevel returns the last fixed index applied, -1 meaning automatic.
func (e *Engine) FixedLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fixedLevel
}

var (
	_ engine.Engine       = (*Engine)(nil)
	_ engine.LiveReporter = (*Engine)(nil)
)
