// SPDX-License-Identifier: MIT

// Package bitrate caps or fixes the adaptive bitrate ladder and reports
// effective values through the filtered state updater.
package bitrate

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/metrics"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

// Manager drives one engine's adaptive ladder. Every operation re-emits the
// effective {bitrates, currentBitrate, cap/fix} state regardless of whether
// the requested value matched an available rung exactly.
type Manager struct {
	eng     engine.AdaptiveBitrate
	updater *state.Updater
	logger  zerolog.Logger

	capKbps float64
	fixKbps float64
}

// New builds a bitrate manager for one engine.
func New(eng engine.AdaptiveBitrate, updater *state.Updater, logger zerolog.Logger) *Manager {
	return &Manager{eng: eng, updater: updater, logger: logger}
}

// KbpsForBandwidth converts a native bits-per-second bandwidth to kbps,
// always rounding up so a fixed or capped value never silently permits a
// higher rung than requested.
func KbpsForBandwidth(bps int) int {
	return int(math.Ceil(float64(bps) / 1000))
}

// CapBitrate constrains automatic adaptive selection to an upper bound in
// kbps without disabling automation. A non-finite, negative or zero value
// removes the constraint.
func (m *Manager) CapBitrate(maxKbps float64) {
	metrics.IncBitrateOp("cap")

	if !isUsable(maxKbps) {
		m.capKbps = 0
		m.eng.SetLevelCap(-1)
		m.logger.Debug().Str("event", "bitrate.cap_cleared").Msg("bitrate cap removed")
		m.Emit()
		return
	}

	index, effective := m.rungAtOrBelow(maxKbps)
	m.capKbps = effective
	m.eng.SetLevelCap(index)
	if effective > maxKbps {
		m.logger.Warn().
			Str("event", "bitrate.cap_above_request").
			Float64("requested_kbps", maxKbps).
			Float64("effective_kbps", effective).
			Msg("no rung at or below the requested cap, lowest rung applies")
	} else {
		m.logger.Debug().
			Str("event", "bitrate.capped").
			Float64("requested_kbps", maxKbps).
			Float64("effective_kbps", effective).
			Msg("bitrate ladder capped")
	}
	m.Emit()
}

// FixBitrate disables automatic selection and pins the ladder to the closest
// rung at or below the requested kbps, or to the lowest/highest rung for the
// min/max presets. A non-finite or absent value re-enables automation.
func (m *Manager) FixBitrate(lock types.BitrateLock) {
	metrics.IncBitrateOp("fix")

	levels := m.sortedLevels()

	switch {
	case lock.Preset == types.BitrateMin && len(levels) > 0:
		m.pin(levels[0])
	case lock.Preset == types.BitrateMax && len(levels) > 0:
		m.pin(levels[len(levels)-1])
	case isUsable(lock.Kbps):
		index, effective := m.rungAtOrBelow(lock.Kbps)
		m.fixKbps = effective
		m.eng.SetFixedLevel(index)
		if effective > lock.Kbps {
			m.logger.Warn().
				Str("event", "bitrate.fix_above_request").
				Float64("requested_kbps", lock.Kbps).
				Float64("effective_kbps", effective).
				Msg("no rung at or below the requested value, lowest rung applies")
		} else {
			m.logger.Debug().
				Str("event", "bitrate.fixed").
				Float64("requested_kbps", lock.Kbps).
				Float64("effective_kbps", effective).
				Msg("bitrate pinned")
		}
	default:
		m.fixKbps = 0
		m.eng.SetFixedLevel(-1)
		m.logger.Debug().Str("event", "bitrate.fix_cleared").Msg("automatic bitrate selection restored")
	}

	m.Emit()
}

func (m *Manager) pin(l engine.Level) {
	m.fixKbps = float64(KbpsForBandwidth(l.Bandwidth))
	m.eng.SetFixedLevel(l.Index)
}

// HandleLevelsChanged re-emits the ladder after the engine announced a rung
// or ladder change.
func (m *Manager) HandleLevelsChanged() {
	m.Emit()
}

// Reset clears constraints at a session boundary without touching the
// engine (the engine is reconfigured by the source change handler).
func (m *Manager) Reset() {
	m.capKbps = 0
	m.fixKbps = 0
}

// EmitInitial pushes the empty ladder at session start.
func (m *Manager) EmitInitial() {
	m.updater.Update(state.Update{
		state.KeyBitrates:       []types.Bitrate{},
		state.KeyCurrentBitrate: float64(0),
		state.KeyBitrateCap:     float64(0),
		state.KeyBitrateFix:     float64(0),
	})
}

// Emit publishes the effective ladder state.
func (m *Manager) Emit() {
	levels := m.eng.Levels()
	rungs := make([]types.Bitrate, 0, len(levels))
	for _, l := range levels {
		rungs = append(rungs, types.Bitrate{Kbps: KbpsForBandwidth(l.Bandwidth)})
	}
	sort.Slice(rungs, func(i, j int) bool { return rungs[i].Kbps < rungs[j].Kbps })

	var current float64
	if idx := m.eng.CurrentLevel(); idx >= 0 {
		for _, l := range levels {
			if l.Index == idx {
				current = float64(KbpsForBandwidth(l.Bandwidth))
				break
			}
		}
	}

	m.updater.Update(state.Update{
		state.KeyBitrates:       rungs,
		state.KeyCurrentBitrate: current,
		state.KeyBitrateCap:     m.capKbps,
		state.KeyBitrateFix:     m.fixKbps,
	})
}

// rungAtOrBelow returns the ladder index and kbps value of the highest rung
// at or below the requested kbps. When every rung is above the request, the
// lowest rung is used so playback stays possible.
func (m *Manager) rungAtOrBelow(kbps float64) (int, float64) {
	levels := m.sortedLevels()
	if len(levels) == 0 {
		return -1, 0
	}

	best := levels[0]
	for _, l := range levels {
		if float64(KbpsForBandwidth(l.Bandwidth)) <= kbps {
			best = l
		}
	}
	return best.Index, float64(KbpsForBandwidth(best.Bandwidth))
}

func (m *Manager) sortedLevels() []engine.Level {
	levels := append([]engine.Level(nil), m.eng.Levels()...)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Bandwidth < levels[j].Bandwidth })
	return levels
}

func isUsable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
