// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus instrumentation for the playback
// normalization layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsStarted counts playback sessions by technology.
	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playcore_sessions_started_total",
		Help: "Total number of playback sessions started, by technology",
	}, []string{"technology"})

	// StateUpdates counts state-key emissions that passed the distinctness
	// filter.
	StateUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playcore_state_updates_total",
		Help: "Total number of forwarded state-key updates, by key",
	}, []string{"key"})

	// PlaybackErrors counts normalized errors surfaced to callers.
	PlaybackErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playcore_errors_total",
		Help: "Total number of normalized playback errors, by code and severity",
	}, []string{"code", "severity"})

	// DriftCorrections counts paused-DVR drift corrections applied.
	DriftCorrections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playcore_dvr_drift_corrections_total",
		Help: "Total number of paused-DVR drift corrections applied",
	})

	// TrackReconciliations counts track-list reconciliation passes.
	TrackReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playcore_track_reconciliations_total",
		Help: "Total number of track reconciliation passes, by concern",
	}, []string{"kind"})

	// BitrateOps counts bitrate cap/fix operations.
	BitrateOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playcore_bitrate_ops_total",
		Help: "Total number of bitrate constraint operations, by operation",
	}, []string{"op"})

	// StageTransitions counts lifecycle stage transitions.
	StageTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playcore_lifecycle_transitions_total",
		Help: "Total number of lifecycle stage transitions, by target stage",
	}, []string{"stage"})
)

// IncSessionStarted records one session start.
func IncSessionStarted(technology string) {
	SessionsStarted.WithLabelValues(technology).Inc()
}

// IncStateUpdate records one forwarded state-key update.
func IncStateUpdate(key string) {
	StateUpdates.WithLabelValues(key).Inc()
}

// IncPlaybackError records one normalized error.
func IncPlaybackError(code, severity string) {
	PlaybackErrors.WithLabelValues(code, severity).Inc()
}

// IncDriftCorrection records one applied drift correction.
func IncDriftCorrection() {
	DriftCorrections.Inc()
}

// IncTrackReconciliation records one reconciliation pass.
func IncTrackReconciliation(kind string) {
	TrackReconciliations.WithLabelValues(kind).Inc()
}

// IncBitrateOp records one cap/fix operation.
func IncBitrateOp(op string) {
	BitrateOps.WithLabelValues(op).Inc()
}

// IncStageTransition records one lifecycle transition.
func IncStageTransition(stage string) {
	StageTransitions.WithLabelValues(stage).Inc()
}
