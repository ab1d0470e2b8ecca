// SPDX-License-Identifier: MIT
package timeline

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nordav/playcore/internal/engine/fake"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestCorrector(eng *fake.Engine, corrected chan struct{}) *Corrector {
	calc := NewHLS(eng, eng, Options{})
	opts := Options{
		DriftInterval: 10 * time.Millisecond,
		DriftOffset:   10,
	}
	return NewCorrector(calc, opts, nil, func() {
		select {
		case corrected <- struct{}{}:
		default:
		}
	}, zerolog.Nop())
}

func TestCorrectorJumpsWhenPlayheadFallsOutOfWindow(t *testing.T) {
	eng := fake.New()
	eng.Script(func(s *fake.Script) {
		s.Live(true)
		s.Window(50, 200)
		s.Position(40)
	})

	corrected := make(chan struct{}, 1)
	c := newTestCorrector(eng, corrected)
	c.Start()
	defer c.Stop()

	select {
	case <-corrected:
	case <-time.After(2 * time.Second):
		t.Fatal("drift correction never fired")
	}
	assert.Equal(t, float64(60), eng.Position(), "jump is window start plus offset")
}

func TestCorrectorLeavesInWindowPlayheadAlone(t *testing.T) {
	eng := fake.New()
	eng.Script(func(s *fake.Script) {
		s.Live(true)
		s.Window(50, 200)
		s.Position(120)
	})

	corrected := make(chan struct{}, 1)
	c := newTestCorrector(eng, corrected)
	c.Start()
	defer c.Stop()

	select {
	case <-corrected:
		t.Fatal("correction fired for an in-window playhead")
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, float64(120), eng.Position())
}

func TestCorrectorStartStopIdempotent(t *testing.T) {
	eng := fake.New()
	c := newTestCorrector(eng, make(chan struct{}, 1))

	require.False(t, c.Running())
	c.Start()
	c.Start()
	require.True(t, c.Running())

	c.Stop()
	c.Stop()
	assert.False(t, c.Running())
}

func TestCorrectorStopCancelsPendingTick(t *testing.T) {
	eng := fake.New()
	eng.Script(func(s *fake.Script) {
		s.Live(true)
		s.Window(50, 200)
		s.Position(40)
	})

	corrected := make(chan struct{}, 1)
	calc := NewHLS(eng, eng, Options{})
	c := NewCorrector(calc, Options{DriftInterval: time.Hour, DriftOffset: 10}, nil, func() {
		corrected <- struct{}{}
	}, zerolog.Nop())

	c.Start()
	c.Stop()

	select {
	case <-corrected:
		t.Fatal("tick ran after Stop")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, float64(40), eng.Position())
}
