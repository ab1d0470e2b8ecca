// SPDX-License-Identifier: MIT
package adapters

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/engine/fake"
	"github.com/nordav/playcore/internal/lifecycle"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

// nonLiveEngine hides the fake's live flag behind the plain engine contract.
type nonLiveEngine struct {
	engine.Engine
}

func newDeps(t *testing.T) (Deps, *[]state.Update) {
	t.Helper()
	var got []state.Update
	updater := state.NewUpdater(func(u state.Update) { got = append(got, u) })
	return Deps{
		Updater: updater,
		Life:    lifecycle.New(updater, zerolog.Nop()),
		Logger:  zerolog.Nop(),
	}, &got
}

func TestNewBuildsVariantPerTechnology(t *testing.T) {
	for _, tech := range []types.Technology{types.TechBasic, types.TechHLS, types.TechDASH, types.TechMSS} {
		t.Run(string(tech), func(t *testing.T) {
			deps, _ := newDeps(t)
			a, err := New(tech, fake.New(), deps)
			require.NoError(t, err)
			assert.Equal(t, tech, a.Technology())
		})
	}
}

func TestNewRejectsUnknownTechnology(t *testing.T) {
	deps, _ := newDeps(t)
	_, err := New(types.Technology("rtmp"), fake.New(), deps)
	assert.Error(t, err)
}

func TestAdaptiveVariantsRequireLiveSignal(t *testing.T) {
	for _, tech := range []types.Technology{types.TechHLS, types.TechDASH, types.TechMSS} {
		t.Run(string(tech), func(t *testing.T) {
			deps, _ := newDeps(t)
			_, err := New(tech, &nonLiveEngine{fake.New()}, deps)
			require.Error(t, err)

			var perr *types.PlaybackError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, types.CodeStreamErrorTechnologyUnsupported, perr.Code)
		})
	}
}

func TestBasicWorksWithoutLiveSignal(t *testing.T) {
	deps, _ := newDeps(t)
	a, err := New(types.TechBasic, &nonLiveEngine{fake.New()}, deps)
	require.NoError(t, err)
	assert.Equal(t, types.TechBasic, a.Technology())
}

func TestEventHandlersStableInstance(t *testing.T) {
	deps, _ := newDeps(t)
	a, err := New(types.TechHLS, fake.New(), deps)
	require.NoError(t, err)

	first := a.EventHandlers()
	second := a.EventHandlers()
	require.Len(t, first, len(second))
	// Attach/Detach symmetry needs the identical map instance.
	assert.Equal(t, len(first), len(second))
	for k := range first {
		_, ok := second[k]
		assert.True(t, ok)
	}
}

func TestCleanupReleasesEngine(t *testing.T) {
	deps, _ := newDeps(t)
	eng := fake.New()
	a, err := New(types.TechHLS, eng, deps)
	require.NoError(t, err)

	require.NoError(t, a.HandleSourceChange(context.Background(), "session-1",
		&types.PlaybackSource{URL: "https://cdn.invalid/master.m3u8"}))
	a.Cleanup()
	assert.True(t, eng.Released())
}

func TestStartSessionEmitsInitialState(t *testing.T) {
	deps, got := newDeps(t)
	a, err := New(types.TechDASH, fake.New(), deps)
	require.NoError(t, err)

	a.StartSession("session-1")
	require.NotEmpty(t, *got)

	keys := map[state.Key]bool{}
	for _, u := range *got {
		for k := range u {
			keys[k] = true
		}
	}
	for _, want := range []state.Key{
		state.KeyPlayState, state.KeyTextTracks, state.KeyAudioTracks,
		state.KeyBitrates, state.KeyVolume, state.KeyError,
	} {
		assert.True(t, keys[want], "missing initial key %s", want)
	}
}
