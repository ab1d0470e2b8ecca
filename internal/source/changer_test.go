// SPDX-License-Identifier: MIT
package source

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordav/playcore/internal/engine/fake"
	"github.com/nordav/playcore/internal/lifecycle"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

func newChangerFixture(t *testing.T) (*Changer, *fake.Engine, *lifecycle.Manager, *[]string) {
	t.Helper()
	updater := state.NewUpdater(nil)
	life := lifecycle.New(updater, zerolog.Nop())
	eng := fake.New()

	var hooks []string
	c := NewChanger(eng, life, zerolog.Nop(),
		func() { hooks = append(hooks, "reset") },
		func(tracks []types.SideLoadedTrack) error {
			hooks = append(hooks, "sideload")
			return nil
		},
		func(src *types.PlaybackSource) error {
			hooks = append(hooks, "preload")
			return nil
		})
	return c, eng, life, &hooks
}

func TestChangeLoadsSource(t *testing.T) {
	c, eng, life, hooks := newChangerFixture(t)

	src := &types.PlaybackSource{
		URL:           "https://cdn.invalid/master.m3u8",
		StartPosition: 42,
		DRM:           &types.DRMDetails{Scheme: types.DRMWidevine},
	}
	require.NoError(t, c.Change(context.Background(), "session-1", src))

	assert.Equal(t, lifecycle.StageNew, life.Stage())
	assert.Equal(t, []string{"reset", "preload"}, *hooks, "no side-load without supplied tracks")

	loaded := eng.LoadedDescriptor()
	require.NotNil(t, loaded)
	assert.Equal(t, src.URL, loaded.URL)
	assert.Equal(t, float64(42), loaded.StartPosition)
	assert.Equal(t, src.DRM, loaded.DRM)
}

func TestChangeAttachesSideLoadedTracks(t *testing.T) {
	c, _, _, hooks := newChangerFixture(t)

	src := &types.PlaybackSource{
		URL:        "https://cdn.invalid/movie.mp4",
		TextTracks: []types.SideLoadedTrack{{URL: "https://cdn.invalid/en.vtt", Language: "en"}},
	}
	require.NoError(t, c.Change(context.Background(), "session-1", src))
	assert.Equal(t, []string{"reset", "preload", "sideload"}, *hooks)
}

func TestChangeNilSourceReleases(t *testing.T) {
	c, eng, _, _ := newChangerFixture(t)

	require.NoError(t, c.Change(context.Background(), "session-1",
		&types.PlaybackSource{URL: "https://cdn.invalid/movie.mp4"}))
	require.NoError(t, c.Change(context.Background(), "session-2", nil))

	assert.True(t, eng.Released())
	assert.Nil(t, eng.LoadedDescriptor())
}

func TestChangeLoadFailure(t *testing.T) {
	c, eng, _, _ := newChangerFixture(t)

	boom := errors.New("network down")
	eng.FailLoad = boom

	err := c.Change(context.Background(), "session-1",
		&types.PlaybackSource{URL: "https://cdn.invalid/movie.mp4"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestChangePreLoadFailureAbortsLoad(t *testing.T) {
	updater := state.NewUpdater(nil)
	life := lifecycle.New(updater, zerolog.Nop())
	eng := fake.New()
	boom := errors.New("drm reconfigure failed")

	c := NewChanger(eng, life, zerolog.Nop(), nil, nil,
		func(*types.PlaybackSource) error { return boom })

	err := c.Change(context.Background(), "session-1",
		&types.PlaybackSource{URL: "https://cdn.invalid/movie.mp4"})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, eng.LoadedDescriptor())
}
