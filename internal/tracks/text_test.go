// SPDX-License-Identifier: MIT
package tracks

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordav/playcore/internal/engine/fake"
	"github.com/nordav/playcore/internal/state"
	"github.com/nordav/playcore/internal/types"
)

func newTextFixture(t *testing.T) (*TextManager, *fake.Engine, *[]state.Update) {
	t.Helper()
	var got []state.Update
	updater := state.NewUpdater(func(u state.Update) { got = append(got, u) })
	eng := fake.New()
	return NewBasicText(eng, updater, zerolog.Nop()), eng, &got
}

func sideLoadedEN() types.SideLoadedTrack {
	return types.SideLoadedTrack{
		URL:      "https://cdn.invalid/subs/en.vtt",
		Kind:     "subtitles",
		Label:    "English",
		Language: "en",
	}
}

func TestSetSideLoadedAddsTracks(t *testing.T) {
	m, eng, _ := newTextFixture(t)

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))

	listed := m.Tracks()
	require.Len(t, listed, 1)
	assert.Equal(t, "text-1", listed[0].ID)
	assert.Equal(t, types.OriginSideLoaded, listed[0].Origin)
	assert.Equal(t, "English", listed[0].Label)
	assert.Len(t, eng.TextTracks(), 1)
}

func TestSetSideLoadedDefaultKind(t *testing.T) {
	m, _, _ := newTextFixture(t)
	src := sideLoadedEN()
	src.Kind = ""

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{src}))
	assert.Equal(t, "subtitles", m.Tracks()[0].Kind)
}

func TestIdenticalResupplyReactivatesSameTracks(t *testing.T) {
	m, eng, _ := newTextFixture(t)

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))
	firstID := m.Tracks()[0].ID

	// Empty list retires; identical re-supply must reuse the same managed
	// track and native entry instead of duplicating it.
	require.NoError(t, m.SetSideLoaded(nil))
	assert.Empty(t, m.Tracks())

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))
	listed := m.Tracks()
	require.Len(t, listed, 1)
	assert.Equal(t, firstID, listed[0].ID)
	assert.Len(t, eng.TextTracks(), 1, "no duplicate native track")
}

func TestIdenticalResupplyKeepsSelection(t *testing.T) {
	m, eng, _ := newTextFixture(t)

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))
	sel := m.Tracks()[0]
	require.NoError(t, m.Select(&sel))

	// Replacing the list with the same content must not flicker the
	// selection off; the reclaimed track stays natively selected.
	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))

	current := m.Current()
	require.NotNil(t, current)
	assert.Equal(t, sel.ID, current.ID)
	assert.Len(t, eng.TextTracks(), 1)
}

func TestDefaultKindResupplyDoesNotDuplicate(t *testing.T) {
	m, eng, _ := newTextFixture(t)
	src := sideLoadedEN()
	src.Kind = ""

	// The stored kind is the substituted default; a re-supply with the kind
	// still empty must match the same managed track.
	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{src}))
	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{src}))

	require.Len(t, m.Tracks(), 1)
	assert.Len(t, eng.TextTracks(), 1)
}

func TestRetiringDeselectsActiveTrack(t *testing.T) {
	m, eng, _ := newTextFixture(t)

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))
	sel := m.Tracks()[0]
	require.NoError(t, m.Select(&sel))
	require.NotNil(t, m.Current())

	require.NoError(t, m.SetSideLoaded(nil))
	assert.Nil(t, m.Current())
	for _, native := range eng.TextTracks() {
		assert.False(t, native.Selected())
	}
}

func TestHandleNativeTracksChanged(t *testing.T) {
	m, eng, _ := newTextFixture(t)

	inStream := &fake.Track{TrackKind: "subtitles", TrackLabel: "Deutsch", TrackLanguage: "de"}
	eng.Script(func(s *fake.Script) { s.AddTextTrack(inStream) })
	m.HandleNativeTracksChanged()

	listed := m.Tracks()
	require.Len(t, listed, 1)
	assert.Equal(t, types.OriginInStream, listed[0].Origin)
	assert.Equal(t, "de", listed[0].Language)

	// Removal drops the in-stream entry.
	eng.Script(func(s *fake.Script) { s.RemoveTextTrack(inStream) })
	m.HandleNativeTracksChanged()
	assert.Empty(t, m.Tracks())
}

func TestNativeChangeKeepsSideLoadedTracks(t *testing.T) {
	m, eng, _ := newTextFixture(t)

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))
	eng.Script(func(s *fake.Script) {
		s.AddTextTrack(&fake.Track{TrackKind: "subtitles", TrackLabel: "Deutsch", TrackLanguage: "de"})
	})
	m.HandleNativeTracksChanged()

	want := []types.AvailableTrack{
		{ID: "text-1", Kind: "subtitles", Label: "English", Language: "en", Origin: types.OriginSideLoaded},
		{ID: "text-2", Kind: "subtitles", Label: "Deutsch", Language: "de", Origin: types.OriginInStream},
	}
	if diff := cmp.Diff(want, m.Tracks()); diff != "" {
		t.Errorf("track list mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectByIDAndDeselect(t *testing.T) {
	m, _, _ := newTextFixture(t)

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))
	sel := m.Tracks()[0]

	require.NoError(t, m.Select(&sel))
	current := m.Current()
	require.NotNil(t, current)
	assert.Equal(t, sel.ID, current.ID)

	require.NoError(t, m.Select(nil))
	assert.Nil(t, m.Current())
}

func TestSelectByLogicalIdentity(t *testing.T) {
	m, _, _ := newTextFixture(t)
	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))

	// Selection with matching content but a foreign ID resolves by identity.
	require.NoError(t, m.Select(&types.AvailableTrack{
		ID:       "stale-7",
		Kind:     "subtitles",
		Label:    "English",
		Language: "en",
		Origin:   types.OriginSideLoaded,
	}))
	assert.NotNil(t, m.Current())
}

func TestSelectUnknownTrackFails(t *testing.T) {
	m, _, _ := newTextFixture(t)
	err := m.Select(&types.AvailableTrack{ID: "text-99"})
	assert.Error(t, err)
}

func TestEmitShortCircuitsUnchangedLists(t *testing.T) {
	m, _, got := newTextFixture(t)

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))
	emissions := len(*got)
	require.NotZero(t, emissions)

	// A reconciliation pass with no observable change emits nothing.
	m.HandleNativeTracksChanged()
	assert.Len(t, *got, emissions)
}

func TestHandleTrackLoaded(t *testing.T) {
	m, eng, _ := newTextFixture(t)

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))
	native := eng.TextTracks()[0]

	// Unknown handles are ignored.
	m.HandleTrackLoaded(&fake.Track{TrackLabel: "stray"})
	m.HandleTrackLoaded(native)
	assert.Len(t, m.Tracks(), 1)
}

func TestEmitInitialAndReset(t *testing.T) {
	m, _, got := newTextFixture(t)

	m.EmitInitial()
	require.Len(t, *got, 1)
	assert.Equal(t, []types.AvailableTrack{}, (*got)[0][state.KeyTextTracks])

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{sideLoadedEN()}))
	m.Reset()
	assert.Empty(t, m.Tracks())
	assert.Nil(t, m.Current())
}

func TestLanguageNormalization(t *testing.T) {
	m, _, _ := newTextFixture(t)
	src := sideLoadedEN()
	src.Language = "EN-us"

	require.NoError(t, m.SetSideLoaded([]types.SideLoadedTrack{src}))
	assert.Equal(t, "en-US", m.Tracks()[0].Language)
}
