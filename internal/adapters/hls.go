// SPDX-License-Identifier: MIT
package adapters

import (
	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/timeline"
	"github.com/nordav/playcore/internal/tracks"
	"github.com/nordav/playcore/internal/types"
)

// hlsAdapter drives the segmented-HLS engine. Live detection honours the
// playlist flag with the unbounded-duration fallback, and ladder events are
// wired into the bitrate manager.
type hlsAdapter struct {
	*base
}

func newHLS(eng engine.Engine, deps Deps) (Adapter, error) {
	le, err := requireLive(types.TechHLS, eng)
	if err != nil {
		return nil, err
	}
	calc := timeline.NewHLS(le, le, deps.Options)
	text := tracks.NewHLSText(eng, deps.Updater, deps.Logger)

	a := &hlsAdapter{
		base: newBase(types.TechHLS, eng, calc, text, deps),
	}
	a.handlers[engine.EventBitrateChanged] = a.wrap(func(engine.Event) {
		a.bits.HandleLevelsChanged()
	})
	return a, nil
}
