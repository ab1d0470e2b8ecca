// SPDX-License-Identifier: MIT
package adapters

import (
	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/timeline"
	"github.com/nordav/playcore/internal/tracks"
	"github.com/nordav/playcore/internal/types"
)

// dashAdapter drives the MPEG-DASH engine, which reports an explicit
// dynamic-manifest live flag.
type dashAdapter struct {
	*base
}

func newDASH(eng engine.Engine, deps Deps) (Adapter, error) {
	le, err := requireLive(types.TechDASH, eng)
	if err != nil {
		return nil, err
	}
	calc := timeline.NewDASH(le, le, deps.Options)
	text := tracks.NewDASHText(eng, deps.Updater, deps.Logger)

	a := &dashAdapter{
		base: newBase(types.TechDASH, eng, calc, text, deps),
	}
	a.handlers[engine.EventBitrateChanged] = a.wrap(func(engine.Event) {
		a.bits.HandleLevelsChanged()
	})
	return a, nil
}
