// SPDX-License-Identifier: MIT
package adapters

import (
	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/timeline"
	"github.com/nordav/playcore/internal/tracks"
	"github.com/nordav/playcore/internal/types"
)

// mssAdapter drives the alternative adaptive (smooth-streaming) engine.
type mssAdapter struct {
	*base
}

func newMSS(eng engine.Engine, deps Deps) (Adapter, error) {
	le, err := requireLive(types.TechMSS, eng)
	if err != nil {
		return nil, err
	}
	calc := timeline.NewMSS(le, le, deps.Options)
	text := tracks.NewMSSText(eng, deps.Updater, deps.Logger)

	a := &mssAdapter{
		base: newBase(types.TechMSS, eng, calc, text, deps),
	}
	a.handlers[engine.EventBitrateChanged] = a.wrap(func(engine.Event) {
		a.bits.HandleLevelsChanged()
	})
	return a, nil
}
