// SPDX-License-Identifier: MIT
package adapters

import (
	"github.com/nordav/playcore/internal/engine"
	"github.com/nordav/playcore/internal/timeline"
	"github.com/nordav/playcore/internal/tracks"
	"github.com/nordav/playcore/internal/types"
)

// basicAdapter drives the plain progressive media-element engine. The engine
// has no adaptive ladder; the bitrate manager operates on an empty level
// list and the ladder events are never wired.
type basicAdapter struct {
	*base
}

func newBasic(eng engine.Engine, deps Deps) Adapter {
	calc := timeline.NewBasic(eng, deps.Options)
	text := tracks.NewBasicText(eng, deps.Updater, deps.Logger)
	return &basicAdapter{
		base: newBase(types.TechBasic, eng, calc, text, deps),
	}
}
