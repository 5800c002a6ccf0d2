package debugui

import (
	"fmt"

	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/ecs"
	"github.com/plus3/caffeinated/state"
)

// Inspected is the game state the panels show. The overlay refreshes it every tick.
type Inspected struct {
	Name      string
	World     *ecs.Storage
	Scheduler *ecs.Scheduler
	Assets    *asset.Registry
}

type (
	worldHolder     interface{ World() *ecs.Storage }
	schedulerHolder interface{ Scheduler() *ecs.Scheduler }
	assetHolder     interface{ Assets() *asset.Registry }
)

// Inspect collects what the state exposes. A nil state means the machine stopped.
func Inspect(s state.State) Inspected {
	if s == nil {
		return Inspected{Name: "stopped"}
	}

	in := Inspected{Name: fmt.Sprintf("%T", s)}
	if named, ok := s.(fmt.Stringer); ok {
		in.Name = named.String()
	}
	if h, ok := s.(worldHolder); ok {
		in.World = h.World()
	}
	if h, ok := s.(schedulerHolder); ok {
		in.Scheduler = h.Scheduler()
	}
	if h, ok := s.(assetHolder); ok {
		in.Assets = h.Assets()
	}
	return in
}
