package game

import (
	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/campaign"
	"github.com/plus3/caffeinated/ecs"
)

// Phases of a game tick, in execution order.
const (
	PhaseInput      = "input"
	PhaseSimulation = "simulation"
	PhaseAnimation  = "animation"
	PhasePresent    = "present"
	PhaseData       = "data"
)

// Phases lists the tick phases in execution order.
var Phases = []string{PhaseInput, PhaseSimulation, PhaseAnimation, PhasePresent, PhaseData}

// Resources are the collaborators a world is wired to. Any of them may be left nil.
type Resources struct {
	Assets *asset.Registry
	Input  InputSource
	Target asset.FrameTarget
	Music  MusicPlayer
}

// NewWorld creates a storage with the game components registered and every game
// resource in place. The asset registry is shared with res.Assets.
func NewWorld(res Resources) *ecs.Storage {
	components := ecs.NewComponentRegistry()
	RegisterComponents(components)
	storage := ecs.NewStorage(components)

	assets := res.Assets
	if assets == nil {
		assets = asset.NewRegistry()
	}
	storage.AddSingleton(*assets)
	storage.AddSingleton(Control{})
	storage.AddSingleton(InputDevice{Source: res.Input})
	storage.AddSingleton(Renderer{Target: res.Target})
	storage.AddSingleton(Music{Player: res.Music})
	return storage
}

// NewScheduler lays the game systems out over Phases. Rendering is queued in the
// animation phase after the animation has moved on, and flushed in its own phase.
func NewScheduler(storage *ecs.Storage) *ecs.Scheduler {
	s := ecs.NewScheduler(storage, Phases...)
	s.Register(PhaseInput, &InputSystem{})
	s.Register(PhaseSimulation, &MovementSystem{})
	s.Register(PhaseAnimation, &AnimationSystem{})
	s.Register(PhaseAnimation, &RenderSystem{})
	s.Register(PhasePresent, &PresentSystem{})
	s.Register(PhaseData, &PlaylistSystem{})
	return s
}

// Spawn creates the entity described by spec.
func Spawn(storage *ecs.Storage, spec campaign.EntitySpec) ecs.Entity {
	x, y := spec.XY()
	components := []any{
		Position{X: x, Y: y},
		Visual{SpriteSheet: spec.Asset, Location: spec.GridPos()},
	}
	if spec.Animation != nil {
		components = append(components, NewAnimationState(spec.Animation.Name, spec.Animation.FramesPerStep))
	}
	if spec.Controller != nil {
		components = append(components, Controller{Speed: max(spec.Controller.Speed, 0)})
	}
	return storage.Spawn(components...)
}

// SpawnAll spawns every entity of a campaign in manifest order.
func SpawnAll(storage *ecs.Storage, specs []campaign.EntitySpec) []ecs.Entity {
	entities := make([]ecs.Entity, 0, len(specs))
	for _, spec := range specs {
		entities = append(entities, Spawn(storage, spec))
	}
	return entities
}
