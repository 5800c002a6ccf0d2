// Package game holds the components, resources and systems of a running campaign,
// and the phase layout the scheduler runs them in.
package game

import (
	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/ecs"
)

// Position is a point in world space.
type Position struct {
	X, Y float32
}

// Visual draws an entity as one cell of a sprite sheet.
type Visual struct {
	SpriteSheet string
	Location    asset.GridPos
}

// AnimationState steps an entity through a named animation of its sprite sheet.
// FramesPerStep is the number of extra ticks each frame is held for.
type AnimationState struct {
	Name           string
	FrameIndex     int
	FramesPerStep  int
	StepsRemaining int
}

// NewAnimationState starts the named animation at its first frame.
func NewAnimationState(name string, framesPerStep int) AnimationState {
	framesPerStep = max(framesPerStep, 0)
	return AnimationState{
		Name:           name,
		FramesPerStep:  framesPerStep,
		StepsRemaining: framesPerStep,
	}
}

// Set switches to the named animation. Switching restarts the animation at its first
// frame with a full hold; setting the current name again changes nothing.
func (a *AnimationState) Set(name string) {
	if a.Name == name {
		return
	}
	a.Name = name
	a.FrameIndex = 0
	a.StepsRemaining = a.FramesPerStep
}

// Controller makes an entity follow the player's input.
type Controller struct {
	Speed float32
}

// RegisterComponents registers every component type of the game.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Visual](registry)
	ecs.RegisterComponent[AnimationState](registry)
	ecs.RegisterComponent[Controller](registry)
}
