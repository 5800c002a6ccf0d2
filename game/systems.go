package game

import (
	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/ecs"
)

// Animation names selected by movement.
const (
	AnimWalkRight = "walk right"
	AnimWalkLeft  = "walk left"
	AnimWalkDown  = "walk down"
	AnimWalkUp    = "walk up"
	AnimIdle      = "idle"
)

// InputSystem samples the input device into the Control resource once per tick.
type InputSystem struct {
	Control ecs.Singleton[Control]
	Device  ecs.Singleton[InputDevice] `ecs:"read"`
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	*s.Control.Get() = Sample(s.Device.Get().Source)
}

// Sample reads the four movement flags from src.
func Sample(src InputSource) Control {
	if src == nil {
		return Control{}
	}
	return Control{
		MoveLeft:  src.Pressed(Left),
		MoveRight: src.Pressed(Right),
		MoveUp:    src.Pressed(Up),
		MoveDown:  src.Pressed(Down),
	}
}

// MovementSystem moves every controlled entity and picks its walking animation.
type MovementSystem struct {
	Control ecs.Singleton[Control] `ecs:"read"`
	Movers  ecs.Query[struct {
		*Position
		*Controller `ecs:"read"`
		Animation   *AnimationState `ecs:"optional"`
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	control := *s.Control.Get()
	heading := Heading(control)

	for mover := range s.Movers.Values() {
		dx, dy := Step(control, mover.Controller.Speed)
		mover.Position.X += dx
		mover.Position.Y += dy

		if mover.Animation != nil {
			mover.Animation.Set(heading)
		}
	}
}

// Displacement returns the unit direction of the flags on each axis. Opposing flags
// cancel out. Up is negative y.
func Displacement(c Control) (dx, dy float32) {
	if c.MoveLeft {
		dx--
	}
	if c.MoveRight {
		dx++
	}
	if c.MoveUp {
		dy--
	}
	if c.MoveDown {
		dy++
	}
	return dx, dy
}

// Step scales the displacement by speed. A diagonal move splits the speed in half on
// each axis.
func Step(c Control, speed float32) (dx, dy float32) {
	dx, dy = Displacement(c)
	if dx != 0 && dy != 0 {
		speed /= 2
	}
	return dx * speed, dy * speed
}

// Heading picks the walking animation for the raw flags in the order right, left,
// down, up. Opposing flags still select an animation even though they cancel out in
// Displacement.
func Heading(c Control) string {
	switch {
	case c.MoveRight:
		return AnimWalkRight
	case c.MoveLeft:
		return AnimWalkLeft
	case c.MoveDown:
		return AnimWalkDown
	case c.MoveUp:
		return AnimWalkUp
	}
	return AnimIdle
}

// AnimationSystem advances every animated sprite by one tick.
type AnimationSystem struct {
	Assets  ecs.Singleton[asset.Registry] `ecs:"read"`
	Sprites ecs.Query[struct {
		*Visual
		*AnimationState
	}]
}

func (s *AnimationSystem) Execute(frame *ecs.UpdateFrame) {
	assets := s.Assets.Get()
	for sprite := range s.Sprites.Values() {
		Advance(assets, sprite.Visual, sprite.AnimationState)
	}
}

// Advance runs one animation tick. While the hold counter is running it only counts
// down. Once it runs out it is rearmed and the next frame of the animation is written
// to the visual; an empty or unknown animation shows cell (1, 1). Sprites whose sheet
// is not a loaded atlas are left alone. Reports whether the visual was written.
func Advance(assets *asset.Registry, visual *Visual, anim *AnimationState) bool {
	if anim.StepsRemaining > 0 {
		anim.StepsRemaining--
		if anim.StepsRemaining > 0 {
			return false
		}
	}
	anim.StepsRemaining = anim.FramesPerStep

	atlas, ok := assets.Atlas(visual.SpriteSheet)
	if !ok {
		return false
	}

	frames := atlas.Frames(anim.Name)
	anim.FrameIndex++
	if anim.FrameIndex >= len(frames) {
		anim.FrameIndex = 0
	}

	if len(frames) == 0 {
		visual.Location = asset.GridPos{Row: 1, Column: 1}
	} else {
		visual.Location = frames[anim.FrameIndex]
	}
	return true
}

// RenderSystem queues a draw for every visible entity on its sprite sheet. Entities
// whose sheet is missing, or whose cell lies outside the sheet, are not drawn.
type RenderSystem struct {
	Assets    ecs.Singleton[asset.Registry] `ecs:"read"`
	Drawables ecs.Query[struct {
		*Position `ecs:"read"`
		*Visual   `ecs:"read"`
	}]
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	assets := s.Assets.Get()
	for d := range s.Drawables.Values() {
		atlas, ok := assets.Atlas(d.Visual.SpriteSheet)
		if !ok {
			continue
		}
		atlas.EnqueueDraw(d.Position.X, d.Position.Y, d.Visual.Location)
	}
}

// PresentSystem hands every atlas batch to the renderer and clears it. Atlases are
// flushed in id order, which is also the order they are layered in.
type PresentSystem struct {
	Assets   ecs.Singleton[asset.Registry]
	Renderer ecs.Singleton[Renderer]
}

func (s *PresentSystem) Execute(frame *ecs.UpdateFrame) {
	target := s.Renderer.Get().Target
	if target != nil {
		target.Reset()
	}

	for id, c := range s.Assets.Get().All() {
		atlas, ok := c.(*asset.Atlas)
		if !ok {
			continue
		}
		batch := atlas.FlushBatch()
		if target == nil || len(batch.Ops) == 0 {
			continue
		}
		batch.Asset = id
		target.Submit(batch)
	}
}

// PlaylistSystem keeps the music going.
type PlaylistSystem struct {
	Music ecs.Singleton[Music]
}

func (s *PlaylistSystem) Execute(frame *ecs.UpdateFrame) {
	if player := s.Music.Get().Player; player != nil {
		player.AdvanceIfFinished()
	}
}
