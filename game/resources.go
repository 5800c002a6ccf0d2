package game

import "github.com/plus3/caffeinated/asset"

// Direction is a logical movement direction.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// InputSource reports whether a direction is held down right now.
type InputSource interface {
	Pressed(d Direction) bool
}

// InputSourceFunc adapts a function to InputSource.
type InputSourceFunc func(d Direction) bool

func (f InputSourceFunc) Pressed(d Direction) bool {
	return f(d)
}

// Control holds the movement flags sampled for the current tick.
type Control struct {
	MoveLeft  bool
	MoveRight bool
	MoveUp    bool
	MoveDown  bool
}

// InputDevice is the resource holding the raw input source. A nil Source reads as
// nothing pressed.
type InputDevice struct {
	Source InputSource
}

// Renderer is the resource holding the frame target batches are presented to. With a
// nil Target batches are still flushed, and dropped.
type Renderer struct {
	Target asset.FrameTarget
}

// MusicPlayer keeps background music going.
type MusicPlayer interface {
	AdvanceIfFinished()
}

// Music is the resource holding the campaign's music player, if any.
type Music struct {
	Player MusicPlayer
}
