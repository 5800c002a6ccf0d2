package asset

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
)

// ClipCategory groups audio clips for volume control.
type ClipCategory int

const (
	CategoryMusic ClipCategory = iota
	CategoryEffects
	CategoryVoice
)

func (c ClipCategory) String() string {
	switch c {
	case CategoryMusic:
		return "music"
	case CategoryEffects:
		return "effects"
	case CategoryVoice:
		return "voice"
	default:
		return "unknown"
	}
}

// ErrUnknownCategory is returned for a clip category name that is not recognised.
var ErrUnknownCategory = eris.New("unknown audio clip category")

// ParseClipCategory parses a category name, ignoring case and surrounding space.
// "effect" and "sfx" are accepted for effects.
func ParseClipCategory(name string) (ClipCategory, error) {
	switch cases.Fold().String(strings.TrimSpace(name)) {
	case "music":
		return CategoryMusic, nil
	case "effects", "effect", "sfx":
		return CategoryEffects, nil
	case "voice":
		return CategoryVoice, nil
	default:
		return 0, eris.Wrapf(ErrUnknownCategory, "%q", name)
	}
}

// AudioClip is a sound file registered as an asset. It is decoded when played.
type AudioClip struct {
	Path     string
	Category ClipCategory
}

func (*AudioClip) isContainer() {}

// Kind implements Container.
func (*AudioClip) Kind() Kind { return KindAudioClip }
