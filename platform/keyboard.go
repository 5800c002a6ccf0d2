package platform

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/caffeinated/config"
	"github.com/plus3/caffeinated/game"
	"github.com/plus3/caffeinated/state"
	"github.com/rotisserie/eris"
)

// ErrUnknownKey is returned for a key name ebiten does not know.
var ErrUnknownKey = eris.New("unknown key")

// ParseKeys converts ebiten key names such as "A" or "ArrowLeft" to keys.
func ParseKeys(names []string) ([]ebiten.Key, error) {
	keys := make([]ebiten.Key, 0, len(names))
	for _, name := range names {
		var key ebiten.Key
		if err := key.UnmarshalText([]byte(name)); err != nil {
			return nil, eris.Wrapf(ErrUnknownKey, "%q", name)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Keyboard is the game's InputSource.
type Keyboard struct {
	bindings [4][]ebiten.Key
}

// NewKeyboard binds each direction to the configured keys.
func NewKeyboard(cfg config.InputConfig) (*Keyboard, error) {
	k := &Keyboard{}
	for d, names := range map[game.Direction][]string{
		game.Left:  cfg.Left,
		game.Right: cfg.Right,
		game.Up:    cfg.Up,
		game.Down:  cfg.Down,
	} {
		keys, err := ParseKeys(names)
		if err != nil {
			return nil, eris.Wrapf(err, "input.%s", d)
		}
		k.bindings[d] = keys
	}
	return k, nil
}

// Keys returns the keys bound to d.
func (k *Keyboard) Keys(d game.Direction) []ebiten.Key {
	if d < 0 || int(d) >= len(k.bindings) {
		return nil
	}
	return k.bindings[d]
}

func (k *Keyboard) Pressed(d game.Direction) bool {
	for _, key := range k.Keys(d) {
		if ebiten.IsKeyPressed(key) {
			return true
		}
	}
	return false
}

type menuKey struct {
	key    ebiten.Key
	action state.Action
}

// KeyMenu drives the main menu from the keyboard: Enter starts a new game, L loads
// one and Escape quits. Other UIs may push into the same queue.
type KeyMenu struct {
	state.MenuQueue
	keys []menuKey
}

func NewKeyMenu() *KeyMenu {
	return &KeyMenu{keys: []menuKey{
		{ebiten.KeyEnter, state.NewGame},
		{ebiten.KeyL, state.LoadGame},
		{ebiten.KeyEscape, state.QuitGame},
	}}
}

// Sample queues the actions whose keys went down this tick.
func (m *KeyMenu) Sample() {
	for _, k := range m.keys {
		if inpututil.IsKeyJustPressed(k.key) {
			m.Push(k.action)
		}
	}
}
