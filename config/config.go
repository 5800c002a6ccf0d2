// Package config loads the game settings from a TOML file.
package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

// DefaultPath is the settings file read when no path is given.
const DefaultPath = "settings.toml"

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = eris.New("invalid settings")

type Settings struct {
	Window  WindowConfig  `toml:"window"`
	Game    GameConfig    `toml:"game"`
	Input   InputConfig   `toml:"input"`
	Audio   AudioConfig   `toml:"audio"`
	Logging LoggingConfig `toml:"logging"`
	Debug   DebugConfig   `toml:"debug"`

	// Undecoded lists keys present in the file that no setting uses.
	Undecoded []string `toml:"-"`
}

type WindowConfig struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Resizable  bool   `toml:"resizable"`
	Fullscreen bool   `toml:"fullscreen"`
}

type GameConfig struct {
	Campaign string `toml:"campaign"`
	TPS      int    `toml:"tps"`
	Parallel bool   `toml:"parallel"`
	Workers  int    `toml:"workers"` // 0 = unbounded
}

// InputConfig binds each direction to key names, any of which triggers it.
type InputConfig struct {
	Left  []string `toml:"left"`
	Right []string `toml:"right"`
	Up    []string `toml:"up"`
	Down  []string `toml:"down"`
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled"`
	SampleRate int     `toml:"sample_rate"`
	BufferMS   int     `toml:"buffer_ms"`
	Music      float64 `toml:"music"`   // 0.0-1.0
	Effects    float64 `toml:"effects"` // 0.0-1.0
	Voice      float64 `toml:"voice"`   // 0.0-1.0
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type DebugConfig struct {
	Overlay bool `toml:"overlay"`
}

// Load reads the settings at path over the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read settings %s", path)
	}
	return Parse(string(data), path)
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Defaults(), nil
	}
	return Load(path)
}

// Parse decodes TOML settings over the defaults. name is used in errors only.
func Parse(data, name string) (*Settings, error) {
	cfg := Defaults()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, eris.Wrapf(err, "parse settings %s", name)
	}
	for _, key := range md.Undecoded() {
		cfg.Undecoded = append(cfg.Undecoded, key.String())
	}
	return cfg, nil
}

// Defaults returns the settings used for anything the file leaves out.
func Defaults() *Settings {
	return &Settings{
		Window: WindowConfig{
			Title:     "A caffeinated game",
			Width:     1280,
			Height:    1024,
			Resizable: true,
		},
		Game: GameConfig{
			Campaign: "campaigns/TestGame",
			TPS:      60,
		},
		Input: InputConfig{
			Left:  []string{"A", "ArrowLeft"},
			Right: []string{"D", "ArrowRight"},
			Up:    []string{"W", "ArrowUp"},
			Down:  []string{"S", "ArrowDown"},
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
			BufferMS:   100,
			Music:      0.2,
			Effects:    1.0,
			Voice:      1.0,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (s *Settings) Validate() error {
	switch {
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return eris.Wrapf(ErrInvalid, "window size %dx%d", s.Window.Width, s.Window.Height)
	case s.Game.TPS <= 0:
		return eris.Wrapf(ErrInvalid, "game.tps %d", s.Game.TPS)
	case s.Game.Workers < 0:
		return eris.Wrapf(ErrInvalid, "game.workers %d", s.Game.Workers)
	case s.Audio.SampleRate <= 0:
		return eris.Wrapf(ErrInvalid, "audio.sample_rate %d", s.Audio.SampleRate)
	}

	for name, v := range map[string]float64{
		"audio.music":   s.Audio.Music,
		"audio.effects": s.Audio.Effects,
		"audio.voice":   s.Audio.Voice,
	} {
		if v < 0 || v > 1 {
			return eris.Wrapf(ErrInvalid, "%s %g outside [0, 1]", name, v)
		}
	}

	switch s.Logging.Format {
	case "json", "console", "":
	default:
		return eris.Wrapf(ErrInvalid, "logging.format %q", s.Logging.Format)
	}
	return nil
}
