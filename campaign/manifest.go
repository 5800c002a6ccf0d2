package campaign

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/plus3/caffeinated/asset"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ManifestName is the campaign manifest file at the campaign root.
const ManifestName = "campaign.yml"

// EntitySpec describes an entity to spawn when the campaign starts.
type EntitySpec struct {
	Asset      string          `yaml:"asset"`
	Position   []float32       `yaml:"position"`
	Cell       []int           `yaml:"cell"`
	Animation  *AnimationSpec  `yaml:"animation"`
	Controller *ControllerSpec `yaml:"controller"`
}

// AnimationSpec selects the starting animation of an entity.
type AnimationSpec struct {
	Name          string `yaml:"name"`
	FramesPerStep int    `yaml:"frames_per_step"`
}

// ControllerSpec makes an entity follow the player's input.
type ControllerSpec struct {
	Speed float32 `yaml:"speed"`
}

// XY returns the starting position; missing coordinates are 0.
func (e EntitySpec) XY() (x, y float32) {
	if len(e.Position) > 0 {
		x = e.Position[0]
	}
	if len(e.Position) > 1 {
		y = e.Position[1]
	}
	return x, y
}

// GridPos returns the starting cell, defaulting to (1, 1).
func (e EntitySpec) GridPos() asset.GridPos {
	pos := asset.GridPos{Row: 1, Column: 1}
	if len(e.Cell) > 0 && e.Cell[0] > 0 {
		pos.Row = e.Cell[0]
	}
	if len(e.Cell) > 1 && e.Cell[1] > 0 {
		pos.Column = e.Cell[1]
	}
	return pos
}

type manifest struct {
	Name     string       `yaml:"name"`
	Music    []string     `yaml:"music"`
	Entities []EntitySpec `yaml:"entities"`
}

func (l *Loader) loadManifest(root string, c *Campaign) error {
	path := filepath.Join(root, ManifestName)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		l.log().Debug("campaign has no manifest", zap.String("root", root))
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}

	if m.Name != "" {
		c.Name = m.Name
	}
	c.Music = m.Music
	for i, e := range m.Entities {
		if e.Asset == "" {
			l.log().Warn("manifest entity has no asset, skipped", zap.String("config", path), zap.Int("index", i))
			continue
		}
		c.Entities = append(c.Entities, e)
	}
	return nil
}
