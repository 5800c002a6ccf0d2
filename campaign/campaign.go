// Package campaign ingests a campaign directory into an asset registry. A campaign is
// a directory tree of YAML records, one asset per record, plus an optional
// campaign.yml manifest naming the campaign and the entities to spawn.
package campaign

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/plus3/caffeinated/asset"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

var (
	ErrDuplicateAsset  = eris.New("duplicate asset id")
	ErrUnsupportedType = eris.New("unsupported asset type")
	ErrMissingField    = eris.New("missing required field")
)

// Record types understood by the loader. Matching ignores case.
const (
	TypeSpriteSheet = "sprite sheet"
	TypeAudioClip   = "audio clip"
)

// Campaign is the result of loading a campaign directory.
type Campaign struct {
	Name     string
	Root     string
	Entities []EntitySpec
	Music    []string
	// Loaded lists the ids of registered assets in load order.
	Loaded []string
	// Failed lists the record paths that did not produce an asset.
	Failed []string
}

// Loader reads campaign directories. Images loads the pictures behind sprite sheets.
type Loader struct {
	Images asset.ImageLoader
	Log    *zap.Logger
}

// NewLoader creates a loader. A nil logger discards all messages.
func NewLoader(images asset.ImageLoader, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Images: images, Log: log}
}

func (l *Loader) log() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

// Load walks root for asset records and registers every asset that loads. Broken
// records are logged and skipped; the returned error only reports a root that
// cannot be read at all, or a broken manifest.
func (l *Loader) Load(root string, registry *asset.Registry) (*Campaign, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, eris.Wrapf(err, "campaign %s", root)
	}
	if !info.IsDir() {
		return nil, eris.Errorf("campaign %s is not a directory", root)
	}

	paths, err := findRecords(root)
	if err != nil {
		return nil, eris.Wrapf(err, "walk campaign %s", root)
	}

	c := &Campaign{Name: filepath.Base(root), Root: root}
	for _, path := range paths {
		id, err := l.loadRecord(root, path, registry)
		if err != nil {
			l.log().Error("failed to load asset, review previous warnings",
				zap.String("config", path), zap.Error(err))
			c.Failed = append(c.Failed, path)
			continue
		}
		l.log().Info("loaded asset", zap.String("config", path), zap.String("asset_id", id))
		c.Loaded = append(c.Loaded, id)
	}

	if err := l.loadManifest(root, c); err != nil {
		return c, err
	}
	return c, nil
}

func (l *Loader) loadRecord(root, path string, registry *asset.Registry) (string, error) {
	rec, err := readRecord(path)
	if err != nil {
		l.log().Warn("could not read config file", zap.String("config", path), zap.Error(err))
		return "", err
	}

	switch kind := rec.str("type"); {
	case sameType(kind, TypeSpriteSheet):
		id, atlas, err := l.loadSpriteSheet(root, rec)
		if err != nil {
			return "", err
		}
		return id, l.checkRegistered(path, RegisterSpriteAtlas(registry, id, atlas))
	case sameType(kind, TypeAudioClip):
		id, clip, err := l.loadAudioClip(root, rec)
		if err != nil {
			return "", err
		}
		return id, l.checkRegistered(path, RegisterAudioClip(registry, id, clip))
	default:
		l.log().Warn("'type' key does not exist or value is not supported",
			zap.String("config", path), zap.String("type", kind))
		return "", eris.Wrapf(ErrUnsupportedType, "%q", kind)
	}
}

func (l *Loader) checkRegistered(path string, err error) error {
	if err != nil {
		l.log().Warn("asset was not registered", zap.String("config", path), zap.Error(err))
	}
	return err
}

func sameType(value, want string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(value)) == fold.String(want)
}

// findRecords lists every .yml/.yaml file under root except manifests, in lexical order.
func findRecords(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isRecordFile(path) || isManifest(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	return paths, err
}

func isRecordFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	}
	return false
}

func isManifest(path string) bool {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) == "campaign"
}

// defaultAssetID names an asset after its file, relative to the campaign root.
func defaultAssetID(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		rel = file
	}
	return filepath.ToSlash(rel)
}
