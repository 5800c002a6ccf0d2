package campaign

import (
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/plus3/caffeinated/asset"
	"github.com/rotisserie/eris"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// record is one decoded YAML asset file. Values are loosely typed and coerced on read.
type record struct {
	path   string
	values map[string]any
}

func readRecord(path string) (*record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read config")
	}
	values := make(map[string]any)
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, eris.Wrap(err, "parse config")
	}
	return &record{path: path, values: values}, nil
}

func (r *record) str(key string) string {
	return cast.ToString(r.values[key])
}

func (r *record) requireString(key string) (string, error) {
	v, ok := r.values[key]
	if !ok || v == nil {
		return "", eris.Wrapf(ErrMissingField, "%s", key)
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return "", eris.Wrapf(ErrMissingField, "%s is not a non-empty string", key)
	}
	return s, nil
}

func (r *record) requireInt(key string) (int, error) {
	v, ok := r.values[key]
	if !ok || v == nil {
		return 0, eris.Wrapf(ErrMissingField, "%s", key)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, eris.Wrapf(err, "%s", key)
	}
	return n, nil
}

// resolve joins a file named in the record with the record's directory.
func (r *record) resolve(file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(filepath.Dir(r.path), filepath.FromSlash(file))
}

func (r *record) assetID(root, file string) string {
	if id := r.str("asset_id"); id != "" {
		return id
	}
	return defaultAssetID(root, file)
}

func (l *Loader) loadSpriteSheet(root string, rec *record) (string, *asset.Atlas, error) {
	file, fileErr := rec.requireString("file")
	rows, rowsErr := rec.requireInt("rows")
	columns, columnsErr := rec.requireInt("columns")

	if err := firstError(fileErr, rowsErr, columnsErr); err != nil {
		for _, e := range []error{fileErr, rowsErr, columnsErr} {
			if e != nil {
				l.log().Warn("could not find required config value for sprite sheet",
					zap.String("config", rec.path), zap.Error(e))
			}
		}
		return "", nil, err
	}

	imagePath := rec.resolve(file)
	id := rec.assetID(root, imagePath)

	if l.Images == nil {
		return "", nil, eris.New("no image loader configured")
	}
	img, err := l.Images.Load(imagePath)
	if err != nil {
		l.log().Warn("could not load image",
			zap.String("image", imagePath), zap.String("config", rec.path), zap.Error(err))
		return "", nil, eris.Wrapf(err, "load image %s", imagePath)
	}

	atlas, err := asset.NewAtlas(img, rows, columns)
	if err != nil {
		l.log().Warn("invalid sprite sheet grid", zap.String("config", rec.path), zap.Error(err))
		return "", nil, err
	}

	l.addAnimations(rec, atlas)
	return id, atlas, nil
}

// addAnimations registers every well-formed animation of the record. An animation that
// is not a list of [row, column] pairs, or that names a cell outside the grid, is
// skipped with a warning.
func (l *Loader) addAnimations(rec *record, atlas *asset.Atlas) {
	raw, ok := rec.values["animations"]
	if !ok || raw == nil {
		return
	}

	table, err := cast.ToStringMapE(raw)
	if err != nil {
		l.log().Warn("animations must be a table of name: [[row, column], ...]",
			zap.String("config", rec.path), zap.Error(err))
		return
	}

	for _, name := range slices.Sorted(maps.Keys(table)) {
		frames, err := parseFrames(table[name])
		if err == nil {
			err = checkFrames(atlas, frames)
		}
		if err != nil {
			l.log().Warn("animation does not follow form [[row_1, col_1], ..., [row_n, col_n]]",
				zap.String("animation", name), zap.String("config", rec.path), zap.Error(err))
			continue
		}
		atlas.AddAnimation(name, frames)
	}
}

func parseFrames(raw any) ([]asset.GridPos, error) {
	if raw == nil {
		return nil, nil
	}
	list, err := cast.ToSliceE(raw)
	if err != nil {
		return nil, err
	}

	frames := make([]asset.GridPos, 0, len(list))
	for i, item := range list {
		pos, err := parseGridPos(item)
		if err != nil {
			return nil, eris.Wrapf(err, "frame %d", i)
		}
		frames = append(frames, pos)
	}
	return frames, nil
}

func parseGridPos(raw any) (asset.GridPos, error) {
	pair, err := cast.ToSliceE(raw)
	if err != nil {
		return asset.GridPos{}, err
	}
	if len(pair) != 2 {
		return asset.GridPos{}, eris.Errorf("want [row, column], got %d values", len(pair))
	}
	row, err := cast.ToIntE(pair[0])
	if err != nil {
		return asset.GridPos{}, eris.Wrap(err, "row")
	}
	column, err := cast.ToIntE(pair[1])
	if err != nil {
		return asset.GridPos{}, eris.Wrap(err, "column")
	}
	return asset.GridPos{Row: row, Column: column}, nil
}

func checkFrames(atlas *asset.Atlas, frames []asset.GridPos) error {
	for _, pos := range frames {
		if !atlas.Contains(pos) {
			return eris.Errorf("cell (%d, %d) outside %dx%d grid", pos.Row, pos.Column, atlas.Rows(), atlas.Columns())
		}
	}
	return nil
}

func (l *Loader) loadAudioClip(root string, rec *record) (string, *asset.AudioClip, error) {
	file, fileErr := rec.requireString("file")
	category, categoryErr := rec.requireString("category")

	if err := firstError(fileErr, categoryErr); err != nil {
		for _, e := range []error{fileErr, categoryErr} {
			if e != nil {
				l.log().Warn("could not find required config value for audio clip",
					zap.String("config", rec.path), zap.Error(e))
			}
		}
		return "", nil, err
	}

	clipCategory, err := asset.ParseClipCategory(category)
	if err != nil {
		l.log().Warn("audio category is not a valid option",
			zap.String("category", category), zap.String("config", rec.path))
		return "", nil, err
	}

	audioPath := rec.resolve(file)
	return rec.assetID(root, audioPath), &asset.AudioClip{Path: audioPath, Category: clipCategory}, nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
