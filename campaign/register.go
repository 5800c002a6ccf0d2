package campaign

import (
	"github.com/plus3/caffeinated/asset"
	"github.com/rotisserie/eris"
)

// RegisterSpriteAtlas adds atlas under id. Unlike Registry.Add it refuses to replace
// an existing asset, so two records claiming one id are caught at ingestion.
func RegisterSpriteAtlas(registry *asset.Registry, id string, atlas *asset.Atlas) error {
	return register(registry, id, atlas)
}

// RegisterAudioClip adds clip under id, refusing duplicates like RegisterSpriteAtlas.
func RegisterAudioClip(registry *asset.Registry, id string, clip *asset.AudioClip) error {
	return register(registry, id, clip)
}

func register(registry *asset.Registry, id string, c asset.Container) error {
	if id == "" {
		return eris.Wrap(ErrMissingField, "asset_id")
	}
	if existing := registry.Get(id); existing != asset.NotFound {
		return eris.Wrapf(ErrDuplicateAsset, "%q already holds a %s", id, existing.Kind())
	}
	registry.Add(id, c)
	return nil
}
