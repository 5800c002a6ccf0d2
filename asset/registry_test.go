package asset_test

import (
	"image"
	"testing"

	"github.com/plus3/caffeinated/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetMissingIsNotFound(t *testing.T) {
	registry := asset.NewRegistry()

	for _, id := range []string{"", "hero", "sprites/hero.png", "\x00"} {
		assert.Equal(t, asset.NotFound, registry.Get(id))
		assert.Equal(t, asset.KindNotFound, registry.Get(id).Kind())
	}

	var nilRegistry *asset.Registry
	assert.Equal(t, asset.NotFound, nilRegistry.Get("hero"))
	assert.Equal(t, 0, nilRegistry.Len())

	var zero asset.Registry
	assert.Equal(t, asset.NotFound, zero.Get("hero"))
}

func TestRegistryAddOverwrites(t *testing.T) {
	registry := asset.NewRegistry()

	a := &asset.AudioClip{Path: "a.ogg"}
	b := &asset.AudioClip{Path: "b.ogg"}

	prev, replaced := registry.Add("theme", a)
	assert.False(t, replaced)
	assert.Equal(t, asset.NotFound, prev)

	prev, replaced = registry.Add("theme", b)
	assert.True(t, replaced)
	assert.Same(t, a, prev)
	assert.Same(t, b, registry.Get("theme"))
	assert.Equal(t, 1, registry.Len())
}

func TestRegistryTypedLookups(t *testing.T) {
	registry := asset.NewRegistry()

	atlas, err := asset.NewAtlas(image.Rect(0, 0, 10, 10), 1, 1)
	require.NoError(t, err)
	registry.Add("hero", atlas)
	registry.Add("theme", &asset.AudioClip{Path: "theme.ogg", Category: asset.CategoryMusic})

	got, ok := registry.Atlas("hero")
	assert.True(t, ok)
	assert.Same(t, atlas, got)

	_, ok = registry.Atlas("theme")
	assert.False(t, ok, "wrong kind resolves like a missing asset")
	_, ok = registry.Atlas("missing")
	assert.False(t, ok)

	clip, ok := registry.AudioClip("theme")
	require.True(t, ok)
	assert.Equal(t, asset.CategoryMusic, clip.Category)

	assert.True(t, registry.Has("hero"))
	assert.False(t, registry.Has("villain"))
}

func TestRegistryRemove(t *testing.T) {
	registry := asset.NewRegistry()
	clip := &asset.AudioClip{Path: "x.wav"}
	registry.Add("x", clip)

	assert.Same(t, clip, registry.Remove("x"))
	assert.Equal(t, asset.NotFound, registry.Remove("x"))
	assert.Equal(t, asset.NotFound, registry.Get("x"))
}

func TestRegistryAllSorted(t *testing.T) {
	registry := asset.NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		registry.Add(id, &asset.AudioClip{Path: id})
	}

	var ids []string
	for id, c := range registry.All() {
		ids = append(ids, id)
		assert.Equal(t, asset.KindAudioClip, c.Kind())
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, ids, registry.IDs())
}

func TestRegistryAddNilPanics(t *testing.T) {
	assert.Panics(t, func() { asset.NewRegistry().Add("x", nil) })
}

func TestParseClipCategory(t *testing.T) {
	tests := []struct {
		in   string
		want asset.ClipCategory
		err  bool
	}{
		{"music", asset.CategoryMusic, false},
		{" Music ", asset.CategoryMusic, false},
		{"EFFECTS", asset.CategoryEffects, false},
		{"sfx", asset.CategoryEffects, false},
		{"Voice", asset.CategoryVoice, false},
		{"ambient", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := asset.ParseClipCategory(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, asset.ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "effects", asset.CategoryEffects.String())
	assert.Equal(t, "sprite sheet", asset.KindSpriteAtlas.String())
}
