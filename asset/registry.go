package asset

import (
	"iter"
	"maps"
	"slices"
)

// Kind names the variant held by a Container.
type Kind int

const (
	KindNotFound Kind = iota
	KindSpriteAtlas
	KindAudioClip
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindSpriteAtlas:
		return "sprite sheet"
	case KindAudioClip:
		return "audio clip"
	default:
		return "unknown"
	}
}

// Container is a loaded asset. The variant set is closed: NotFound, *Atlas and
// *AudioClip. Consumers switch on the concrete type.
type Container interface {
	Kind() Kind
	isContainer()
}

type notFound struct{}

func (notFound) Kind() Kind   { return KindNotFound }
func (notFound) isContainer() {}

// NotFound is returned by Registry.Get for every id without an asset.
var NotFound Container = notFound{}

// Registry maps asset ids to containers. It is stored in the world as a singleton
// resource; lookups never fail.
type Registry struct {
	assets map[string]Container
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{assets: make(map[string]Container)}
}

// Add stores c under id, replacing any existing asset. It returns the previous
// container and whether there was one.
func (r *Registry) Add(id string, c Container) (Container, bool) {
	if c == nil {
		panic("asset: cannot add nil container for " + id)
	}
	if r.assets == nil {
		r.assets = make(map[string]Container)
	}
	prev, ok := r.assets[id]
	r.assets[id] = c
	if !ok {
		return NotFound, false
	}
	return prev, true
}

// Get returns the asset stored under id, or NotFound.
func (r *Registry) Get(id string) Container {
	if r == nil {
		return NotFound
	}
	if c, ok := r.assets[id]; ok {
		return c
	}
	return NotFound
}

// Has reports whether an asset is stored under id.
func (r *Registry) Has(id string) bool {
	return r.Get(id) != NotFound
}

// Atlas resolves id to a sprite atlas.
func (r *Registry) Atlas(id string) (*Atlas, bool) {
	atlas, ok := r.Get(id).(*Atlas)
	return atlas, ok
}

// AudioClip resolves id to an audio clip.
func (r *Registry) AudioClip(id string) (*AudioClip, bool) {
	clip, ok := r.Get(id).(*AudioClip)
	return clip, ok
}

// Remove deletes the asset stored under id and returns it, or NotFound.
func (r *Registry) Remove(id string) Container {
	c := r.Get(id)
	if c != NotFound {
		delete(r.assets, id)
	}
	return c
}

// Len returns the number of stored assets.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.assets)
}

// IDs returns the stored ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.assets))
}

// All yields every asset in id order. Containers are shared, so atlases can be
// flushed through the yielded values.
func (r *Registry) All() iter.Seq2[string, Container] {
	return func(yield func(string, Container) bool) {
		for _, id := range r.IDs() {
			if !yield(id, r.assets[id]) {
				return
			}
		}
	}
}
