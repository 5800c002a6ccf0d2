package ecs

// Entity is an opaque, stable identifier joining component rows across archetypes.
// Identifiers are handed out from a monotonically increasing counter and are never reused.
// The zero Entity is never valid.
type Entity uint64

// location records where an entity's component row currently lives.
type location struct {
	archetype *Archetype
	row       uint32
}

// Valid reports whether e could refer to a spawned entity.
func (e Entity) Valid() bool {
	return e != 0
}
