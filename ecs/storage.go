package ecs

import (
	"iter"
	"reflect"
	"slices"
	"sort"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Storage is the World: it exclusively owns the component store (archetypes), the
// entity index and the world-scoped singleton resources.
type Storage struct {
	archetypes map[uint32]*Archetype
	ordered    []*Archetype
	registry   *ComponentRegistry
	entities   *intmap.Map[Entity, location]
	lastEntity Entity
	singletons map[reflect.Type]*singletonEntry
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		entities:   intmap.New[Entity, location](256),
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) Entity {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetype := s.archetypeFor(types)

	s.lastEntity++
	entity := s.lastEntity
	row := archetype.spawn(entity, components)
	s.entities.Put(entity, location{archetype: archetype, row: row})
	return entity
}

// Alive reports whether the entity still holds at least one component.
func (s *Storage) Alive(entity Entity) bool {
	_, ok := s.entities.Get(entity)
	return ok
}

// Delete removes all data related to the entity. Destruction is immediate.
func (s *Storage) Delete(entity Entity) bool {
	loc, ok := s.entities.Get(entity)
	if !ok {
		return false
	}

	loc.archetype.delete(loc.row)
	s.entities.Del(entity)
	return true
}

// Insert adds component to the entity, replacing an existing component of the same type
// in place. Adding a new type moves the entity to the matching archetype.
// Returns false if the entity does not exist.
func (s *Storage) Insert(entity Entity, component any) bool {
	loc, ok := s.entities.Get(entity)
	if !ok {
		return false
	}

	compType := componentType(component)
	checkComponentKind(compType)

	if loc.archetype.HasComponent(compType) {
		return loc.archetype.setComponent(loc.row, component)
	}

	components := append(loc.archetype.components(loc.row, nil), component)
	s.move(entity, loc, components)
	return true
}

// Remove drops the component of compType from the entity. Removing the last component
// destroys the entity. Returns false if the entity did not hold the component.
func (s *Storage) Remove(entity Entity, compType reflect.Type) bool {
	loc, ok := s.entities.Get(entity)
	if !ok || !loc.archetype.HasComponent(compType) {
		return false
	}

	components := loc.archetype.components(loc.row, compType)
	if len(components) == 0 {
		return s.Delete(entity)
	}

	s.move(entity, loc, components)
	return true
}

func (s *Storage) move(entity Entity, from location, components []any) {
	archetype := s.archetypeFor(extractComponentTypes(components))
	from.archetype.delete(from.row)
	row := archetype.spawn(entity, components)
	s.entities.Put(entity, location{archetype: archetype, row: row})
}

// GetComponent returns a pointer to the entity's component of compType, or nil.
func (s *Storage) GetComponent(entity Entity, compType reflect.Type) any {
	loc, ok := s.entities.Get(entity)
	if !ok {
		return nil
	}
	return loc.archetype.GetComponent(loc.row, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(entity Entity, compType reflect.Type) bool {
	loc, ok := s.entities.Get(entity)
	return ok && loc.archetype.HasComponent(compType)
}

// Match yields every entity holding all of the given component types.
func (s *Storage) Match(types ...reflect.Type) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, archetype := range s.ordered {
			if !hasAll(archetype, types) {
				continue
			}
			for entity := range archetype.Iter() {
				if !yield(entity) {
					return
				}
			}
		}
	}
}

// EntityCount returns the number of live entities.
func (s *Storage) EntityCount() int {
	return s.entities.Len()
}

// Archetypes returns all archetypes ordered by ID.
func (s *Storage) Archetypes() []*Archetype {
	return slices.Clone(s.ordered)
}

// GetArchetype returns the archetype storing exactly the given component types, if any.
func (s *Storage) GetArchetype(types ...reflect.Type) *Archetype {
	sorted := slices.Clone(types)
	sort.Sort(byTypeName(sorted))
	for _, archetype := range s.archetypes {
		if slices.Equal(archetype.types, sorted) {
			return archetype
		}
	}
	return nil
}

// Compact removes holes left by deleted entities from every archetype.
func (s *Storage) Compact() {
	for _, archetype := range s.ordered {
		archetype.compact()
		for entity, row := range archetype.Iter() {
			s.entities.Put(entity, location{archetype: archetype, row: row})
		}
	}
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	id := hashTypesToUint32(types)
	for {
		archetype, exists := s.archetypes[id]
		if !exists {
			break
		}
		if slices.Equal(archetype.types, types) {
			return archetype
		}
		// hash collision between different type sets
		id++
	}

	archetype := NewArchetype(id, types, s.registry)
	s.archetypes[id] = archetype
	s.ordered = append(s.ordered, archetype)
	sort.Slice(s.ordered, func(i, j int) bool { return s.ordered[i].id < s.ordered[j].id })
	return archetype
}

func hasAll(archetype *Archetype, types []reflect.Type) bool {
	for _, t := range types {
		if !archetype.HasComponent(t) {
			return false
		}
	}
	return true
}

func checkComponentKind(compType reflect.Type) {
	if compType == nil {
		panic("component cannot be nil")
	}
	// Components can be structs or primitives (int, string, etc.)
	// but not pointers, maps, channels, or functions.
	switch compType.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)
		checkComponentKind(compType)
		if slices.Contains(types, compType) {
			panic("duplicate component type " + compType.String())
		}
		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

// hashTypesToUint32 generates a uint32 hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range types {
		// Use the type's pointer as a unique identifier
		ptr := (*iface)(unsafe.Pointer(&t)).data
		val := uint32(uintptr(ptr))

		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uintptr(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(Entity, reflect.Type) any
}

// ReadComponent returns the entity's component of type T, or nil if it has none.
func ReadComponent[T any](reader ComponentReader, entity Entity) *T {
	comp, _ := reader.GetComponent(entity, reflect.TypeFor[T]()).(*T)
	return comp
}

// RemoveComponent drops the component of type T from the entity.
func RemoveComponent[T any](s *Storage, entity Entity) bool {
	return s.Remove(entity, reflect.TypeFor[T]())
}
