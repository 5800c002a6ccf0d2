package ecs

import (
	"iter"
	"reflect"
	"slices"
	"strings"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype represents a unique combination of component types.
// Every storage in an archetype is mutated in lock step, so a row index addresses
// the same entity in all of them.
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []iComponentStorage
	entities []Entity
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

// spawn stores one row of components for entity and returns the row index.
// components must hold exactly one value for every type of the archetype.
func (a *Archetype) spawn(entity Entity, components []any) uint32 {
	if len(components) != len(a.types) {
		panic("component count does not match archetype")
	}

	row := -1
	for idx, typ := range a.types {
		for _, comp := range components {
			if componentType(comp) != typ {
				continue
			}
			pos := a.storages[idx].Append(comp)
			if row != -1 && pos != row {
				panic("archetype storages out of step")
			}
			row = pos
			break
		}
	}
	if row < 0 {
		panic("no component stored for archetype " + a.String())
	}

	for len(a.entities) <= row {
		a.entities = append(a.entities, 0)
	}
	a.entities[row] = entity
	return uint32(row)
}

// GetComponent returns the component of the given type stored in row, or nil.
func (a *Archetype) GetComponent(row uint32, compType reflect.Type) any {
	idx := a.typeIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(int(row))
}

func (a *Archetype) setComponent(row uint32, component any) bool {
	idx := a.typeIndex(componentType(component))
	if idx == -1 {
		return false
	}
	return a.storages[idx].Set(int(row), component)
}

// components copies out every component of row as values, skipping skip.
func (a *Archetype) components(row uint32, skip reflect.Type) []any {
	out := make([]any, 0, len(a.types))
	for idx, typ := range a.types {
		if typ == skip {
			continue
		}
		ptr := a.storages[idx].Get(int(row))
		out = append(out, reflect.ValueOf(ptr).Elem().Interface())
	}
	return out
}

// delete clears row in every storage.
func (a *Archetype) delete(row uint32) {
	for _, storage := range a.storages {
		storage.Delete(int(row))
	}
	if int(row) < len(a.entities) {
		a.entities[row] = 0
	}
}

func (a *Archetype) typeIndex(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.typeIndex(compType) != -1
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in the archetype.
func (a *Archetype) Len() int {
	if len(a.storages) == 0 {
		return 0
	}
	return a.storages[0].Len()
}

// String lists the archetype's component types.
func (a *Archetype) String() string {
	names := make([]string, len(a.types))
	for i, t := range a.types {
		names[i] = t.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// compact reorganizes all component storage to eliminate empty slots.
// The returned map translates old rows to new rows.
func (a *Archetype) compact() map[uint32]uint32 {
	moved := make(map[uint32]uint32)
	if len(a.storages) == 0 {
		return moved
	}

	indexMap := a.storages[0].Compact()
	for i := 1; i < len(a.storages); i++ {
		a.storages[i].Compact()
	}

	entities := make([]Entity, len(indexMap))
	for oldRow, newRow := range indexMap {
		entities[newRow] = a.entities[oldRow]
		moved[uint32(oldRow)] = uint32(newRow)
	}
	a.entities = entities
	return moved
}

// Iter returns an iterator over every live entity in this archetype with its row.
func (a *Archetype) Iter() iter.Seq2[Entity, uint32] {
	return func(yield func(Entity, uint32) bool) {
		if len(a.storages) == 0 {
			return
		}

		for row := range a.storages[0].Iter() {
			if !yield(a.entities[row], uint32(row)) {
				return
			}
		}
	}
}

// componentType returns the value type of a component, dereferencing pointers.
func componentType(comp any) reflect.Type {
	t := reflect.TypeOf(comp)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}
