package ecs

import (
	"iter"
	"reflect"
	"strings"
	"unsafe"
)

var entityType = reflect.TypeFor[Entity]()

// View represents a query for entities with a specific combination of components.
// The type T must be a struct whose fields are pointers to component types.
// Named fields can be marked `ecs:"optional"`; any pointer field can be marked
// `ecs:"read"` to declare that the holder never writes through it. A field of type
// Entity receives the id of the entity being visited.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	readOnly    []bool
	fieldOffset []uintptr

	hasEntity    bool
	entityOffset uintptr
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{storage: storage}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityType {
			v.hasEntity = true
			v.entityOffset = field.Offset
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or ecs.Entity")
		}

		isOptional, isReadOnly := parseViewTag(field)
		v.types = append(v.types, field.Type.Elem())
		v.fieldOffset = append(v.fieldOffset, field.Offset)
		v.optional = append(v.optional, isOptional)
		v.readOnly = append(v.readOnly, isReadOnly)
	}

	if len(v.types) == 0 {
		panic("View struct must reference at least one component")
	}

	return v
}

func parseViewTag(field reflect.StructField) (optional, readOnly bool) {
	tag := field.Tag.Get("ecs")
	if tag == "" {
		return false, false
	}

	for _, opt := range strings.Split(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "optional":
			// Embedded fields are always required
			if field.Anonymous {
				panic("embedded view fields cannot be optional: " + field.Name)
			}
			optional = true
		case "read":
			readOnly = true
		default:
			panic("invalid ecs tag value: \"" + tag + "\" (supported: optional, read)")
		}
	}
	return optional, readOnly
}

// Fill populates the provided struct pointer with component data for the given entity.
// Returns false if the entity is missing any required components.
// Optional components are set to nil if not present.
func (v *View[T]) Fill(entity Entity, ptr *T) bool {
	loc, ok := v.storage.entities.Get(entity)
	if !ok {
		return false
	}

	structPtr := unsafe.Pointer(ptr)
	for i, componentType := range v.types {
		component := loc.archetype.GetComponent(loc.row, componentType)
		fieldPtr := unsafe.Add(structPtr, v.fieldOffset[i])

		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}
		*(*unsafe.Pointer)(fieldPtr) = dataPointer(component)
	}

	if v.hasEntity {
		*(*Entity)(unsafe.Add(structPtr, v.entityOffset)) = entity
	}
	return true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(entity Entity) *T {
	var result T
	if !v.Fill(entity, &result) {
		return nil
	}
	return &result
}

// matchesArchetype checks if an archetype contains all the required component types
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, requiredType := range v.types {
		if v.optional[i] {
			continue
		}
		if !archetype.HasComponent(requiredType) {
			return false
		}
	}
	return true
}

func (v *View[T]) buildStorageIndices(archetype *Archetype) []int {
	storageIndices := make([]int, len(v.types))
	for i, componentType := range v.types {
		storageIndices[i] = archetype.typeIndex(componentType)
	}
	return storageIndices
}

func (v *View[T]) populateResult(resultPtr unsafe.Pointer, archetype *Archetype, entity Entity, row uint32, storageIndices []int) bool {
	for i, storageIdx := range storageIndices {
		fieldPtr := unsafe.Add(resultPtr, v.fieldOffset[i])

		var component any
		if storageIdx != -1 {
			component = archetype.storages[storageIdx].Get(int(row))
		}
		if component == nil {
			if v.optional[i] {
				*(*unsafe.Pointer)(fieldPtr) = nil
				continue
			}
			return false
		}

		*(*unsafe.Pointer)(fieldPtr) = dataPointer(component)
	}

	if v.hasEntity {
		*(*Entity)(unsafe.Add(resultPtr, v.entityOffset)) = entity
	}
	return true
}

func (v *View[T]) iterArchetype(archetype *Archetype, yield func(Entity, T) bool) bool {
	storageIndices := v.buildStorageIndices(archetype)

	var result T
	resultPtr := unsafe.Pointer(&result)

	for entity, row := range archetype.Iter() {
		if !v.populateResult(resultPtr, archetype, entity, row, storageIndices) {
			continue
		}
		if !yield(entity, result) {
			return false
		}
	}
	return true
}

// Iter returns an iterator over all entities that have all the required components.
// Archetypes are visited in ID order, so the order is stable while the store is unchanged.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for _, archetype := range v.storage.ordered {
			if !v.matchesArchetype(archetype) {
				continue
			}
			if !v.iterArchetype(archetype, yield) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates a new entity with components extracted from the view struct.
// Nil optional fields are skipped.
func (v *View[T]) Spawn(data T) Entity {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i, componentType := range v.types {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil {
			if !v.optional[i] {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(componentType, componentPtr).Elem().Interface())
	}

	return v.storage.Spawn(components...)
}

// Access reports the component types the view touches. When readOnly is set every
// type is reported as a read regardless of field tags.
func (v *View[T]) Access(readOnly bool) Access {
	var access Access
	for i, t := range v.types {
		if readOnly || v.readOnly[i] {
			access.Reads = append(access.Reads, t)
		} else {
			access.Writes = append(access.Writes, t)
		}
	}
	return access
}
