package ecs

import (
	"reflect"
	"sort"
	"unsafe"
)

// singletonEntry holds the heap copy of a world-scoped resource.
type singletonEntry struct {
	typ     reflect.Type
	dataPtr unsafe.Pointer
}

// AddSingleton stores value as the world's resource of its dynamic type.
// Adding a resource of a type that already exists overwrites it in place, so
// Singleton accessors created earlier observe the new value.
func (s *Storage) AddSingleton(value any) {
	if value == nil {
		panic("cannot add nil singleton")
	}
	v := reflect.ValueOf(value)
	s.putSingleton(v.Type(), v)
}

func (s *Storage) putSingleton(t reflect.Type, v reflect.Value) *singletonEntry {
	if entry, ok := s.singletons[t]; ok {
		reflect.NewAt(t, entry.dataPtr).Elem().Set(v)
		return entry
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	entry := &singletonEntry{typ: t, dataPtr: ptr.UnsafePointer()}
	s.singletons[t] = entry
	return entry
}

func (s *Storage) getSingletonEntry(t reflect.Type) *singletonEntry {
	return s.singletons[t]
}

// ReadSingleton points out (a **T) at the stored resource of type T.
// Returns false if no such resource exists.
func (s *Storage) ReadSingleton(out any) bool {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton expects a pointer to a pointer")
	}

	t := v.Elem().Type().Elem()
	entry := s.getSingletonEntry(t)
	if entry == nil {
		return false
	}
	v.Elem().Set(reflect.NewAt(t, entry.dataPtr))
	return true
}

// SingletonTypes lists the stored resource types by name.
func (s *Storage) SingletonTypes() []string {
	names := make([]string, 0, len(s.singletons))
	for t := range s.singletons {
		names = append(names, t.String())
	}
	sort.Strings(names)
	return names
}

// Singleton provides efficient access to a single resource instance that is not
// associated with any entity: the asset registry, control flags, output targets.
// Systems declare Singleton fields and the Scheduler binds them on registration.
type Singleton[T any] struct {
	storage       *Storage
	componentPtr  unsafe.Pointer
	componentType reflect.Type
}

// NewSingleton creates a new Singleton accessor for the given storage.
// If initializer is provided and the singleton doesn't exist in storage,
// it will be created with the initializer value. Otherwise, a zero value is used.
// This guarantees the singleton exists in storage after the call.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	componentType := reflect.TypeFor[T]()

	entry := storage.getSingletonEntry(componentType)
	if entry == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		entry = storage.putSingleton(componentType, reflect.ValueOf(&value).Elem())
	}

	return &Singleton[T]{
		storage:       storage,
		componentPtr:  entry.dataPtr,
		componentType: componentType,
	}
}

// Init binds the Singleton to a storage.
// This is called automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentType = reflect.TypeFor[T]()
	s.updateCache()
}

// Get returns a pointer to the singleton component.
// Returns nil if the singleton has not been added to storage.
func (s *Singleton[T]) Get() *T {
	if s.componentPtr == nil {
		s.updateCache()
	}
	if s.componentPtr == nil {
		return nil
	}
	return (*T)(s.componentPtr)
}

// updateCache refreshes the cached pointer from storage
func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	entry := s.storage.getSingletonEntry(s.componentType)
	if entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}

// Exists returns true if the singleton component has been added to storage
func (s *Singleton[T]) Exists() bool {
	if s.componentPtr == nil {
		s.updateCache()
	}
	return s.componentPtr != nil
}

func (s *Singleton[T]) access(readOnly bool) Access {
	t := reflect.TypeFor[T]()
	if readOnly {
		return Access{Reads: []reflect.Type{t}}
	}
	return Access{Writes: []reflect.Type{t}}
}
