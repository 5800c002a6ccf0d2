package ecs

import "reflect"

// System represents a behavior that operates on entities with specific components.
// User-defined systems should implement this interface and can include Query and
// Singleton fields for accessing the world, as well as custom state fields that
// persist between frames.
//
// A Query or Singleton field tagged `ecs:"read"` is recorded as a read of every type it
// touches; untagged fields are writes unless the view struct marks a component `ecs:"read"`.
type System interface {
	Execute(frame *UpdateFrame)
}

// Access lists the component and resource types a system touches.
type Access struct {
	Reads  []reflect.Type
	Writes []reflect.Type
}

// Merge returns the union of both access lists.
func (a Access) Merge(other Access) Access {
	return Access{
		Reads:  append(append([]reflect.Type(nil), a.Reads...), other.Reads...),
		Writes: append(append([]reflect.Type(nil), a.Writes...), other.Writes...),
	}
}

// AccessDeclarer is implemented by systems that touch types beyond their Query and
// Singleton fields, for example through frame.Storage.
type AccessDeclarer interface {
	Access() Access
}

// ReadOf declares a read of T.
func ReadOf[T any]() Access {
	return Access{Reads: []reflect.Type{reflect.TypeFor[T]()}}
}

// WriteOf declares a write of T.
func WriteOf[T any]() Access {
	return Access{Writes: []reflect.Type{reflect.TypeFor[T]()}}
}

// systemField is implemented by the Query and Singleton types the Scheduler binds.
type systemField interface {
	Init(storage *Storage)
	access(readOnly bool) Access
}

// prefetcher is implemented by fields that build per-frame caches before the system runs.
type prefetcher interface {
	Execute()
}
