package ecs

import "unsafe"

// iface mirrors the runtime layout of an interface value so component pointers
// can be extracted without reflection in the iteration hot path.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// dataPointer returns the data word of an interface holding a pointer.
func dataPointer(v any) unsafe.Pointer {
	return (*iface)(unsafe.Pointer(&v)).data
}
