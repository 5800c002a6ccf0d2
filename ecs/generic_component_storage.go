package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry manages component type registration for a World.
// Each Storage instance has its own ComponentRegistry, so a main menu world and a
// playing world can register different component sets without interference.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be stored.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const (
	genericBlockSize = 64
)

// genericComponentStorage stores components of type T in fixed-size blocks.
// Blocks are allocated individually, so a pointer handed out by Get stays valid
// when later blocks are appended.
type genericComponentStorage[T any] struct {
	blocks    []*[genericBlockSize]T
	filled    []*[genericBlockSize]bool
	freeSlots []int
	nextIndex int
	count     int
}

func (cs *genericComponentStorage[T]) convert(item any) (T, bool) {
	if ptr, ok := item.(*T); ok && ptr != nil {
		return *ptr, true
	}
	if val, ok := item.(T); ok {
		return val, true
	}
	var zero T
	return zero, false
}

func (cs *genericComponentStorage[T]) slot(index int) (block, slot int, ok bool) {
	if index < 0 {
		return 0, 0, false
	}
	block, slot = index/genericBlockSize, index%genericBlockSize
	return block, slot, block < len(cs.blocks)
}

// Append adds a component to storage and returns its index, or -1 for a value of the wrong type.
func (cs *genericComponentStorage[T]) Append(item any) int {
	value, ok := cs.convert(item)
	if !ok {
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
		if index/genericBlockSize >= len(cs.blocks) {
			cs.blocks = append(cs.blocks, new([genericBlockSize]T))
			cs.filled = append(cs.filled, new([genericBlockSize]bool))
		}
	}

	block, slot := index/genericBlockSize, index%genericBlockSize
	cs.blocks[block][slot] = value
	cs.filled[block][slot] = true
	cs.count++
	return index
}

// Set overwrites the component at an occupied index.
func (cs *genericComponentStorage[T]) Set(index int, item any) bool {
	block, slot, ok := cs.slot(index)
	if !ok || !cs.filled[block][slot] {
		return false
	}
	value, ok := cs.convert(item)
	if !ok {
		return false
	}
	cs.blocks[block][slot] = value
	return true
}

// Get returns a pointer to the component at the given index.
func (cs *genericComponentStorage[T]) Get(index int) any {
	block, slot, ok := cs.slot(index)
	if !ok || !cs.filled[block][slot] {
		return nil
	}
	return &cs.blocks[block][slot]
}

// Delete marks a component slot as empty.
func (cs *genericComponentStorage[T]) Delete(index int) {
	block, slot, ok := cs.slot(index)
	if !ok || !cs.filled[block][slot] {
		return
	}

	var zero T
	cs.filled[block][slot] = false
	cs.blocks[block][slot] = zero
	cs.freeSlots = append(cs.freeSlots, index)
	cs.count--
}

// Has checks if a component exists at the given index.
func (cs *genericComponentStorage[T]) Has(index int) bool {
	block, slot, ok := cs.slot(index)
	return ok && cs.filled[block][slot]
}

// Len returns the number of occupied slots.
func (cs *genericComponentStorage[T]) Len() int {
	return cs.count
}

// Compact moves occupied slots to the front and returns the old -> new index mapping.
func (cs *genericComponentStorage[T]) Compact() map[int]int {
	indexMap := make(map[int]int, cs.count)
	if cs.count == 0 {
		cs.blocks, cs.filled = nil, nil
		cs.freeSlots = nil
		cs.nextIndex = 0
		return indexMap
	}

	numBlocks := (cs.count + genericBlockSize - 1) / genericBlockSize
	blocks := make([]*[genericBlockSize]T, numBlocks)
	filled := make([]*[genericBlockSize]bool, numBlocks)
	for i := range blocks {
		blocks[i] = new([genericBlockSize]T)
		filled[i] = new([genericBlockSize]bool)
	}

	writePos := 0
	for readIdx := range cs.Iter() {
		rb, rs := readIdx/genericBlockSize, readIdx%genericBlockSize
		wb, ws := writePos/genericBlockSize, writePos%genericBlockSize

		blocks[wb][ws] = cs.blocks[rb][rs]
		filled[wb][ws] = true
		indexMap[readIdx] = writePos
		writePos++
	}

	cs.blocks = blocks
	cs.filled = filled
	cs.freeSlots = nil
	cs.nextIndex = writePos
	return indexMap
}

// Iter yields every occupied index in ascending order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			block, slot := i/genericBlockSize, i%genericBlockSize
			if block >= len(cs.filled) {
				return
			}
			if cs.filled[block][slot] {
				if !yield(i) {
					return
				}
			}
		}
	}
}
