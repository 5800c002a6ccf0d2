package ecs

import "reflect"

// Commands provides a buffer for deferred ECS operations that are executed at the end of a phase.
// This prevents structural changes to the ECS storage during system execution.
type Commands struct {
	spawns  []spawnCommand
	deletes []Entity
	inserts []insertCommand
	removes []removeCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
	done       func(Entity)
}

type insertCommand struct {
	entity    Entity
	component any
}

type removeCommand struct {
	entity   Entity
	compType reflect.Type
}

// Defer queues a function to run after all structural changes of the buffer are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// SpawnThen queues a spawn and calls done with the new entity once it exists.
func (c *Commands) SpawnThen(done func(Entity), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, done: done})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity Entity) {
	c.deletes = append(c.deletes, entity)
}

// Insert queues adding or replacing a component on an entity.
func (c *Commands) Insert(entity Entity, component any) {
	c.inserts = append(c.inserts, insertCommand{
		entity:    entity,
		component: component,
	})
}

// Remove queues a component removal operation.
func (c *Commands) Remove(entity Entity, compType reflect.Type) {
	c.removes = append(c.removes, removeCommand{
		entity:   entity,
		compType: compType,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.deletes) + len(c.inserts) + len(c.removes) + len(c.defers)
}

// Flush flushes all commands to the provided storage, resetting the buffer state.
// Deletes apply first, then removals, inserts, spawns and finally deferred functions.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[Entity]bool, len(c.deletes))

	for _, entity := range c.deletes {
		storage.Delete(entity)
		deleted[entity] = true
	}

	for _, cmd := range c.removes {
		if !deleted[cmd.entity] {
			storage.Remove(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.inserts {
		if !deleted[cmd.entity] {
			storage.Insert(cmd.entity, cmd.component)
		}
	}

	for _, cmd := range c.spawns {
		entity := storage.Spawn(cmd.components...)
		if cmd.done != nil {
			cmd.done(entity)
		}
	}

	defers := c.defers
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.inserts = c.inserts[:0]
	c.removes = c.removes[:0]
	c.defers = nil

	for _, fn := range defers {
		fn()
	}
}
