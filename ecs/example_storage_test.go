package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/caffeinated/ecs"
)

// ExampleStorage demonstrates the basic API for managing entities and components.
// Storage is the core container for all entities and their component data.
// Components are organized by archetype - entities with the same component types
// share the same archetype for efficient memory layout and iteration.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry)

	player := storage.Spawn(
		Position{X: 10, Y: 20},
		Velocity{DX: 1, DY: 0},
		Health{Current: 100, Max: 100},
	)

	pos := ecs.ReadComponent[Position](storage, player)
	fmt.Printf("Player spawned at (%.0f, %.0f)\n", pos.X, pos.Y)

	pos.X = 15
	pos.Y = 25
	fmt.Printf("Player moved to (%.0f, %.0f)\n", pos.X, pos.Y)

	storage.Delete(player)
	fmt.Println("Player alive:", storage.Alive(player))

	// Output:
	// Player spawned at (10, 20)
	// Player moved to (15, 25)
	// Player alive: false
}

// ExampleStorage_Insert shows how an entity moves between archetypes when
// components are added or removed. The entity id never changes.
func ExampleStorage_Insert() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry)

	entity := storage.Spawn(Position{X: 0, Y: 0})

	hasVel := storage.HasComponent(entity, reflect.TypeFor[Velocity]())
	fmt.Printf("Has velocity: %v\n", hasVel)

	storage.Insert(entity, Velocity{DX: 5, DY: 3})
	vel := ecs.ReadComponent[Velocity](storage, entity)
	fmt.Printf("Has velocity: %v (%.0f, %.0f)\n", vel != nil, vel.DX, vel.DY)

	storage.Insert(entity, Health{Current: 50, Max: 50})
	health := ecs.ReadComponent[Health](storage, entity)
	fmt.Printf("Has health: %v (%d/%d)\n", health != nil, health.Current, health.Max)

	ecs.RemoveComponent[Velocity](storage, entity)
	hasVel = storage.HasComponent(entity, reflect.TypeFor[Velocity]())
	fmt.Printf("Has velocity: %v\n", hasVel)

	// Output:
	// Has velocity: false
	// Has velocity: true (5, 3)
	// Has health: true (50/50)
	// Has velocity: false
}

// ExampleStorage_Compact demonstrates archetype compaction to reclaim memory.
// When entities are deleted, they leave gaps in the archetype's component arrays.
// Compaction moves entities to fill these gaps; entity ids stay valid.
func ExampleStorage_Compact() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry)

	entities := make([]ecs.Entity, 5)
	for i := range 5 {
		entities[i] = storage.Spawn(
			Position{X: float32(i * 10), Y: 0},
			Health{Current: 100, Max: 100},
		)
	}

	storage.Delete(entities[1])
	storage.Delete(entities[3])
	storage.Compact()

	view := ecs.NewView[struct {
		*Position
		*Health
	}](storage)

	for _, item := range view.Iter() {
		fmt.Printf("Position: (%.0f, %.0f)\n", item.Position.X, item.Position.Y)
	}

	last := ecs.ReadComponent[Position](storage, entities[4])
	fmt.Printf("Last entity still at x=%.0f\n", last.X)

	// Output:
	// Position: (0, 0)
	// Position: (20, 0)
	// Position: (40, 0)
	// Last entity still at x=40
}
