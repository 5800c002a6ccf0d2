package ecs_test

import (
	"reflect"
	"slices"
	"testing"

	"github.com/plus3/caffeinated/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(&Position{X: 1.0, Y: 2.0}, &Velocity{DX: 0.5, DY: 0.5}, Score(32))
	second := storage.Spawn(Position{X: 3.0, Y: 4.0})

	assert.True(t, first.Valid())
	assert.Equal(t, ecs.Entity(1), first)
	assert.Equal(t, ecs.Entity(2), second)
	assert.Equal(t, 2, storage.EntityCount())
}

func TestSpawnPanics(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { storage.Spawn() })
	assert.Panics(t, func() { storage.Spawn(Position{}, Position{}) })
	assert.Panics(t, func() { storage.Spawn(uint8(3)) }, "unregistered type")
}

func TestGetComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(&Position{X: 3.0, Y: 4.0}, Name{Value: "Test Entity"})

	pos, ok := storage.GetComponent(id, reflect.TypeFor[Position]()).(*Position)
	require.True(t, ok)
	assert.Equal(t, float32(3.0), pos.X)
	assert.Equal(t, float32(4.0), pos.Y)

	name := ecs.ReadComponent[Name](storage, id)
	require.NotNil(t, name)
	assert.Equal(t, "Test Entity", name.Value)

	assert.Nil(t, storage.GetComponent(id, reflect.TypeFor[Velocity]()))
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
	assert.Nil(t, ecs.ReadComponent[Position](storage, ecs.Entity(999)))
}

func TestComponentPointersSurviveGrowth(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	first := storage.Spawn(Position{X: 7})
	pos := ecs.ReadComponent[Position](storage, first)

	for i := range 500 {
		storage.Spawn(Position{X: float32(i)})
	}

	pos.X = 42
	assert.Equal(t, float32(42), ecs.ReadComponent[Position](storage, first).X)
}

func TestDeleteEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	other := storage.Spawn(Position{X: 2}, Velocity{DX: 2})

	assert.True(t, storage.Delete(id))
	assert.False(t, storage.Alive(id))
	assert.False(t, storage.Delete(id), "second delete is a no-op")
	assert.True(t, storage.Alive(other))
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, other).X)

	// ids are never reused
	next := storage.Spawn(Position{X: 3}, Velocity{DX: 3})
	assert.NotEqual(t, id, next)
	assert.Nil(t, ecs.ReadComponent[Position](storage, id))
}

func TestInsertReplacesInPlace(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1}, Health{Current: 5, Max: 10})
	before := ecs.ReadComponent[Position](storage, id)

	require.True(t, storage.Insert(id, Position{X: 9, Y: 9}))

	after := ecs.ReadComponent[Position](storage, id)
	assert.Same(t, before, after)
	assert.Equal(t, Position{X: 9, Y: 9}, *after)
	assert.Len(t, storage.Archetypes(), 1)
}

func TestInsertMovesArchetype(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1, Y: 2})
	require.True(t, storage.Insert(id, Velocity{DX: 3}))

	assert.Equal(t, Position{X: 1, Y: 2}, *ecs.ReadComponent[Position](storage, id))
	assert.Equal(t, float32(3), ecs.ReadComponent[Velocity](storage, id).DX)
	assert.Len(t, storage.Archetypes(), 2)

	archetype := storage.GetArchetype(reflect.TypeFor[Position]())
	require.NotNil(t, archetype)
	assert.Equal(t, 0, archetype.Len())

	assert.False(t, storage.Insert(ecs.Entity(12345), Velocity{}))
}

func TestRemoveComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Position{X: 1}, Velocity{DX: 1})

	assert.True(t, ecs.RemoveComponent[Velocity](storage, id))
	assert.False(t, storage.HasComponent(id, reflect.TypeFor[Velocity]()))
	assert.True(t, storage.HasComponent(id, reflect.TypeFor[Position]()))
	assert.False(t, ecs.RemoveComponent[Velocity](storage, id))

	assert.True(t, ecs.RemoveComponent[Position](storage, id))
	assert.False(t, storage.Alive(id), "removing the last component destroys the entity")
}

func TestPrimitiveComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	id := storage.Spawn(Score(10), Tag("player"), Temperature(21.5))

	assert.Equal(t, Score(10), *ecs.ReadComponent[Score](storage, id))
	assert.Equal(t, Tag("player"), *ecs.ReadComponent[Tag](storage, id))
	assert.Equal(t, Temperature(21.5), *ecs.ReadComponent[Temperature](storage, id))
}

func TestMatch(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	a := storage.Spawn(Position{}, Velocity{})
	b := storage.Spawn(Position{}, Velocity{}, Health{})
	c := storage.Spawn(Position{})
	d := storage.Spawn(Velocity{}, Health{})

	tests := []struct {
		name  string
		types []reflect.Type
		want  []ecs.Entity
	}{
		{"position", []reflect.Type{reflect.TypeFor[Position]()}, []ecs.Entity{a, b, c}},
		{"position and velocity", []reflect.Type{reflect.TypeFor[Position](), reflect.TypeFor[Velocity]()}, []ecs.Entity{a, b}},
		{"velocity and health", []reflect.Type{reflect.TypeFor[Velocity](), reflect.TypeFor[Health]()}, []ecs.Entity{b, d}},
		{"all three", []reflect.Type{reflect.TypeFor[Position](), reflect.TypeFor[Velocity](), reflect.TypeFor[Health]()}, []ecs.Entity{b}},
		{"none hold name", []reflect.Type{reflect.TypeFor[Name]()}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(storage.Match(tt.types...))
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestMatchStableWithinCall(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 100 {
		if i%2 == 0 {
			storage.Spawn(Position{X: float32(i)}, Velocity{})
		} else {
			storage.Spawn(Position{X: float32(i)})
		}
	}

	first := slices.Collect(storage.Match(reflect.TypeFor[Position]()))
	second := slices.Collect(storage.Match(reflect.TypeFor[Position]()))
	assert.Equal(t, first, second)
	assert.Len(t, first, 100)
}

func TestCompactKeepsEntityIds(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.Entity, 10)
	for i := range ids {
		ids[i] = storage.Spawn(Position{X: float32(i)})
	}
	for i := 0; i < 10; i += 3 {
		storage.Delete(ids[i])
	}

	storage.Compact()

	for i, id := range ids {
		if i%3 == 0 {
			assert.False(t, storage.Alive(id))
			continue
		}
		pos := ecs.ReadComponent[Position](storage, id)
		require.NotNil(t, pos, "entity %d", i)
		assert.Equal(t, float32(i), pos.X)
	}
}

func TestPointerFieldComponents(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	target := &Position{X: 5}
	id := storage.Spawn(AIPointer{Target: target}, Inventory{Items: []string{"key"}})

	ai := ecs.ReadComponent[AIPointer](storage, id)
	require.NotNil(t, ai)
	assert.Same(t, target, ai.Target)
	assert.Equal(t, []string{"key"}, ecs.ReadComponent[Inventory](storage, id).Items)
}

func TestSingletonOverwrite(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	accessor := ecs.NewSingleton[Health](storage, Health{Current: 1})
	storage.AddSingleton(Health{Current: 2})

	assert.Equal(t, 2, accessor.Get().Current)
	assert.Equal(t, []string{"ecs_test.Health"}, storage.SingletonTypes())
}

type stringer interface{ String() string }

func TestSingletonInterfaceType(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	accessor := ecs.NewSingleton[stringer](storage)
	require.True(t, accessor.Exists())
	assert.Nil(t, *accessor.Get())
}
