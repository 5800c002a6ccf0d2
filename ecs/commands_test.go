package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/caffeinated/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commandSystem struct {
	fn func(frame *ecs.UpdateFrame)
}

func (s *commandSystem) Execute(frame *ecs.UpdateFrame) {
	s.fn(frame)
}

func runCommands(t *testing.T, storage *ecs.Storage, fn func(frame *ecs.UpdateFrame)) {
	t.Helper()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.DefaultPhase, &commandSystem{fn: fn})
	scheduler.Once(0)
}

func TestCommandsDeferredUntilFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	runCommands(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Position{X: 1})
		frame.Commands.Spawn(Position{X: 2})
		assert.Equal(t, 0, frame.Storage.EntityCount())
		assert.Equal(t, 2, frame.Commands.Len())
	})

	assert.Equal(t, 2, storage.EntityCount())
}

func TestCommandsInsertAndRemove(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 1})

	runCommands(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.Insert(id, Health{Current: 7, Max: 7})
		frame.Commands.Insert(id, Position{X: 5})
		frame.Commands.Remove(id, reflect.TypeFor[Velocity]())
	})

	assert.Equal(t, float32(5), ecs.ReadComponent[Position](storage, id).X)
	assert.Equal(t, 7, ecs.ReadComponent[Health](storage, id).Current)
	assert.Nil(t, ecs.ReadComponent[Velocity](storage, id))
}

func TestCommandsDeleteWins(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	runCommands(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.Insert(id, Velocity{DX: 1})
		frame.Commands.Delete(id)
	})

	assert.False(t, storage.Alive(id))
	assert.Equal(t, 0, storage.EntityCount())
}

func TestCommandsSpawnThenAndDefer(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var spawned ecs.Entity
	var order []string
	runCommands(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.Defer(func() {
			order = append(order, "defer")
			assert.True(t, frame.Storage.Alive(spawned))
		})
		frame.Commands.SpawnThen(func(e ecs.Entity) {
			order = append(order, "spawn")
			spawned = e
		}, Name{Value: "late"})
	})

	require.True(t, spawned.Valid())
	assert.Equal(t, []string{"spawn", "defer"}, order)
	assert.Equal(t, "late", ecs.ReadComponent[Name](storage, spawned).Value)
}

func TestCommandsBufferResetAfterFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	calls := 0
	system := &commandSystem{fn: func(frame *ecs.UpdateFrame) {
		calls++
		if calls == 1 {
			frame.Commands.Spawn(Position{})
		}
		assert.Equal(t, calls-1, frame.Storage.EntityCount())
		if calls > 1 {
			assert.Equal(t, 0, frame.Commands.Len())
		}
	}}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(ecs.DefaultPhase, system)
	scheduler.Once(0)
	scheduler.Once(0)

	assert.Equal(t, 1, storage.EntityCount())
}
