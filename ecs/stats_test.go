package ecs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorageStats(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[int](registry)
	RegisterComponent[string](registry)
	RegisterComponent[float64](registry)

	storage := NewStorage(registry)

	stats := storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)
	assert.Equal(t, 0, stats.SingletonCount)

	storage.Spawn(42, "hello")
	storage.Spawn(100, "world")
	storage.Spawn(200.0, "test")

	NewSingleton[float64](storage, 3.14)
	NewSingleton[string](storage, "singleton")

	stats = storage.CollectStats()

	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 2, stats.SingletonCount)
	assert.Equal(t, []string{"float64", "string"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 2)
	assert.Equal(t, 2, stats.ArchetypeBreakdown[0].EntityCount)
	assert.Equal(t, "int, string", stats.ArchetypeBreakdown[0].Label())
	assert.Equal(t, 1, stats.ArchetypeBreakdown[1].EntityCount)
	assert.Equal(t, "float64, string", stats.ArchetypeBreakdown[1].Label())
}

type TestSystem struct {
	executeCount int
	sleepDur     time.Duration
}

func (s *TestSystem) Execute(frame *UpdateFrame) {
	s.executeCount++
	if s.sleepDur > 0 {
		time.Sleep(s.sleepDur)
	}
}

func TestSchedulerStats(t *testing.T) {
	registry := NewComponentRegistry()
	storage := NewStorage(registry)
	scheduler := NewScheduler(storage)

	stats := scheduler.GetStats()
	assert.Equal(t, 0, stats.SystemCount)
	assert.Equal(t, int64(0), stats.TotalExecutions)

	sys1 := &TestSystem{sleepDur: 1 * time.Millisecond}
	sys2 := &TestSystem{sleepDur: 2 * time.Millisecond}
	scheduler.Register(DefaultPhase, sys1)
	scheduler.Register(DefaultPhase, sys2)

	stats = scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)

	scheduler.Once(0.016)
	scheduler.Once(0.016)
	scheduler.Once(0.016)

	stats = scheduler.GetStats()

	assert.Equal(t, int64(6), stats.TotalExecutions, "2 systems * 3 runs")
	require.Len(t, stats.Systems, 2)

	for _, sysStats := range stats.Systems {
		assert.Equal(t, "TestSystem", sysStats.Name)
		assert.Equal(t, DefaultPhase, sysStats.Phase)
		assert.Equal(t, int64(3), sysStats.ExecutionCount)
		assert.NotZero(t, sysStats.MinDuration)
		assert.NotZero(t, sysStats.MaxDuration)
		assert.NotZero(t, sysStats.AvgDuration)
		assert.NotZero(t, sysStats.LastDuration)
		assert.NotZero(t, sysStats.TotalDuration)
		assert.LessOrEqual(t, sysStats.MinDuration, sysStats.AvgDuration)
		assert.LessOrEqual(t, sysStats.AvgDuration, sysStats.MaxDuration)
	}

	assert.Equal(t, 3, sys1.executeCount)
	assert.Equal(t, 3, sys2.executeCount)
}

func TestArchetypeHashCollisionProbe(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[int](registry)
	RegisterComponent[string](registry)
	storage := NewStorage(registry)

	ints := extractComponentTypes([]any{1})
	strs := extractComponentTypes([]any{"s"})

	// Force the string archetype onto the id the int archetype will hash to.
	intID := hashTypesToUint32(ints)
	storage.archetypes[intID] = NewArchetype(intID, strs, registry)
	storage.ordered = append(storage.ordered, storage.archetypes[intID])

	archetype := storage.archetypeFor(ints)
	assert.Equal(t, intID+1, archetype.ID())
	assert.Equal(t, ints, archetype.Types())
}
