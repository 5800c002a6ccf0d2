package ecs

import (
	"sort"
	"strings"
)

// StorageStats is a point-in-time summary of a Storage.
type StorageStats struct {
	ArchetypeCount     int
	TotalEntityCount   int
	SingletonCount     int
	ArchetypeBreakdown []ArchetypeStats
	SingletonTypes     []string
}

// ArchetypeStats describes one archetype.
type ArchetypeStats struct {
	ID             uint32
	ComponentTypes []string
	EntityCount    int
}

// Label joins the archetype's component type names.
func (a ArchetypeStats) Label() string {
	return strings.Join(a.ComponentTypes, ", ")
}

// CollectStats gathers statistics about the storage.
// Archetypes are listed by descending entity count, then ID.
func (s *Storage) CollectStats() *StorageStats {
	stats := &StorageStats{
		ArchetypeCount:     len(s.ordered),
		TotalEntityCount:   s.EntityCount(),
		SingletonCount:     len(s.singletons),
		ArchetypeBreakdown: make([]ArchetypeStats, 0, len(s.ordered)),
		SingletonTypes:     s.SingletonTypes(),
	}

	for _, archetype := range s.ordered {
		names := make([]string, len(archetype.types))
		for i, t := range archetype.types {
			names[i] = t.String()
		}
		stats.ArchetypeBreakdown = append(stats.ArchetypeBreakdown, ArchetypeStats{
			ID:             archetype.id,
			ComponentTypes: names,
			EntityCount:    archetype.Len(),
		})
	}

	sort.SliceStable(stats.ArchetypeBreakdown, func(i, j int) bool {
		return stats.ArchetypeBreakdown[i].EntityCount > stats.ArchetypeBreakdown[j].EntityCount
	})

	return stats
}
