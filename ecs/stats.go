package ecs

import "sort"

// DirectoryStats is a point-in-time summary of a Directory.
type DirectoryStats struct {
	EntityCount    int
	ComponentCount int
	TypeCount      int
	TypeBreakdown  []TypeStats
}

// TypeStats summarises one component type.
type TypeStats struct {
	Type           string
	ComponentCount int
	EntityCount    int
}

// CollectStats gathers entity and component counts. The breakdown is sorted
// by component count, largest first.
func (d *Directory) CollectStats() *DirectoryStats {
	stats := &DirectoryStats{
		EntityCount:    d.entities.Len(),
		ComponentCount: d.count,
	}

	var owners []Entity
	for _, t := range d.Types() {
		owners = d.EntitiesWith(t, owners[:0])
		stats.TypeBreakdown = append(stats.TypeBreakdown, TypeStats{
			Type:           t.String(),
			ComponentCount: len(d.byType[t]),
			EntityCount:    len(owners),
		})
	}
	stats.TypeCount = len(stats.TypeBreakdown)

	sort.SliceStable(stats.TypeBreakdown, func(i, j int) bool {
		return stats.TypeBreakdown[i].ComponentCount > stats.TypeBreakdown[j].ComponentCount
	})
	return stats
}
