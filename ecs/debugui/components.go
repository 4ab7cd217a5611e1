package debugui

import (
	"github.com/plus3/framecore/ecs"
)

type EntityBrowserComponent struct {
	cache              *EntityBrowserCache
	selectedEntity     ecs.Entity
	filterText         string
	filterType         string
	maxEntitiesPerPage int
	currentPage        int
}

type ComponentInspectorComponent struct {
	selectedEntity ecs.Entity
}

type PipelineViewerComponent struct {
	cache         *PipelineViewerCache
	selectedStage *int
}

type PerformanceStatsComponent struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
	stageFilter   *int
}

type QueryDebuggerComponent struct {
	selectedComponentTypes map[string]bool
	cache                  *QueryDebuggerCache
}

// directorySignature changes whenever entities or components are added or removed.
type directorySignature struct {
	entities   int
	components int
}

func signatureOf(ctx *ecs.Context) directorySignature {
	return directorySignature{
		entities:   ctx.Entities.Len(),
		components: ctx.Components.Len(),
	}
}
