package debugui

import (
	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/pipeline"
)

// PipelineSource exposes the running executor to the debug windows.
type PipelineSource struct {
	Executor *pipeline.Executor
}

// SpawnDebugUI spawns an entity carrying every debug window. When exec is
// non-nil it is published as the PipelineSource singleton so the pipeline
// viewer and system timings have something to show.
func SpawnDebugUI(ctx *ecs.Context, exec *pipeline.Executor) (ecs.Entity, error) {
	if exec != nil {
		ecs.SetSingleton(ctx, PipelineSource{Executor: exec})
	}
	return ctx.Spawn("debugui",
		NewEntityBrowserComponent(100),
		NewComponentInspectorComponent(),
		NewPipelineViewerComponent(),
		NewPerformanceStatsComponent(120),
		NewQueryDebuggerComponent(),
	)
}
