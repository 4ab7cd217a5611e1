package debugui

import (
	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/pipeline"
)

// DebugWindowsSystem renders every spawned debug window. Rendering is
// deferred to the stage barrier so the system can share a stage with other
// UI producers.
type DebugWindowsSystem struct {
	Browsers   ecs.Query[struct{ *EntityBrowserComponent }]
	Inspectors ecs.Query[struct{ *ComponentInspectorComponent }]
	Viewers    ecs.Query[struct{ *PipelineViewerComponent }]
	Stats      ecs.Query[struct{ *PerformanceStatsComponent }]
	Queries    ecs.Query[struct{ *QueryDebuggerComponent }]
	Pipeline   ecs.Singleton[PipelineSource]
}

func (s *DebugWindowsSystem) Process(frame *pipeline.Frame) error {
	ctx := frame.Context
	dt := float32(frame.DeltaTime)

	var exec *pipeline.Executor
	if src := s.Pipeline.Get(); src != nil {
		exec = src.Executor
	}

	frame.Commands.Defer(func() {
		s.render(ctx, exec, dt)
	})
	return nil
}

// Declare returns the declaration of a DebugWindowsSystem.
func (s *DebugWindowsSystem) Declare() *pipeline.Declaration {
	return pipeline.Declare(s).
		Parallel().
		Requires(ResourceUI, StateUIOpen).
		Produces(ResourceUI, StateUISubmitted)
}

func (s *DebugWindowsSystem) render(ctx *ecs.Context, exec *pipeline.Executor, dt float32) {
	var selected ecs.Entity
	var browsers []*EntityBrowserComponent
	for item := range s.Browsers.Values() {
		item.EntityBrowserComponent.Render(ctx)
		selected = item.EntityBrowserComponent.SelectedEntity()
		browsers = append(browsers, item.EntityBrowserComponent)
	}

	for item := range s.Inspectors.Values() {
		item.ComponentInspectorComponent.Render(ctx.Components, selected)
	}

	for item := range s.Queries.Values() {
		if typeName := item.QueryDebuggerComponent.Render(ctx); typeName != "" {
			for _, b := range browsers {
				b.FilterByType(typeName)
			}
		}
	}

	var stage *int
	if exec != nil {
		for item := range s.Viewers.Values() {
			if clicked := item.PipelineViewerComponent.Render(exec); clicked != nil {
				stage = clicked
			}
		}
	}

	for item := range s.Stats.Values() {
		if stage != nil {
			item.PerformanceStatsComponent.FilterStage(stage)
		}
		item.PerformanceStatsComponent.Render(ctx, exec, dt)
	}
}
