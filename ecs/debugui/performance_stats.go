package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/pipeline"
)

func NewPerformanceStatsComponent(historyFrames int) *PerformanceStatsComponent {
	return &PerformanceStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

// FilterStage limits the system table to one stage; nil shows every stage.
func (ps *PerformanceStatsComponent) FilterStage(stage *int) {
	ps.stageFilter = stage
}

// record stores one frame time in milliseconds and returns the rolling average.
func (ps *PerformanceStatsComponent) record(deltaTime float32) float32 {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames

	var avgFrameTime float32
	for _, ft := range ps.frameHistory {
		avgFrameTime += ft
	}
	return avgFrameTime / float32(ps.historyFrames)
}

func (ps *PerformanceStatsComponent) Render(ctx *ecs.Context, exec *pipeline.Executor, deltaTime float32) {
	if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avgFrameTime := ps.record(deltaTime)
	stats := ctx.Components.CollectStats()

	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Components: %d (%d types)", stats.ComponentCount, stats.TypeCount))
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if exec != nil && imgui.TreeNodeStr("System Timings") {
		ps.renderSystems(exec.Stats())
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Component Types") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("TypeStatsTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Type")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entities")
			imgui.TableHeadersRow()

			for _, ts := range stats.TypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(ts.Type)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", ts.ComponentCount))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", ts.EntityCount))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singleton Details") {
		for _, singletonType := range ctx.SingletonTypes() {
			imgui.BulletText(singletonType)
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (ps *PerformanceStatsComponent) renderSystems(stats *pipeline.ExecutorStats) {
	imgui.Text(fmt.Sprintf("Frames: %d (%d aborted)", stats.Frames, stats.FailedFrames))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if !imgui.BeginTableV("SystemStatsTable", 6, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}
	imgui.TableSetupColumn("System")
	imgui.TableSetupColumn("Stage")
	imgui.TableSetupColumn("Runs")
	imgui.TableSetupColumn("Failures")
	imgui.TableSetupColumn("Avg")
	imgui.TableSetupColumn("Max")
	imgui.TableHeadersRow()

	for _, s := range filterSystems(stats.Systems, ps.stageFilter) {
		imgui.TableNextRow()
		imgui.TableNextColumn()
		imgui.Text(s.Name)
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%d", s.Stage))
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))
		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%d", s.FailureCount))
		imgui.TableNextColumn()
		imgui.Text(formatDuration(s.AvgDuration))
		imgui.TableNextColumn()
		imgui.Text(formatDuration(s.MaxDuration))
	}

	imgui.EndTable()
}

func filterSystems(systems []pipeline.SystemStats, stage *int) []pipeline.SystemStats {
	if stage == nil {
		return systems
	}
	filtered := make([]pipeline.SystemStats, 0, len(systems))
	for _, s := range systems {
		if s.Stage == *stage {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
