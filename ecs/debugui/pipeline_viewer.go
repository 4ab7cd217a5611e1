package debugui

import (
	"fmt"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/framecore/ecs/pipeline"
)

type StageInfo struct {
	Index    int
	Layer    int
	Parallel bool
	Systems  []string
	AvgTime  time.Duration
}

type PipelineViewerCache struct {
	plan   *pipeline.Plan
	stages []StageInfo
}

func NewPipelineViewerComponent() *PipelineViewerComponent {
	return &PipelineViewerComponent{
		cache: &PipelineViewerCache{},
	}
}

// Render draws the stage table and the resource state graph of the executor's
// active plan. It returns the stage clicked this frame, if any.
func (pv *PipelineViewerComponent) Render(exec *pipeline.Executor) *int {
	if !imgui.BeginV("Pipeline Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return nil
	}

	pv.refresh(exec)

	var maxAvg time.Duration
	for _, s := range pv.cache.stages {
		maxAvg = max(maxAvg, s.AvgTime)
	}

	var clickedStage *int

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("StageTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Stage")
		imgui.TableSetupColumn("Layer")
		imgui.TableSetupColumn("Systems")
		imgui.TableSetupColumn("Avg Time")
		imgui.TableHeadersRow()

		for _, stage := range pv.cache.stages {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := pv.selectedStage != nil && *pv.selectedStage == stage.Index
			if imgui.SelectableBoolV(fmt.Sprintf("%d", stage.Index), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				index := stage.Index
				clickedStage = &index
				pv.selectedStage = &index
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", stage.Layer))

			imgui.TableNextColumn()
			systems := strings.Join(stage.Systems, ", ")
			if stage.Parallel && len(stage.Systems) > 1 {
				systems += " (parallel)"
			}
			imgui.Text(systems)

			imgui.TableNextColumn()
			imgui.Text(formatDuration(stage.AvgTime))

			if maxAvg > 0 {
				barWidth := float32(stage.AvgTime) / float32(maxAvg) * 80.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}
		}

		imgui.EndTable()
	}

	if imgui.TreeNodeStr("Resource States") {
		graph := exec.Plan().Graph()
		for _, resource := range graph.Resources() {
			if !imgui.TreeNodeStr(resource) {
				continue
			}
			for _, state := range graph.States(resource) {
				rs := pipeline.ResourceState{Resource: resource, State: state}
				imgui.BulletText(fmt.Sprintf("%s: produced by [%s], consumed by [%s]",
					state,
					strings.Join(graph.Producers(rs), ", "),
					strings.Join(graph.Consumers(rs), ", ")))
			}
			imgui.TreePop()
		}
		imgui.TreePop()
	}

	imgui.End()
	return clickedStage
}

// refresh rebuilds the stage rows when the plan changes and updates timings
// every frame.
func (pv *PipelineViewerComponent) refresh(exec *pipeline.Executor) {
	plan := exec.Plan()
	if pv.cache.plan != plan {
		pv.cache.plan = plan
		pv.cache.stages = stageRows(plan)
		pv.selectedStage = nil
	}
	updateStageTimings(pv.cache.stages, exec.Stats())
}

func stageRows(plan *pipeline.Plan) []StageInfo {
	stages := plan.Stages()
	rows := make([]StageInfo, len(stages))
	for i, s := range stages {
		rows[i] = StageInfo{
			Index:    s.Index,
			Layer:    s.Layer,
			Parallel: s.Parallel,
			Systems:  s.Systems,
		}
	}
	return rows
}

// updateStageTimings sets each stage's average time. Parallel members overlap,
// so a stage costs as much as its slowest member.
func updateStageTimings(rows []StageInfo, stats *pipeline.ExecutorStats) {
	for i := range rows {
		rows[i].AvgTime = 0
	}
	for _, s := range stats.Systems {
		if s.Stage < 0 || s.Stage >= len(rows) {
			continue
		}
		row := &rows[s.Stage]
		if row.Parallel {
			row.AvgTime = max(row.AvgTime, s.AvgDuration)
		} else {
			row.AvgTime += s.AvgDuration
		}
	}
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3f ms", float64(d.Microseconds())/1000.0)
}
