package main

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"text/template"
	"time"

	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/pipeline"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	Systems  int
	Stages   int
	Workers  int
	Layout   string

	// Results
	TotalUpdates   int64
	FrameErrors    int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Executor       *pipeline.ExecutorStats
	Directory      *ecs.DirectoryStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// slowest returns up to n systems with the highest average duration.
func slowest(stats *pipeline.ExecutorStats, n int) []pipeline.SystemStats {
	if stats == nil {
		return nil
	}
	systems := append([]pipeline.SystemStats(nil), stats.Systems...)
	sort.SliceStable(systems, func(i, j int) bool {
		return systems[i].AvgDuration > systems[j].AvgDuration
	})
	return systems[:min(n, len(systems))]
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Frame Pipeline Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Systems:** {{.Systems}}
- **Stages:** {{.Stages}}
- **Workers:** {{.Workers}}

## Stage Layout
` + "```" + `
{{.Layout}}` + "```" + `

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Aborted Frames:** {{.FrameErrors}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{with .Executor}}
## Slowest Systems
| System | Stage | Runs | Avg | Max |
|---|---|---|---|---|
{{range slowest . 10}}| {{.Name}} | {{.Stage}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{end}}{{end}}
{{with .Directory}}
## Directory
- **Entities:** {{.EntityCount}}
- **Components:** {{.ComponentCount}} ({{.TypeCount}} types)
{{range .TypeBreakdown}}  - {{.Type}}: {{.ComponentCount}} on {{.EntityCount}} entities
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"slowest": slowest,
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
