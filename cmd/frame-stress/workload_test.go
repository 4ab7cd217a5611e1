package main

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/pipeline"
)

func TestBuildPipeline(t *testing.T) {
	t.Run("one parallel stage per layer after movement", func(t *testing.T) {
		plan, err := BuildPipeline(13, 4, 1).Build()
		require.NoError(t, err)

		stages := plan.Stages()
		require.Len(t, stages, 5)
		assert.Equal(t, []string{"Movement"}, stages[0].Systems)
		for _, s := range stages[1:] {
			assert.True(t, s.Parallel)
			assert.Len(t, s.Systems, 3)
		}
	})

	t.Run("more layers than systems", func(t *testing.T) {
		plan, err := BuildPipeline(3, 10, 1).Build()
		require.NoError(t, err)
		assert.Equal(t, 3, plan.Len())
	})

	t.Run("movement only", func(t *testing.T) {
		plan, err := BuildPipeline(1, 3, 1).Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"Movement"}, plan.Systems())
	})
}

func TestWorkKind(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3, 1, 3, 1}, []int{
		workKind(0), workKind(1), workKind(2), workKind(3), workKind(4), workKind(5), workKind(6),
	})
}

func TestWorkloadRuns(t *testing.T) {
	ctx := ecs.NewContext()
	rng := rand.New(rand.NewSource(7))
	for range 200 {
		_, err := SpawnRandomEntity(ctx, rng, rng.Intn(5)+1)
		require.NoError(t, err)
	}
	_, err := ctx.Spawn("expiring", &Transform{}, &Lifetime{Remaining: 0.01})
	require.NoError(t, err)

	plan, err := BuildPipeline(12, 3, 7).Build()
	require.NoError(t, err)
	exec := pipeline.NewExecutor(ctx, plan, pipeline.WithWorkers(4))

	for range 20 {
		require.NoError(t, exec.Tick(0.05))
	}

	stats := exec.Stats()
	assert.Equal(t, uint64(20), stats.Frames)
	assert.Equal(t, int64(12*20), stats.TotalExecutions)
}

func TestReportGenerate(t *testing.T) {
	plan, err := BuildPipeline(4, 2, 1).Build()
	require.NoError(t, err)

	stats := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	stats.Finalize()
	assert.Equal(t, time.Millisecond, stats.Min)
	assert.Equal(t, 3*time.Millisecond, stats.Max)
	assert.Equal(t, 2*time.Millisecond, stats.Avg)

	report := &Report{
		Duration:   time.Second,
		Systems:    4,
		Stages:     plan.Len(),
		Layout:     plan.String(),
		UpdateTime: stats,
		Executor: &pipeline.ExecutorStats{Systems: []pipeline.SystemStats{
			{Name: "Fast", AvgDuration: time.Microsecond},
			{Name: "Slow", AvgDuration: time.Millisecond},
		}},
		Directory: &ecs.DirectoryStats{EntityCount: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "stage 0: [Movement]")
	assert.Contains(t, out, "| Slow | 0 | 0 | 1ms | 0s |")
	assert.Contains(t, out, "- **Entities:** 2")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("| Slow")), bytes.Index(buf.Bytes(), []byte("| Fast")))
}
