package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/framecore/ecs/pipeline"
)

// nop returns a named declaration for a system that does nothing.
func nop(name string) *pipeline.Declaration {
	return pipeline.Declare(pipeline.SystemFunc(func(*pipeline.Frame) error { return nil })).Named(name)
}

func deferredRenderer() []*pipeline.Declaration {
	return []*pipeline.Declaration{
		nop("Clear").Produces("GBuffer", "Cleared"),
		nop("Geometry").Parallel().Requires("GBuffer", "Cleared").Produces("GBuffer", "Filled"),
		nop("Lights").Parallel().Requires("GBuffer", "Cleared").Produces("GBuffer", "Filled"),
		nop("Combine").Requires("GBuffer", "Filled").Produces("Frame", "Presented"),
	}
}

func TestCompileDeferredRenderer(t *testing.T) {
	plan, err := pipeline.Compile(deferredRenderer()...)
	require.NoError(t, err)

	stages := plan.Stages()
	require.Len(t, stages, 3)

	assert.Equal(t, []string{"Clear"}, stages[0].Systems)
	assert.Equal(t, []string{"Geometry", "Lights"}, stages[1].Systems)
	assert.True(t, stages[1].Parallel)
	assert.Equal(t, []string{"Combine"}, stages[2].Systems)

	for i, s := range stages {
		assert.Equal(t, i, s.Index)
		assert.Equal(t, i, s.Layer)
	}

	assert.Equal(t, "stage 0: [Clear]\nstage 1: [Geometry, Lights] (parallel)\nstage 2: [Combine]\n", plan.String())
	assert.Equal(t, []string{"Clear", "Geometry", "Lights", "Combine"}, plan.Systems())
	assert.Equal(t, 3, plan.Len())

	stage, ok := plan.StageOf("Lights")
	assert.True(t, ok)
	assert.Equal(t, 1, stage)
	_, ok = plan.StageOf("Missing")
	assert.False(t, ok)
}

func TestCompileSequentialSystemsGetOwnStages(t *testing.T) {
	plan, err := pipeline.Compile(
		nop("Source").Produces("Scene", "Loaded"),
		nop("A").Requires("Scene", "Loaded").Produces("Shadows", "Drawn"),
		nop("B").Requires("Scene", "Loaded").Produces("Sky", "Drawn"),
	)
	require.NoError(t, err)

	stages := plan.Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, []string{"A"}, stages[1].Systems)
	assert.Equal(t, []string{"B"}, stages[2].Systems)
	assert.Equal(t, 1, stages[1].Layer)
	assert.Equal(t, 1, stages[2].Layer)
	assert.False(t, stages[1].Parallel)
}

func TestCompileSequentialSystemsSharingAState(t *testing.T) {
	plan, err := pipeline.Compile(
		nop("Source").Produces("Scene", "Loaded"),
		nop("Decals").Requires("Scene", "Loaded").Produces("Scene", "Decorated"),
		nop("Fog").Requires("Scene", "Loaded").Produces("Scene", "Decorated"),
	)
	require.NoError(t, err)

	assert.Equal(t, "stage 0: [Source]\nstage 1: [Decals]\nstage 2: [Fog]\n", plan.String())
	stages := plan.Stages()
	require.Len(t, stages, 3)
	assert.Equal(t, stages[1].Layer, stages[2].Layer)
	assert.False(t, stages[1].Parallel)
	assert.False(t, stages[2].Parallel)
}

func TestCompileLayering(t *testing.T) {
	t.Run("layer follows the deepest producer", func(t *testing.T) {
		plan, err := pipeline.Compile(
			nop("Late").Requires("A", "Done").Requires("C", "Done"),
			nop("MakeA").Produces("A", "Done"),
			nop("MakeB").Requires("A", "Done").Produces("B", "Done"),
			nop("MakeC").Requires("B", "Done").Produces("C", "Done"),
		)
		require.NoError(t, err)

		for name, want := range map[string]int{"MakeA": 0, "MakeB": 1, "MakeC": 2, "Late": 3} {
			got, ok := plan.StageOf(name)
			require.True(t, ok, name)
			assert.Equal(t, want, got, name)
		}
	})

	t.Run("parallel systems in one layer share a stage", func(t *testing.T) {
		plan, err := pipeline.Compile(
			nop("Culling").Parallel().Produces("Visible", "Computed"),
			nop("Animation").Parallel().Produces("Skins", "Posed"),
			nop("Audio").Parallel(),
		)
		require.NoError(t, err)

		require.Equal(t, 1, plan.Len())
		assert.Equal(t, []string{"Culling", "Animation", "Audio"}, plan.Stages()[0].Systems)
	})

	t.Run("parallel consumer never joins its producer", func(t *testing.T) {
		plan, err := pipeline.Compile(
			nop("Skin").Parallel().Requires("Mesh", "Posed").Produces("Mesh", "Skinned"),
			nop("Pose").Parallel().Produces("Mesh", "Posed"),
			nop("Wind").Parallel().Produces("Foliage", "Swayed"),
		)
		require.NoError(t, err)

		assert.Equal(t, "stage 0: [Pose, Wind] (parallel)\nstage 1: [Skin]\n", plan.String())
	})

	t.Run("sequential systems interleave with parallel groups", func(t *testing.T) {
		plan, err := pipeline.Compile(
			nop("P1").Parallel(),
			nop("S1"),
			nop("P2").Parallel(),
		)
		require.NoError(t, err)

		assert.Equal(t, "stage 0: [P1, P2] (parallel)\nstage 1: [S1]\n", plan.String())
	})

	t.Run("single parallel system", func(t *testing.T) {
		plan, err := pipeline.Compile(nop("Only").Parallel())
		require.NoError(t, err)

		stages := plan.Stages()
		require.Len(t, stages, 1)
		assert.True(t, stages[0].Parallel)
		assert.Equal(t, "stage 0: [Only]\n", plan.String())
	})
}

func TestCompileErrors(t *testing.T) {
	t.Run("unsatisfied dependency", func(t *testing.T) {
		_, err := pipeline.Compile(
			nop("Clear").Produces("GBuffer", "Cleared"),
			nop("Combine").Requires("GBuffer", "Filled"),
		)
		require.ErrorIs(t, err, pipeline.ErrUnsatisfiedDependency)

		var unsatisfied *pipeline.UnsatisfiedDependencyError
		require.True(t, errors.As(err, &unsatisfied))
		assert.Equal(t, "Combine", unsatisfied.System)
		assert.Equal(t, pipeline.ResourceState{Resource: "GBuffer", State: "Filled"}, unsatisfied.Requires)
		assert.EqualError(t, err, `pipeline: system "Combine" requires GBuffer:Filled but no other system produces it`)
	})

	t.Run("own production does not satisfy a requirement", func(t *testing.T) {
		_, err := pipeline.Compile(
			nop("Feedback").Requires("History", "Ready").Produces("History", "Ready"),
		)
		assert.ErrorIs(t, err, pipeline.ErrUnsatisfiedDependency)
	})

	t.Run("every unsatisfied requirement is reported", func(t *testing.T) {
		_, err := pipeline.Compile(
			nop("A").Requires("X", "Ready"),
			nop("B").Requires("Y", "Ready"),
		)
		require.ErrorIs(t, err, pipeline.ErrUnsatisfiedDependency)
		assert.Contains(t, err.Error(), `"A" requires X:Ready`)
		assert.Contains(t, err.Error(), `"B" requires Y:Ready`)
	})

	t.Run("dependency cycle", func(t *testing.T) {
		_, err := pipeline.Compile(
			nop("Root").Produces("Seed", "Planted"),
			nop("A").Requires("Seed", "Planted").Requires("C", "Done").Produces("A", "Done"),
			nop("B").Requires("A", "Done").Produces("B", "Done"),
			nop("C").Requires("B", "Done").Produces("C", "Done"),
			nop("Leaf").Requires("C", "Done"),
		)
		require.ErrorIs(t, err, pipeline.ErrDependencyCycle)

		var cycle *pipeline.DependencyCycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"A", "B", "C"}, cycle.Systems)
		assert.EqualError(t, err, "pipeline: dependency cycle: A -> B -> C -> A")
	})

	t.Run("two-system cycle", func(t *testing.T) {
		_, err := pipeline.Compile(
			nop("Ping").Requires("Pong", "Sent").Produces("Ping", "Sent"),
			nop("Pong").Requires("Ping", "Sent").Produces("Pong", "Sent"),
		)
		var cycle *pipeline.DependencyCycleError
		require.True(t, errors.As(err, &cycle))
		assert.Equal(t, []string{"Ping", "Pong"}, cycle.Systems)
	})

	t.Run("duplicate names", func(t *testing.T) {
		_, err := pipeline.Compile(nop("Same"), nop("Same"))
		assert.ErrorIs(t, err, pipeline.ErrDuplicateSystem)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := pipeline.Compile()
		assert.ErrorIs(t, err, pipeline.ErrNoSystems)
	})
}

func TestGraph(t *testing.T) {
	plan, err := pipeline.Compile(deferredRenderer()...)
	require.NoError(t, err)

	g := plan.Graph()
	assert.Equal(t, []string{"GBuffer", "Frame"}, g.Resources())
	assert.Equal(t, []string{"Cleared", "Filled"}, g.States("GBuffer"))

	filled := pipeline.ResourceState{Resource: "GBuffer", State: "Filled"}
	assert.Equal(t, []string{"Geometry", "Lights"}, g.Producers(filled))
	assert.Equal(t, []string{"Combine"}, g.Consumers(filled))
	assert.Empty(t, g.Consumers(pipeline.ResourceState{Resource: "Frame", State: "Presented"}))
}

type ClearSystem struct{}

func (*ClearSystem) Process(*pipeline.Frame) error { return nil }

func TestDeclaration(t *testing.T) {
	d := pipeline.Declare(&ClearSystem{}).
		Requires("Camera", "Ready").
		Produces("GBuffer", "Cleared").
		Parallel()

	assert.Equal(t, "ClearSystem", d.Name())
	assert.True(t, d.AllowsParallelism())
	assert.Equal(t, []pipeline.ResourceState{{Resource: "Camera", State: "Ready"}}, d.RequiredStates())
	assert.Equal(t, []pipeline.ResourceState{{Resource: "GBuffer", State: "Cleared"}}, d.ProducedStates())
	assert.Equal(t, "ClearSystem: allow parallelism: true, requires: [Camera:Ready], produces: [GBuffer:Cleared]", d.String())

	d.InSequence()
	assert.False(t, d.AllowsParallelism())
}

func TestBuilder(t *testing.T) {
	b := pipeline.NewBuilder()
	b.System(&ClearSystem{}).Produces("GBuffer", "Cleared")
	b.Add(nop("Geometry").Requires("GBuffer", "Cleared"))

	require.Len(t, b.Declarations(), 2)

	plan, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "stage 0: [ClearSystem]\nstage 1: [Geometry]\n", plan.String())
}
