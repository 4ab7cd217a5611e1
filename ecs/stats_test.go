package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryStats(t *testing.T) {
	ctx := newTestContext()

	stats := ctx.Components.CollectStats()
	assert.Equal(t, 0, stats.EntityCount)
	assert.Equal(t, 0, stats.ComponentCount)
	assert.Equal(t, 0, stats.TypeCount)
	assert.Empty(t, stats.TypeBreakdown)

	_, err := ctx.Spawn("a", &Position{}, &Position{}, &Velocity{})
	require.NoError(t, err)
	_, err = ctx.Spawn("b", &Position{})
	require.NoError(t, err)
	ctx.Entities.Create("empty")

	stats = ctx.Components.CollectStats()
	assert.Equal(t, 3, stats.EntityCount)
	assert.Equal(t, 4, stats.ComponentCount)
	assert.Equal(t, 2, stats.TypeCount)

	require.Len(t, stats.TypeBreakdown, 2)
	assert.Equal(t, "ecs_test.Position", stats.TypeBreakdown[0].Type)
	assert.Equal(t, 3, stats.TypeBreakdown[0].ComponentCount)
	assert.Equal(t, 2, stats.TypeBreakdown[0].EntityCount)
	assert.Equal(t, "ecs_test.Velocity", stats.TypeBreakdown[1].Type)
	assert.Equal(t, 1, stats.TypeBreakdown[1].ComponentCount)
}
