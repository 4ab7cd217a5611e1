package ecs_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/framecore/ecs"
)

type FrameSettings struct {
	Exposure float32
}

type RenderTargets struct {
	Names []string
}

func TestContextSpawn(t *testing.T) {
	t.Run("rejected component destroys the entity", func(t *testing.T) {
		ctx := newTestContext()

		_, err := ctx.Spawn("bad", &Position{}, Velocity{})
		assert.ErrorIs(t, err, ecs.ErrInvalidComponent)
		assert.Equal(t, 0, ctx.Entities.Len())
		assert.Equal(t, 0, ctx.Components.Len())
	})

	t.Run("label is kept", func(t *testing.T) {
		ctx := newTestContext()

		e, err := ctx.Spawn("camera", &Position{})
		require.NoError(t, err)
		assert.Equal(t, "camera", ctx.Entities.Label(e))
	})
}

func TestContextLogger(t *testing.T) {
	t.Run("default logger is silent", func(t *testing.T) {
		ctx := ecs.NewContext()
		require.NotNil(t, ctx.Logger)
		assert.False(t, ctx.Logger.Enabled(t.Context(), slog.LevelError))
	})

	t.Run("nil logger falls back to nop", func(t *testing.T) {
		ctx := ecs.NewContext(ecs.WithLogger(nil))
		require.NotNil(t, ctx.Logger)
	})

	t.Run("custom logger", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := ecs.NewContext(ecs.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
		ctx.Logger.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}

func TestSingleton(t *testing.T) {
	t.Run("initializer only applies on creation", func(t *testing.T) {
		ctx := newTestContext()

		first := ecs.NewSingleton(ctx, FrameSettings{Exposure: 1.5})
		second := ecs.NewSingleton(ctx, FrameSettings{Exposure: 9})

		assert.Equal(t, float32(1.5), second.Get().Exposure)
		assert.Same(t, first.Get(), second.Get())
	})

	t.Run("zero value without initializer", func(t *testing.T) {
		ctx := newTestContext()

		s := ecs.NewSingleton[RenderTargets](ctx)
		require.True(t, s.Exists())
		assert.Empty(t, s.Get().Names)
	})

	t.Run("unbound accessor", func(t *testing.T) {
		var s ecs.Singleton[FrameSettings]
		assert.False(t, s.Exists())

		ctx := newTestContext()
		s.Init(ctx)
		assert.False(t, s.Exists())

		ecs.SetSingleton(ctx, FrameSettings{Exposure: 2})
		require.True(t, s.Exists())
		assert.Equal(t, float32(2), s.Get().Exposure)
	})

	t.Run("SetSingleton replaces value", func(t *testing.T) {
		ctx := newTestContext()
		s := ecs.NewSingleton(ctx, FrameSettings{Exposure: 1})

		ptr := ecs.SetSingleton(ctx, FrameSettings{Exposure: 3})
		s.Init(ctx)
		assert.Same(t, ptr, s.Get())
		assert.ElementsMatch(t, []string{"ecs_test.FrameSettings"}, ctx.SingletonTypes())
	})
}
