package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/framecore/ecs"
)

func BenchmarkSpawn(b *testing.B) {
	ctx := newTestContext()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ctx.Spawn("", &Position{X: 1.0, Y: 2.0}, &Velocity{DX: 0.5, DY: 0.5})
	}
}

func BenchmarkDestroy(b *testing.B) {
	ctx := newTestContext()
	entities := make([]ecs.Entity, b.N)
	for i := range entities {
		entities[i], _ = ctx.Spawn("", &Position{}, &Velocity{}, &Health{})
	}

	b.ResetTimer()
	for _, e := range entities {
		_ = ctx.Destroy(e)
	}
}

func BenchmarkGet(b *testing.B) {
	ctx := newTestContext()
	e, _ := ctx.Spawn("", &Position{}, &Velocity{}, &Health{}, &Name{})
	typ := reflect.TypeFor[Health]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ctx.Components.Get(e, typ)
	}
}

func BenchmarkViewIter(b *testing.B) {
	ctx := newTestContext()
	for i := 0; i < 1000; i++ {
		_, _ = ctx.Spawn("", &Position{}, &Velocity{DX: 1})
		_, _ = ctx.Spawn("", &Position{})
	}
	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](ctx.Components)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for item := range view.Values() {
			item.Position.X += item.Velocity.DX
		}
	}
}

func BenchmarkAllImplementing(b *testing.B) {
	ctx := newTestContext()
	for i := 0; i < 500; i++ {
		_, _ = ctx.Spawn("", &PointLight{Power: 1}, &SpotLight{Power: 2}, &Position{})
	}

	var out []Light
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out = ecs.AllImplementing[Light](ctx.Components, out[:0])
	}
}
