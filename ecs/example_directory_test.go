package ecs_test

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/plus3/framecore/ecs"
)

type Mesh struct {
	Name string
}

type Surface struct {
	Shader string
}

func Example_directory() {
	ctx := ecs.NewContext()

	teapot := ctx.Entities.Create("teapot")
	_ = ctx.Components.Add(teapot, &Mesh{Name: "spout"})
	_ = ctx.Components.Add(teapot, &Mesh{Name: "body"})
	_ = ctx.Components.Add(teapot, &Surface{Shader: "porcelain"})

	floor := ctx.Entities.Create("floor")
	_ = ctx.Components.Add(floor, &Mesh{Name: "plane"})

	first, _ := ecs.Get[Mesh](ctx.Components, teapot)
	fmt.Println("first mesh:", first.Name)

	for _, m := range ecs.AllOf[Mesh](ctx.Components, nil) {
		fmt.Println("mesh:", m.Name)
	}

	_ = ctx.Destroy(teapot)
	fmt.Println("teapot has mesh:", ecs.Has[Mesh](ctx.Components, teapot))

	_, err := ctx.Components.Get(floor, reflect.TypeFor[Surface]())
	fmt.Println("missing:", errors.Is(err, ecs.ErrComponentNotFound))

	// Output:
	// first mesh: spout
	// mesh: spout
	// mesh: body
	// mesh: plane
	// teapot has mesh: false
	// missing: true
}

func ExampleCommands() {
	ctx := ecs.NewContext()
	cmds := ecs.NewCommands()

	cmds.Create("light", func(e ecs.Entity) {
		fmt.Println("created", ctx.Entities.Label(e))
	}, &PointLight{Power: 3})
	fmt.Println("lights before flush:", len(ecs.AllOf[PointLight](ctx.Components, nil)))

	_ = cmds.Flush(ctx)
	fmt.Println("lights after flush:", len(ecs.AllOf[PointLight](ctx.Components, nil)))

	// Output:
	// lights before flush: 0
	// created light
	// lights after flush: 1
}

func ExampleAllImplementing() {
	ctx := ecs.NewContext()
	_, _ = ctx.Spawn("sun", &PointLight{Power: 10})
	_, _ = ctx.Spawn("torch", &SpotLight{Power: 6}, &PointLight{Power: 1})

	total := float32(0)
	for _, l := range ecs.AllImplementing[Light](ctx.Components, nil) {
		total += l.Intensity()
	}
	fmt.Println("total intensity:", total)

	// Output:
	// total intensity: 14
}
