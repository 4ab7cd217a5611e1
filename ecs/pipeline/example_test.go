package pipeline_test

import (
	"errors"
	"fmt"

	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/pipeline"
)

type ClearPass struct{}

func (*ClearPass) Process(*pipeline.Frame) error { return nil }

type GeometryPass struct{}

func (*GeometryPass) Process(*pipeline.Frame) error { return nil }

type LightPass struct{}

func (*LightPass) Process(*pipeline.Frame) error { return nil }

type CombinePass struct {
	frames int
}

func (p *CombinePass) Setup(*ecs.Context) error {
	fmt.Println("combine: setup")
	return nil
}

func (p *CombinePass) Process(f *pipeline.Frame) error {
	p.frames++
	fmt.Println("combine: frame", f.Number)
	return nil
}

func ExampleCompile() {
	b := pipeline.NewBuilder()
	b.System(&ClearPass{}).Produces("GBuffer", "Cleared")
	b.System(&GeometryPass{}).Parallel().Requires("GBuffer", "Cleared").Produces("GBuffer", "Filled")
	b.System(&LightPass{}).Parallel().Requires("GBuffer", "Cleared").Produces("GBuffer", "Filled")
	b.System(&CombinePass{}).Requires("GBuffer", "Filled")

	plan, err := b.Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Print(plan)

	// Output:
	// stage 0: [ClearPass]
	// stage 1: [GeometryPass, LightPass] (parallel)
	// stage 2: [CombinePass]
}

func ExampleExecutor_Tick() {
	combine := &CombinePass{}
	plan, _ := pipeline.Compile(
		pipeline.Declare(&ClearPass{}).Produces("GBuffer", "Cleared"),
		pipeline.Declare(combine).Requires("GBuffer", "Cleared"),
	)

	exec := pipeline.NewExecutor(ecs.NewContext(), plan)
	for range 3 {
		_ = exec.Tick(1.0 / 60)
	}
	fmt.Println("processed:", combine.frames)

	// Output:
	// combine: setup
	// combine: frame 1
	// combine: frame 2
	// combine: frame 3
	// processed: 3
}

func ExampleUnsatisfiedDependencyError() {
	_, err := pipeline.Compile(
		pipeline.Declare(&CombinePass{}).Requires("GBuffer", "Filled"),
	)
	fmt.Println(errors.Is(err, pipeline.ErrUnsatisfiedDependency))
	fmt.Println(err)

	// Output:
	// true
	// pipeline: system "CombinePass" requires GBuffer:Filled but no other system produces it
}
