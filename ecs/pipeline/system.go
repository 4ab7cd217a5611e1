package pipeline

import "github.com/plus3/framecore/ecs"

// System is one unit of per-frame work. Process is called once per frame
// while the system's stage runs.
type System interface {
	Process(frame *Frame) error
}

// Setupper is implemented by systems that need to bind resources before their
// first Process call. Setup runs once per activation.
type Setupper interface {
	Setup(ctx *ecs.Context) error
}

// Teardowner is implemented by systems that release resources when the
// executor unloads their plan or closes.
type Teardowner interface {
	Teardown(ctx *ecs.Context) error
}

// SystemFunc adapts a function to the System interface. Declarations of a
// SystemFunc should be given an explicit name with Named.
type SystemFunc func(frame *Frame) error

// Process calls f(frame).
func (f SystemFunc) Process(frame *Frame) error {
	return f(frame)
}
