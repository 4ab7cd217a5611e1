package pipeline

import (
	"log/slog"

	"github.com/plus3/framecore/ecs"
)

// Frame is passed to every Process call of one tick.
type Frame struct {
	Number    uint64
	DeltaTime float64
	Stage     int
	Context   *ecs.Context
	Commands  *ecs.Commands
}

// Components returns the component directory of the frame's context.
func (f *Frame) Components() *ecs.Directory {
	return f.Context.Components
}

// Logger returns the engine logger.
func (f *Frame) Logger() *slog.Logger {
	return f.Context.Logger
}
