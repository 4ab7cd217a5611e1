package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsatisfiedDependency is wrapped by UnsatisfiedDependencyError.
	ErrUnsatisfiedDependency = errors.New("unsatisfied dependency")

	// ErrDependencyCycle is wrapped by DependencyCycleError.
	ErrDependencyCycle = errors.New("dependency cycle")

	// ErrDuplicateSystem is returned when two declarations share a name.
	ErrDuplicateSystem = errors.New("duplicate system")

	// ErrNoSystems is returned when compiling an empty declaration list.
	ErrNoSystems = errors.New("no systems declared")

	// ErrSystemPanic is wrapped by SystemError when a system panics.
	ErrSystemPanic = errors.New("system panicked")
)

// UnsatisfiedDependencyError reports a required resource state that no other
// system produces.
type UnsatisfiedDependencyError struct {
	System   string
	Requires ResourceState
}

func (e *UnsatisfiedDependencyError) Error() string {
	return fmt.Sprintf("pipeline: system %q requires %s but no other system produces it", e.System, e.Requires)
}

func (e *UnsatisfiedDependencyError) Unwrap() error {
	return ErrUnsatisfiedDependency
}

// DependencyCycleError lists the systems on one dependency cycle, each
// producing a state the next one requires.
type DependencyCycleError struct {
	Systems []string
}

func (e *DependencyCycleError) Error() string {
	path := append(append([]string(nil), e.Systems...), e.Systems[0])
	return "pipeline: dependency cycle: " + strings.Join(path, " -> ")
}

func (e *DependencyCycleError) Unwrap() error {
	return ErrDependencyCycle
}

// Phase names the system hook that failed.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseProcess  Phase = "process"
	PhaseTeardown Phase = "teardown"
)

// SystemError wraps an error returned (or a panic raised) by a system hook.
type SystemError struct {
	System string
	Phase  Phase
	Err    error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("pipeline: system %q %s: %v", e.System, e.Phase, e.Err)
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

// FrameError reports an aborted frame.
type FrameError struct {
	Frame uint64
	Stage int
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("pipeline: frame %d aborted in stage %d: %v", e.Frame, e.Stage, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
