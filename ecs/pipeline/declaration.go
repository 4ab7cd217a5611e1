package pipeline

import (
	"fmt"
	"reflect"
	"strings"
)

// ResourceState names one state of a logical resource, for example the
// GBuffer after it has been cleared. It carries no data; the compiler uses it
// only to order systems.
type ResourceState struct {
	Resource string
	State    string
}

func (r ResourceState) String() string {
	return r.Resource + ":" + r.State
}

// Declaration describes a system's resource contract: the states it
// requires before it may run, the states it produces, and whether it may
// share a stage with other systems.
type Declaration struct {
	name     string
	system   System
	requires []ResourceState
	produces []ResourceState
	parallel bool
}

// Declare starts a declaration for system, named after its Go type and
// running in sequence by default.
func Declare(system System) *Declaration {
	return &Declaration{
		name:   systemName(system),
		system: system,
	}
}

func systemName(system System) string {
	systemType := reflect.TypeOf(system)
	if systemType == nil {
		return ""
	}
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

// Named overrides the system name used in plans, stats and errors.
func (d *Declaration) Named(name string) *Declaration {
	d.name = name
	return d
}

// Requires adds a resource state that must be produced before the system runs.
func (d *Declaration) Requires(resource, state string) *Declaration {
	d.requires = append(d.requires, ResourceState{Resource: resource, State: state})
	return d
}

// Produces adds a resource state the system contributes once it completes.
func (d *Declaration) Produces(resource, state string) *Declaration {
	d.produces = append(d.produces, ResourceState{Resource: resource, State: state})
	return d
}

// Parallel allows the system to share a stage with other parallel systems.
func (d *Declaration) Parallel() *Declaration {
	d.parallel = true
	return d
}

// InSequence forces the system into a stage of its own.
func (d *Declaration) InSequence() *Declaration {
	d.parallel = false
	return d
}

// Name returns the system name.
func (d *Declaration) Name() string { return d.name }

// System returns the declared system.
func (d *Declaration) System() System { return d.system }

// AllowsParallelism reports whether the system may share a stage.
func (d *Declaration) AllowsParallelism() bool { return d.parallel }

// RequiredStates returns the required resource states in declaration order.
func (d *Declaration) RequiredStates() []ResourceState {
	return append([]ResourceState(nil), d.requires...)
}

// ProducedStates returns the produced resource states in declaration order.
func (d *Declaration) ProducedStates() []ResourceState {
	return append([]ResourceState(nil), d.produces...)
}

func (d *Declaration) String() string {
	return fmt.Sprintf("%s: allow parallelism: %t, requires: [%s], produces: [%s]",
		d.name, d.parallel, joinStates(d.requires), joinStates(d.produces))
}

func joinStates(states []ResourceState) string {
	parts := make([]string, len(states))
	for i, s := range states {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// Builder collects declarations and compiles them into a Plan.
type Builder struct {
	decls []*Declaration
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// System declares a system and returns its declaration for configuration.
func (b *Builder) System(system System) *Declaration {
	d := Declare(system)
	b.decls = append(b.decls, d)
	return d
}

// Add appends existing declarations.
func (b *Builder) Add(decls ...*Declaration) *Builder {
	b.decls = append(b.decls, decls...)
	return b
}

// Declarations returns the declarations in registration order.
func (b *Builder) Declarations() []*Declaration {
	return append([]*Declaration(nil), b.decls...)
}

// Build compiles the declared systems.
func (b *Builder) Build() (*Plan, error) {
	return Compile(b.decls...)
}
