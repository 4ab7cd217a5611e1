package ecs

// Field is one externally visible property of a component. Value points at
// the live data: *float32, *float64, *int, *int32, *uint32, *bool or *string
// for editable primitives, or an Inspectable for a nested group. Any other
// value is shown read-only.
type Field struct {
	Name     string
	Value    any
	ReadOnly bool
}

// Inspectable is implemented by components that expose fields to editors and
// debug tooling. Components declare their own fields; nothing is discovered
// by walking struct layouts.
type Inspectable interface {
	Fields() []Field
}

// Labeled is implemented by components that want a custom display name.
type Labeled interface {
	Label() string
}

// Describe returns the inspectable fields of component, or nil when the
// component does not expose any.
func Describe(component any) []Field {
	if in, ok := component.(Inspectable); ok {
		return in.Fields()
	}
	return nil
}

// DisplayName returns the label of a component, falling back to its type name.
func DisplayName(component any) string {
	if l, ok := component.(Labeled); ok {
		return l.Label()
	}
	if t := TypeOf(component); t != nil {
		return t.Name()
	}
	return "<nil>"
}
