package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrUnknownEntity is returned when an operation names an entity that was
	// never created or has already been destroyed.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrComponentNotFound is returned by single-result lookups with no match
	// and by Remove when the instance is not registered under the entity.
	ErrComponentNotFound = errors.New("component not found")

	// ErrInvalidComponent is returned when a component is nil or not a pointer.
	ErrInvalidComponent = errors.New("invalid component")

	// ErrAlreadyAttached is returned when the same instance is added twice.
	ErrAlreadyAttached = errors.New("component already attached")
)

// ComponentError describes a failed directory operation.
type ComponentError struct {
	Op     string
	Entity Entity
	Type   reflect.Type
	Err    error
}

func (e *ComponentError) Error() string {
	if e.Type == nil {
		return fmt.Sprintf("ecs: %s on %s: %v", e.Op, e.Entity, e.Err)
	}
	return fmt.Sprintf("ecs: %s %s on %s: %v", e.Op, e.Type, e.Entity, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}
