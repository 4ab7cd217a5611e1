package ecs

import (
	"fmt"
	"reflect"
)

// ComponentReader is the read side of a Directory.
type ComponentReader interface {
	Get(Entity, reflect.Type) (any, error)
}

// Get returns the first component of type T owned by entity.
func Get[T any](reader ComponentReader, entity Entity) (*T, error) {
	component, err := reader.Get(entity, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return component.(*T), nil
}

// MustGet is like Get but panics when the component is missing. Use it only
// where the component is a hard requirement of the caller.
func MustGet[T any](reader ComponentReader, entity Entity) *T {
	component, err := Get[T](reader, entity)
	if err != nil {
		panic(fmt.Sprintf("ecs.MustGet: %v", err))
	}
	return component
}

// GetAll appends every component of type T owned by entity to out.
func GetAll[T any](d *Directory, entity Entity, out []*T) []*T {
	compType := reflect.TypeFor[T]()
	for _, rec := range d.records(entity) {
		if rec.typ == compType {
			out = append(out, rec.value.(*T))
		}
	}
	return out
}

// AllOf appends every component of type T across all entities to out, in
// registration order.
func AllOf[T any](d *Directory, out []*T) []*T {
	for _, rec := range d.byType[reflect.TypeFor[T]()] {
		out = append(out, rec.value.(*T))
	}
	return out
}

// Has reports whether entity owns a component of type T.
func Has[T any](d *Directory, entity Entity) bool {
	return d.Has(entity, reflect.TypeFor[T]())
}

// EntitiesWith appends every entity owning a component of type T to out.
func EntitiesWith[T any](d *Directory, out []Entity) []Entity {
	return d.EntitiesWith(reflect.TypeFor[T](), out)
}

// RemoveAll removes every component of type T owned by entity.
func RemoveAll[T any](d *Directory, entity Entity) int {
	return d.RemoveAll(entity, reflect.TypeFor[T]())
}

// RemoveAllOfType removes every component of type T from every entity.
func RemoveAllOfType[T any](d *Directory) int {
	return d.RemoveAllOfType(reflect.TypeFor[T]())
}

// Implementing appends every component of entity whose concrete type
// implements the capability interface C.
func Implementing[C any](d *Directory, entity Entity, out []C) []C {
	for _, rec := range d.records(entity) {
		if c, ok := rec.value.(C); ok {
			out = append(out, c)
		}
	}
	return out
}

// AllImplementing appends every component implementing the capability
// interface C. Components are grouped by type in first-registration order of
// the type, then by registration order within the type.
func AllImplementing[C any](d *Directory, out []C) []C {
	capability := reflect.TypeFor[C]()
	if capability.Kind() != reflect.Interface {
		panic("ecs.AllImplementing: " + capability.String() + " is not an interface")
	}

	for _, t := range d.types {
		if !reflect.PointerTo(t).Implements(capability) {
			continue
		}
		for _, rec := range d.byType[t] {
			out = append(out, rec.value.(C))
		}
	}
	return out
}
