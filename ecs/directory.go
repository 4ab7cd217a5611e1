package ecs

import (
	"reflect"
	"slices"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// Directory maps entities to typed component instances. Every instance is
// indexed by owning entity and by component type so lookups in either
// direction cost O(matching components).
//
// A Directory is not safe for concurrent mutation. Systems sharing a parallel
// stage must either touch disjoint component sets or go through Commands.
type Directory struct {
	entities  *Registry
	byEntity  *intmap.Map[Entity, []*record]
	byType    map[reflect.Type][]*record
	instances map[instanceKey]*record
	types     []reflect.Type
	count     int
}

// instanceKey identifies a registered instance. A field at offset zero shares
// its parent's address, so the type is part of the key.
type instanceKey struct {
	typ reflect.Type
	ptr unsafe.Pointer
}

// NewDirectory creates a directory over the given registry. Destroying an
// entity in the registry removes all of its components from the directory.
func NewDirectory(entities *Registry) *Directory {
	d := &Directory{
		entities:  entities,
		byEntity:  intmap.New[Entity, []*record](256),
		byType:    make(map[reflect.Type][]*record),
		instances: make(map[instanceKey]*record),
	}
	entities.onDestroy(d.removeEntity)
	return d
}

// Entities returns the registry this directory validates entities against.
func (d *Directory) Entities() *Registry {
	return d.entities
}

// Add registers component under entity e. The component must be a non-nil
// pointer; it is indexed under its pointee type.
func (d *Directory) Add(e Entity, component any) error {
	compType, ptr, ok := componentInfo(component)
	if !ok {
		return &ComponentError{Op: "add", Entity: e, Type: compType, Err: ErrInvalidComponent}
	}
	if !d.entities.Exists(e) {
		return &ComponentError{Op: "add", Entity: e, Type: compType, Err: ErrUnknownEntity}
	}
	if unique(compType) {
		if _, taken := d.instances[instanceKey{compType, ptr}]; taken {
			return &ComponentError{Op: "add", Entity: e, Type: compType, Err: ErrAlreadyAttached}
		}
	}

	rec := &record{entity: e, typ: compType, value: component, ptr: ptr}

	recs, _ := d.byEntity.Get(e)
	d.byEntity.Put(e, append(recs, rec))

	if _, seen := d.byType[compType]; !seen {
		d.types = append(d.types, compType)
	}
	d.byType[compType] = append(d.byType[compType], rec)

	if unique(compType) {
		d.instances[instanceKey{compType, ptr}] = rec
	}
	d.count++
	return nil
}

// Remove removes exactly the given instance from entity e.
func (d *Directory) Remove(e Entity, component any) error {
	compType, ptr, ok := componentInfo(component)
	if !ok {
		return &ComponentError{Op: "remove", Entity: e, Type: compType, Err: ErrInvalidComponent}
	}
	if !d.entities.Exists(e) {
		return &ComponentError{Op: "remove", Entity: e, Type: compType, Err: ErrUnknownEntity}
	}

	recs, _ := d.byEntity.Get(e)
	idx := slices.IndexFunc(recs, func(r *record) bool {
		return r.typ == compType && r.ptr == ptr
	})
	if idx < 0 {
		return &ComponentError{Op: "remove", Entity: e, Type: compType, Err: ErrComponentNotFound}
	}

	rec := recs[idx]
	d.byEntity.Put(e, slices.Delete(recs, idx, idx+1))

	typed := d.byType[compType]
	if i := slices.Index(typed, rec); i >= 0 {
		d.byType[compType] = slices.Delete(typed, i, i+1)
	}
	d.forget(rec)
	return nil
}

// RemoveAll removes every component of type compType owned by e and returns
// how many were removed. Unknown entities and missing types are a no-op.
func (d *Directory) RemoveAll(e Entity, compType reflect.Type) int {
	recs, ok := d.byEntity.Get(e)
	if !ok {
		return 0
	}

	before := len(recs)
	recs = slices.DeleteFunc(recs, func(r *record) bool {
		if r.typ != compType {
			return false
		}
		d.forget(r)
		return true
	})
	removed := before - len(recs)
	if removed == 0 {
		return 0
	}

	d.byEntity.Put(e, recs)
	d.byType[compType] = slices.DeleteFunc(d.byType[compType], func(r *record) bool {
		return r.entity == e
	})
	return removed
}

// RemoveAllOfType removes every component of type compType across all
// entities and returns how many were removed.
func (d *Directory) RemoveAllOfType(compType reflect.Type) int {
	typed, ok := d.byType[compType]
	if !ok {
		return 0
	}

	for _, rec := range typed {
		recs, _ := d.byEntity.Get(rec.entity)
		if i := slices.Index(recs, rec); i >= 0 {
			d.byEntity.Put(rec.entity, slices.Delete(recs, i, i+1))
		}
		d.forget(rec)
	}

	delete(d.byType, compType)
	d.types = slices.DeleteFunc(d.types, func(t reflect.Type) bool { return t == compType })
	return len(typed)
}

// Get returns the first component of type compType registered under e.
func (d *Directory) Get(e Entity, compType reflect.Type) (any, error) {
	if !d.entities.Exists(e) {
		return nil, &ComponentError{Op: "get", Entity: e, Type: compType, Err: ErrUnknownEntity}
	}

	if rec := d.first(e, compType); rec != nil {
		return rec.value, nil
	}
	return nil, &ComponentError{Op: "get", Entity: e, Type: compType, Err: ErrComponentNotFound}
}

// GetAll appends every component of type compType owned by e to out, in
// registration order.
func (d *Directory) GetAll(e Entity, compType reflect.Type, out []any) []any {
	recs, _ := d.byEntity.Get(e)
	for _, rec := range recs {
		if rec.typ == compType {
			out = append(out, rec.value)
		}
	}
	return out
}

// Components appends every component owned by e to out, in registration order.
func (d *Directory) Components(e Entity, out []any) []any {
	recs, _ := d.byEntity.Get(e)
	for _, rec := range recs {
		out = append(out, rec.value)
	}
	return out
}

// GetAllOfType appends every component of type compType to out, in
// registration order regardless of owner.
func (d *Directory) GetAllOfType(compType reflect.Type, out []any) []any {
	for _, rec := range d.byType[compType] {
		out = append(out, rec.value)
	}
	return out
}

// Has reports whether e owns at least one component of type compType.
func (d *Directory) Has(e Entity, compType reflect.Type) bool {
	return d.first(e, compType) != nil
}

// EntitiesWith appends every entity owning at least one component of type
// compType to out. Each entity appears once, ordered by its first registration.
func (d *Directory) EntitiesWith(compType reflect.Type, out []Entity) []Entity {
	typed := d.byType[compType]
	if len(typed) == 0 {
		return out
	}

	seen := intmap.NewSet[Entity](len(typed))
	for _, rec := range typed {
		if seen.Add(rec.entity) {
			out = append(out, rec.entity)
		}
	}
	return out
}

// Owner returns the entity a registered instance belongs to.
func (d *Directory) Owner(component any) (Entity, bool) {
	compType, ptr, ok := componentInfo(component)
	if !ok || !unique(compType) {
		return 0, false
	}
	rec, ok := d.instances[instanceKey{compType, ptr}]
	if !ok {
		return 0, false
	}
	return rec.entity, true
}

// Count returns the number of components of type compType.
func (d *Directory) Count(compType reflect.Type) int {
	return len(d.byType[compType])
}

// Len returns the total number of registered components.
func (d *Directory) Len() int {
	return d.count
}

// Types returns the component types that currently have at least one
// instance, in first-registration order.
func (d *Directory) Types() []reflect.Type {
	types := make([]reflect.Type, 0, len(d.types))
	for _, t := range d.types {
		if len(d.byType[t]) > 0 {
			types = append(types, t)
		}
	}
	return types
}

func (d *Directory) first(e Entity, compType reflect.Type) *record {
	recs, _ := d.byEntity.Get(e)
	for _, rec := range recs {
		if rec.typ == compType {
			return rec
		}
	}
	return nil
}

func (d *Directory) records(e Entity) []*record {
	recs, _ := d.byEntity.Get(e)
	return recs
}

func (d *Directory) forget(rec *record) {
	if unique(rec.typ) {
		delete(d.instances, instanceKey{rec.typ, rec.ptr})
	}
	d.count--
}

// removeEntity drops every component of e from both indices.
func (d *Directory) removeEntity(e Entity) {
	recs, ok := d.byEntity.Get(e)
	if !ok {
		return
	}

	for _, rec := range recs {
		typed := d.byType[rec.typ]
		if i := slices.Index(typed, rec); i >= 0 {
			d.byType[rec.typ] = slices.Delete(typed, i, i+1)
		}
		d.forget(rec)
	}
	d.byEntity.Del(e)
}
