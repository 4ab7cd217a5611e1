package ecs

import (
	"fmt"
	"slices"

	"github.com/kamstrup/intmap"
)

// Entity is an opaque entity identifier. The zero value never refers to a live entity.
type Entity uint64

// String returns a short debug form of the entity id.
func (e Entity) String() string {
	return fmt.Sprintf("entity(%d)", uint64(e))
}

// Registry allocates and destroys entity identifiers. It owns no component
// data; destroying an entity notifies every attached Directory so its
// components are removed before Destroy returns.
type Registry struct {
	next     Entity
	alive    *intmap.Map[Entity, string]
	onDelete []func(Entity)
}

// NewRegistry creates an empty entity registry.
func NewRegistry() *Registry {
	return &Registry{
		next:  1,
		alive: intmap.New[Entity, string](256),
	}
}

// Create allocates a new entity. An optional label is kept for debugging.
func (r *Registry) Create(label ...string) Entity {
	id := r.next
	r.next++

	var l string
	if len(label) > 0 {
		l = label[0]
	}
	r.alive.Put(id, l)
	return id
}

// Destroy removes the entity and cascades the removal to all listeners.
func (r *Registry) Destroy(e Entity) error {
	if !r.alive.Has(e) {
		return fmt.Errorf("destroy %s: %w", e, ErrUnknownEntity)
	}

	r.alive.Del(e)
	for _, fn := range r.onDelete {
		fn(e)
	}
	return nil
}

// Exists reports whether the entity was created and not yet destroyed.
func (r *Registry) Exists(e Entity) bool {
	return r.alive.Has(e)
}

// Label returns the debug label given at creation.
func (r *Registry) Label(e Entity) string {
	l, _ := r.alive.Get(e)
	return l
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return r.alive.Len()
}

// Entities appends every live entity to out in creation order.
func (r *Registry) Entities(out []Entity) []Entity {
	start := len(out)
	for e := range r.alive.Keys() {
		out = append(out, e)
	}
	slices.Sort(out[start:])
	return out
}

func (r *Registry) onDestroy(fn func(Entity)) {
	r.onDelete = append(r.onDelete, fn)
}
