package ecs

import "iter"

// Query wraps a View and snapshots its matches once per frame. Systems
// declare Query fields; the pipeline executor binds them with Init and
// refreshes them with Execute before each Process call.
type Query[T any] struct {
	view *View[T]

	cachedEntities   []Entity
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a new Query over the directory of ctx.
func NewQuery[T any](ctx *Context) *Query[T] {
	q := &Query[T]{}
	q.Init(ctx)
	return q
}

// Init initializes or re-initializes the Query with a context.
func (q *Query[T]) Init(ctx *Context) {
	q.view = NewView[T](ctx.Components)
	q.cacheValid = false
}

// Execute rebuilds the entity and component snapshot.
func (q *Query[T]) Execute() {
	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	for id, item := range q.view.Iter() {
		q.cachedEntities = append(q.cachedEntities, id)
		q.cachedComponents = append(q.cachedComponents, item)
	}

	q.cacheValid = true
}

// Iter returns an iterator over entity IDs and component data.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[Entity, T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(Entity, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Len returns the number of matches in the current snapshot.
func (q *Query[T]) Len() int {
	return len(q.cachedEntities)
}
