package ecs

import "reflect"

// Singleton provides access to one engine-wide value that does not belong to
// any entity, such as frame configuration or a shared render target table.
type Singleton[T any] struct {
	ctx *Context
	ptr *T
}

// NewSingleton returns an accessor for the singleton of type T. If the
// singleton does not exist yet it is created from initializer, or the zero
// value when no initializer is given.
func NewSingleton[T any](ctx *Context, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	if ctx.singleton(t) == nil {
		value := new(T)
		if len(initializer) > 0 {
			*value = initializer[0]
		}
		ctx.setSingleton(t, value)
	}

	s := &Singleton[T]{}
	s.Init(ctx)
	return s
}

// SetSingleton replaces the singleton of type T and returns its new address.
// Accessors created earlier observe the new value after their next Init.
func SetSingleton[T any](ctx *Context, value T) *T {
	ptr := new(T)
	*ptr = value
	ctx.setSingleton(reflect.TypeFor[T](), ptr)
	return ptr
}

// Init binds the accessor to a context. The executor calls this for
// Singleton fields of registered systems.
func (s *Singleton[T]) Init(ctx *Context) {
	s.ctx = ctx
	s.ptr = nil
	s.updateCache()
}

// Get returns a pointer to the singleton, or nil if it has not been created.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.updateCache()
	}
	return s.ptr
}

// Exists reports whether the singleton has been created.
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) updateCache() {
	if s.ctx == nil {
		return
	}
	if v, ok := s.ctx.singleton(reflect.TypeFor[T]()).(*T); ok {
		s.ptr = v
	}
}
