package ecs

import (
	"errors"
	"log/slog"
	"reflect"
)

// Context is the engine state shared by every system: the entity registry,
// the component directory, typed singletons and the logger. Create one per
// frame loop and hand it down explicitly.
type Context struct {
	Entities   *Registry
	Components *Directory
	Logger     *slog.Logger

	singletons map[reflect.Type]any
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLogger sets the logger used by the engine. A nil logger disables logging.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Context) {
		if l == nil {
			l = NopLogger()
		}
		c.Logger = l
	}
}

// NewContext creates a Context with an empty registry and directory.
func NewContext(opts ...ContextOption) *Context {
	entities := NewRegistry()
	c := &Context{
		Entities:   entities,
		Components: NewDirectory(entities),
		Logger:     NopLogger(),
		singletons: make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Spawn creates an entity and attaches the given components. If any
// component is rejected the entity is destroyed again and the error returned.
func (c *Context) Spawn(label string, components ...any) (Entity, error) {
	e := c.Entities.Create(label)
	for _, component := range components {
		if err := c.Components.Add(e, component); err != nil {
			return 0, errors.Join(err, c.Entities.Destroy(e))
		}
	}
	return e, nil
}

// Destroy destroys the entity and all of its components.
func (c *Context) Destroy(e Entity) error {
	return c.Entities.Destroy(e)
}

func (c *Context) singleton(t reflect.Type) any {
	return c.singletons[t]
}

func (c *Context) setSingleton(t reflect.Type, ptr any) {
	c.singletons[t] = ptr
}

// SingletonTypes returns the names of all registered singleton types.
func (c *Context) SingletonTypes() []string {
	names := make([]string, 0, len(c.singletons))
	for t := range c.singletons {
		names = append(names, t.String())
	}
	return names
}
