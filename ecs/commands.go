package ecs

import (
	"errors"
	"reflect"
	"sync"
)

// Commands buffers structural changes requested while systems run. The
// executor flushes the buffer at every stage barrier, so members of a
// parallel stage can request changes without touching the Directory directly.
// All methods are safe for concurrent use.
type Commands struct {
	mu         sync.Mutex
	creates    []createCommand
	destroys   []Entity
	adds       []addComponentCommand
	removes    []removeComponentCommand
	removeAlls []removeAllCommand
	defers     []func()
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

type createCommand struct {
	label      string
	components []any
	created    func(Entity)
}

type addComponentCommand struct {
	entity    Entity
	component any
}

type removeComponentCommand struct {
	entity    Entity
	component any
}

type removeAllCommand struct {
	entity   Entity
	compType reflect.Type
}

// Create queues creation of an entity with the given components. If created
// is non-nil it receives the new entity during the flush.
func (c *Commands) Create(label string, created func(Entity), components ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates = append(c.creates, createCommand{label: label, components: components, created: created})
}

// Destroy queues destruction of an entity.
func (c *Commands) Destroy(entity Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.destroys = append(c.destroys, entity)
}

// Add queues a component addition.
func (c *Commands) Add(entity Entity, component any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adds = append(c.adds, addComponentCommand{entity: entity, component: component})
}

// Remove queues removal of one component instance.
func (c *Commands) Remove(entity Entity, component any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removes = append(c.removes, removeComponentCommand{entity: entity, component: component})
}

// RemoveAll queues removal of every component of compType owned by entity.
func (c *Commands) RemoveAll(entity Entity, compType reflect.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeAlls = append(c.removeAlls, removeAllCommand{entity: entity, compType: compType})
}

// Defer queues a function to run after all structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.creates) + len(c.destroys) + len(c.adds) + len(c.removes) + len(c.removeAlls) + len(c.defers)
}

// Flush applies all queued commands to ctx and resets the buffer. Destroys run
// first, then removals, additions, creations and deferred functions. Edits
// targeting an entity destroyed in the same flush are dropped. Every failure
// is collected and returned together. Commands queued while flushing, for
// example from a deferred function, stay buffered for the next flush.
func (c *Commands) Flush(ctx *Context) error {
	c.mu.Lock()
	pending := Commands{
		creates:    c.creates,
		destroys:   c.destroys,
		adds:       c.adds,
		removes:    c.removes,
		removeAlls: c.removeAlls,
		defers:     c.defers,
	}
	c.creates, c.destroys, c.adds, c.removes, c.removeAlls, c.defers = nil, nil, nil, nil, nil, nil
	c.mu.Unlock()

	var errs []error
	destroyed := make(map[Entity]bool, len(pending.destroys))

	for _, e := range pending.destroys {
		if destroyed[e] {
			continue
		}
		if err := ctx.Entities.Destroy(e); err != nil {
			errs = append(errs, err)
		}
		destroyed[e] = true
	}

	for _, cmd := range pending.removes {
		if destroyed[cmd.entity] {
			continue
		}
		if err := ctx.Components.Remove(cmd.entity, cmd.component); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range pending.removeAlls {
		if !destroyed[cmd.entity] {
			ctx.Components.RemoveAll(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range pending.adds {
		if destroyed[cmd.entity] {
			continue
		}
		if err := ctx.Components.Add(cmd.entity, cmd.component); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range pending.creates {
		e, err := ctx.Spawn(cmd.label, cmd.components...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if cmd.created != nil {
			cmd.created(e)
		}
	}

	for _, fn := range pending.defers {
		fn()
	}

	return errors.Join(errs...)
}

// Discard drops every queued command.
func (c *Commands) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creates, c.destroys, c.adds, c.removes, c.removeAlls, c.defers = nil, nil, nil, nil, nil, nil
}
