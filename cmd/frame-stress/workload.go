package main

import (
	"fmt"
	"math/rand"

	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/pipeline"
)

type Transform struct {
	X, Y, Z float32
}

type Velocity struct {
	DX, DY, DZ float32
}

type Mesh struct {
	Vertices int
}

type Emitter struct {
	Power float32
}

type Lifetime struct {
	Remaining float32
}

// Heater is the capability used by the lighting systems.
type Heater interface {
	Heat() float32
}

func (e *Emitter) Heat() float32 { return e.Power }

// SpawnRandomEntity creates an entity with up to numComponents random
// components. Emitters may repeat on one entity.
func SpawnRandomEntity(ctx *ecs.Context, rng *rand.Rand, numComponents int) (ecs.Entity, error) {
	components := make([]any, 0, numComponents)
	for range numComponents {
		switch rng.Intn(5) {
		case 0:
			components = append(components, &Transform{X: rng.Float32(), Y: rng.Float32()})
		case 1:
			components = append(components, &Velocity{DX: rng.Float32(), DY: rng.Float32()})
		case 2:
			components = append(components, &Mesh{Vertices: rng.Intn(1000)})
		case 3:
			components = append(components, &Emitter{Power: rng.Float32()})
		case 4:
			components = append(components, &Lifetime{Remaining: rng.Float32() * 5})
		}
	}
	return ctx.Spawn("", components...)
}

// workSystem is one synthetic system. Its kind decides which components it
// touches; every kind keeps to Commands for structural changes.
type workSystem struct {
	kind int
	rng  *rand.Rand
}

func (s *workSystem) Process(frame *pipeline.Frame) error {
	d := frame.Components()
	dt := float32(frame.DeltaTime)

	switch s.kind {
	case 0:
		for _, v := range ecs.AllOf[Velocity](d, nil) {
			v.DX *= 0.99
			v.DY *= 0.99
		}
	case 1:
		var heat float32
		for _, h := range ecs.AllImplementing[Heater](d, nil) {
			heat += h.Heat()
		}
		_ = heat
	case 2:
		for _, l := range ecs.AllOf[Lifetime](d, nil) {
			l.Remaining -= dt
			if l.Remaining <= 0 {
				if owner, ok := d.Owner(l); ok {
					frame.Commands.Destroy(owner)
				}
			}
		}
	default:
		if s.rng.Intn(4) == 0 {
			frame.Commands.Create("", nil, &Transform{}, &Lifetime{Remaining: 1})
		}
	}
	return nil
}

// movementSystem integrates velocities through a Query bound by the executor.
type movementSystem struct {
	Entities ecs.Query[struct {
		*Transform
		*Velocity
	}]
}

func (s *movementSystem) Process(frame *pipeline.Frame) error {
	dt := float32(frame.DeltaTime)
	for item := range s.Entities.Values() {
		item.Transform.X += item.Velocity.DX * dt
		item.Transform.Y += item.Velocity.DY * dt
		item.Transform.Z += item.Velocity.DZ * dt
	}
	return nil
}

// BuildPipeline declares systems spread over layers. Every system in layer n
// requires the state produced by layer n-1 and produces the state of layer n,
// so each layer compiles to one parallel stage. Each layer holds at most one
// velocity writer and one lifetime writer; the movement system runs first in
// a stage of its own.
func BuildPipeline(systems, layers int, seed int64) *pipeline.Builder {
	b := pipeline.NewBuilder()
	workers := max(systems-1, 0)
	layers = max(min(layers, workers), 1)

	b.System(&movementSystem{}).
		Named("Movement").
		Produces("Transforms", "Integrated")

	for i := range workers {
		layer := i % layers
		d := b.System(&workSystem{kind: workKind(i / layers), rng: rand.New(rand.NewSource(seed + int64(i)))}).
			Named(fmt.Sprintf("Work%03d", i)).
			Parallel().
			Produces("Layer", layerState(layer))

		if layer == 0 {
			d.Requires("Transforms", "Integrated")
		} else {
			d.Requires("Layer", layerState(layer-1))
		}
	}
	return b
}

// workKind maps a system's slot within its layer to a kind. Slots 0 and 2
// write component data and occur once per layer; later slots only read or
// queue commands.
func workKind(slot int) int {
	if slot < 3 {
		return slot
	}
	return 1 + 2*(slot%2)
}

func layerState(layer int) string {
	return fmt.Sprintf("L%02d", layer)
}
