package ecs_test

import "github.com/plus3/framecore/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

// Tag is zero-sized; instances cannot be told apart by address.
type Tag struct{}

// Body keeps its bounds at offset zero.
type Body struct {
	Bounds Position
	Mass   float64
}

// Light is a capability implemented by several component types.
type Light interface {
	Intensity() float32
}

type PointLight struct {
	Power float32
}

func (l *PointLight) Intensity() float32 { return l.Power }

type SpotLight struct {
	Power float32
	Angle float32
}

func (l *SpotLight) Intensity() float32 { return l.Power / 2 }

func newTestContext() *ecs.Context {
	return ecs.NewContext()
}
