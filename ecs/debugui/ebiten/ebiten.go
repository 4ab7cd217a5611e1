// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/debugui"
	"github.com/plus3/framecore/ecs/pipeline"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Register it as a singleton so the frame systems can reach it.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// BeginFrameSystem opens the ImGui frame. It produces the UI resource in its
// open state, which every UI-submitting system requires.
type BeginFrameSystem struct {
	Backend ecs.Singleton[ImguiBackend]
}

func (s *BeginFrameSystem) Process(*pipeline.Frame) error {
	if b := s.Backend.Get(); b != nil && b.EbitenBackend != nil {
		b.BeginFrame()
	}
	return nil
}

// EndFrameSystem closes the ImGui frame once all UI has been submitted.
type EndFrameSystem struct {
	Backend ecs.Singleton[ImguiBackend]
}

func (s *EndFrameSystem) Process(*pipeline.Frame) error {
	if b := s.Backend.Get(); b != nil && b.EbitenBackend != nil {
		b.EndFrame()
	}
	return nil
}

// Declarations returns the frame systems plus the ImGui systems from the
// debugui package, ready to be added to a pipeline builder.
func Declarations() []*pipeline.Declaration {
	return []*pipeline.Declaration{
		pipeline.Declare(&BeginFrameSystem{}).
			Produces(debugui.ResourceUI, debugui.StateUIOpen),
		(&debugui.ImguiSystem{}).Declare(),
		(&debugui.DebugWindowsSystem{}).Declare(),
		pipeline.Declare(&EndFrameSystem{}).
			Requires(debugui.ResourceUI, debugui.StateUISubmitted).
			Produces(debugui.ResourceUI, StateUIPresented),
	}
}

// StateUIPresented is produced once the ImGui frame has ended.
const StateUIPresented = "Presented"
