// Package debugui provides immediate-mode GUI integration for frame pipelines using Dear ImGui.
// It manages ImGui rendering and input state through components, singletons and pipeline systems.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/framecore/ecs"
	"github.com/plus3/framecore/ecs/pipeline"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions
// to the end of its stage. It also updates the ImguiInputState singleton.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

// Setup creates the input state singleton.
func (i *ImguiSystem) Setup(ctx *ecs.Context) error {
	ecs.NewSingleton[ImguiInputState](ctx)
	i.InputState.Init(ctx)
	return nil
}

// Process updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) Process(frame *pipeline.Frame) error {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for item := range i.Items.Values() {
		if item.ImguiItem.Render != nil {
			frame.Commands.Defer(item.ImguiItem.Render)
		}
	}
	return nil
}

// Declare returns the declaration of an ImguiSystem. It requires the frame
// to be open for UI and produces the UI as submitted.
func (i *ImguiSystem) Declare() *pipeline.Declaration {
	return pipeline.Declare(i).
		Parallel().
		Requires(ResourceUI, StateUIOpen).
		Produces(ResourceUI, StateUISubmitted)
}

// Resource states used by the debug UI systems.
const (
	ResourceUI       = "UI"
	StateUIOpen      = "Open"
	StateUISubmitted = "Submitted"
)
