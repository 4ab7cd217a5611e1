package debugui

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/framecore/ecs"
)

type QueryDebuggerCache struct {
	componentTypes []string
	typesByName    map[string]reflect.Type
	signature      directorySignature
	valid          bool
}

func NewQueryDebuggerComponent() *QueryDebuggerComponent {
	return &QueryDebuggerComponent{
		selectedComponentTypes: make(map[string]bool),
		cache:                  &QueryDebuggerCache{},
	}
}

// Render draws the type picker and the matching entities. It returns the
// type name whose "Browse" button was pressed, if any.
func (qd *QueryDebuggerComponent) Render(ctx *ecs.Context) string {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return ""
	}

	qd.rebuildCacheIfNeeded(ctx)

	imgui.Text("Select Component Types:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		qd.selectedComponentTypes = make(map[string]bool)
	}

	var browse string
	for _, compType := range qd.cache.componentTypes {
		selected := qd.selectedComponentTypes[compType]
		if imgui.Checkbox(compType, &selected) {
			if selected {
				qd.selectedComponentTypes[compType] = true
			} else {
				delete(qd.selectedComponentTypes, compType)
			}
		}
		imgui.SameLine()
		if imgui.Button("Browse##" + compType) {
			browse = compType
		}
	}

	imgui.Separator()

	selectedTypes := make([]reflect.Type, 0, len(qd.selectedComponentTypes))
	for typeName := range qd.selectedComponentTypes {
		if t, ok := qd.cache.typesByName[typeName]; ok {
			selectedTypes = append(selectedTypes, t)
		}
	}

	if len(selectedTypes) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return browse
	}

	matching := matchingEntities(ctx.Components, selectedTypes)
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matching)))

	if imgui.TreeNodeStr("Entity Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("QueryEntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Entity")
			imgui.TableSetupColumn("Label")
			imgui.TableSetupColumn("Matched Components")
			imgui.TableHeadersRow()

			for _, e := range matching {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(fmt.Sprintf("%d", e))

				imgui.TableSetColumnIndex(1)
				imgui.Text(ctx.Entities.Label(e))

				imgui.TableSetColumnIndex(2)
				count := 0
				for _, t := range selectedTypes {
					count += len(ctx.Components.GetAll(e, t, nil))
				}
				imgui.Text(fmt.Sprintf("%d", count))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	imgui.End()
	return browse
}

func (qd *QueryDebuggerComponent) rebuildCacheIfNeeded(ctx *ecs.Context) {
	if sig := signatureOf(ctx); !qd.cache.valid || qd.cache.signature != sig {
		qd.cache.signature = sig
		qd.rebuildCache(ctx.Components)
		qd.cache.valid = true
	}
}

func (qd *QueryDebuggerComponent) rebuildCache(d *ecs.Directory) {
	types := d.Types()

	qd.cache.typesByName = make(map[string]reflect.Type, len(types))
	qd.cache.componentTypes = make([]string, 0, len(types))
	for _, t := range types {
		qd.cache.typesByName[t.String()] = t
		qd.cache.componentTypes = append(qd.cache.componentTypes, t.String())
	}

	sort.Strings(qd.cache.componentTypes)
}

// matchingEntities returns the entities owning at least one component of
// every required type, in registration order of the rarest type.
func matchingEntities(d *ecs.Directory, requiredTypes []reflect.Type) []ecs.Entity {
	if len(requiredTypes) == 0 {
		return nil
	}

	driver := requiredTypes[0]
	for _, t := range requiredTypes[1:] {
		if d.Count(t) < d.Count(driver) {
			driver = t
		}
	}

	var matching []ecs.Entity
	for _, e := range d.EntitiesWith(driver, nil) {
		if hasAllTypes(d, e, requiredTypes) {
			matching = append(matching, e)
		}
	}
	return matching
}

func hasAllTypes(d *ecs.Directory, e ecs.Entity, requiredTypes []reflect.Type) bool {
	for _, required := range requiredTypes {
		if !d.Has(e, required) {
			return false
		}
	}
	return true
}
