package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/framecore/ecs"
)

func NewComponentInspectorComponent() *ComponentInspectorComponent {
	return &ComponentInspectorComponent{}
}

// InspectorEntry is one component of the inspected entity.
type InspectorEntry struct {
	Title     string
	Component any
	Fields    []ecs.Field
}

// inspectEntity lists the components of e in registration order. Titles
// carry a per-type ordinal so repeated types stay distinguishable.
func inspectEntity(d *ecs.Directory, e ecs.Entity) []InspectorEntry {
	components := d.Components(e, nil)
	entries := make([]InspectorEntry, 0, len(components))
	ordinals := make(map[reflect.Type]int)

	for _, c := range components {
		t := ecs.TypeOf(c)
		ordinals[t]++
		entries = append(entries, InspectorEntry{
			Title:     fmt.Sprintf("%s #%02d", ecs.DisplayName(c), ordinals[t]),
			Component: c,
			Fields:    ecs.Describe(c),
		})
	}
	return entries
}

func (ci *ComponentInspectorComponent) Render(d *ecs.Directory, selected ecs.Entity) {
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ci.selectedEntity = selected

	if ci.selectedEntity == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	if !d.Entities().Exists(ci.selectedEntity) {
		imgui.Text(fmt.Sprintf("Entity %d not found", ci.selectedEntity))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %d", ci.selectedEntity))
	if label := d.Entities().Label(ci.selectedEntity); label != "" {
		imgui.Text(fmt.Sprintf("Label: %s", label))
	}
	imgui.Separator()

	for i, entry := range inspectEntity(d, ci.selectedEntity) {
		if imgui.TreeNodeStr(fmt.Sprintf("%s##%d", entry.Title, i)) {
			if len(entry.Fields) == 0 {
				imgui.Text("(no inspectable fields)")
			}
			for _, field := range entry.Fields {
				ci.renderField(entry.Title, field)
			}
			imgui.TreePop()
		}
	}

	imgui.End()
}

// renderField draws one field. Edits write straight through the field's pointer.
func (ci *ComponentInspectorComponent) renderField(scope string, field ecs.Field) {
	id := fmt.Sprintf("##%s.%s", scope, field.Name)

	if field.ReadOnly {
		imgui.Text(fmt.Sprintf("%s: %s", field.Name, formatValue(field.Value)))
		return
	}

	switch v := field.Value.(type) {
	case nil:
		imgui.Text(fmt.Sprintf("%s: nil", field.Name))

	case *int32:
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		imgui.InputInt(id, v)

	case *int:
		n := int32(*v)
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &n) {
			*v = int(n)
		}

	case *uint32:
		n := int32(*v)
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(id, &n) && n >= 0 {
			*v = uint32(n)
		}

	case *float32:
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		imgui.InputFloat(id, v)

	case *float64:
		f := float32(*v)
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat(id, &f) {
			*v = float64(f)
		}

	case *bool:
		imgui.Checkbox(field.Name+id, v)

	case *string:
		imgui.Text(fmt.Sprintf("%s:", field.Name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		imgui.InputTextWithHint(id, "", v, imgui.InputTextFlagsNone, nil)

	case ecs.Inspectable:
		if isNilPointer(v) {
			imgui.Text(fmt.Sprintf("%s: nil", field.Name))
			return
		}
		if imgui.TreeNodeStr(field.Name + id) {
			for _, nested := range v.Fields() {
				ci.renderField(scope+"."+field.Name, nested)
			}
			imgui.TreePop()
		}

	default:
		imgui.Text(fmt.Sprintf("%s: %s", field.Name, formatValue(field.Value)))
	}
}

// formatValue renders a field value for read-only display, dereferencing
// primitive pointers.
func formatValue(value any) string {
	if value == nil {
		return "nil"
	}

	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return "nil"
		}
		if _, nested := value.(ecs.Inspectable); nested {
			return ecs.DisplayName(value)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		return fmt.Sprintf("map[%d items]", v.Len())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

func isNilPointer(value any) bool {
	v := reflect.ValueOf(value)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
