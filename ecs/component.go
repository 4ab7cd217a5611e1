package ecs

import (
	"reflect"
	"unsafe"
)

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// record is one registered component instance. The same record is shared by
// the entity index and the type index.
type record struct {
	entity Entity
	typ    reflect.Type
	value  any
	ptr    unsafe.Pointer
}

// componentInfo returns the component type (pointee type) and the instance
// address. Only non-nil pointers are valid components.
func componentInfo(component any) (reflect.Type, unsafe.Pointer, bool) {
	if component == nil {
		return nil, nil, false
	}

	compType := reflect.TypeOf(component)
	if compType.Kind() != reflect.Ptr {
		return compType, nil, false
	}

	ptr := (*iface)(unsafe.Pointer(&component)).data
	if ptr == nil {
		return compType.Elem(), nil, false
	}
	return compType.Elem(), ptr, true
}

// TypeOf returns the component type a value would be registered under.
func TypeOf(component any) reflect.Type {
	compType := reflect.TypeOf(component)
	if compType != nil && compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}
	return compType
}

// unique reports whether instances of t have distinct addresses. Zero-size
// values may all share one address, so they cannot be told apart by pointer.
func unique(t reflect.Type) bool {
	return t.Size() > 0
}
