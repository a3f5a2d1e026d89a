/**
 * Copyright (c) 2019, The Shade Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package shade

import (
	"fmt"
	"reflect"
	"time"
	"unsafe"

	"github.com/modern-go/reflect2"
)

const opResolveSchema Op = "shade.ResolveSchema"

var timeType = reflect.TypeOf(time.Time{})

// extractor introspects one entity type and produces its Schema. All type introspection happens
// here, once per type; the accessors it builds from reflect2 are the only thing the build hot path
// touches.
type extractor struct {
	provider FieldMetadataProvider
}

func (x extractor) extract(entityType reflect.Type) (*Schema, error) {
	if entityType.Kind() != reflect.Struct {
		return nil, NewError(
			fmt.Sprintf("cannot resolve projection schema for non-struct type %s", entityType),
			ErrKindSchema, opResolveSchema)
	}

	fields, err := x.structFields(entityType, nil, map[string]struct{}{})
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, NewError(
			fmt.Sprintf("type %s has no fields marked for projection", entityType),
			ErrKindSchema, opResolveSchema)
	}

	return &Schema{
		entityType: entityType,
		fields:     fields,
	}, nil
}

// structFields collects descriptors for the marked fields of t in declaration order. base, when
// non-nil, maps a pointer to the enclosing entity struct to a pointer to the embedded struct t;
// fields of untagged anonymous structs are flattened into the enclosing schema this way.
func (x extractor) structFields(
	t reflect.Type,
	base func(unsafe.Pointer) unsafe.Pointer,
	seen map[string]struct{}) ([]*FieldDescriptor, error) {

	structType := reflect2.Type2(t).(reflect2.StructType)

	var fields []*FieldDescriptor
	numFields := t.NumField()
	for i := 0; i < numFields; i++ {
		field := t.Field(i)

		// get maps a pointer to the top-level entity struct to a pointer to this field.
		get := structType.Field(i).UnsafeGet
		if base != nil {
			inner := get
			outer := base
			get = func(structPtr unsafe.Pointer) unsafe.Pointer {
				return inner(outer(structPtr))
			}
		}

		meta := x.provider.FieldMetadata(field)

		if x.flattens(field, meta) {
			embedded, err := x.structFields(field.Type, get, seen)
			if err != nil {
				return nil, err
			}
			fields = append(fields, embedded...)
			continue
		}

		if len(field.PkgPath) > 0 {
			// Unexported fields are never eligible.
			continue
		}
		if !meta.Include {
			continue
		}

		desc, err := x.makeDescriptor(t, field, meta.Name, get)
		if err != nil {
			return nil, err
		}
		if _, exists := seen[desc.name]; exists {
			return nil, NewError(
				fmt.Sprintf("type %s projects two fields under the name %q", t, desc.name),
				ErrKindSchema, opResolveSchema)
		}
		seen[desc.name] = struct{}{}
		fields = append(fields, desc)
	}

	return fields, nil
}

// flattens reports whether field is an anonymous struct whose fields should be folded into the
// enclosing schema. An anonymous field that carries its own inclusion marker is treated as a
// regular reference field instead.
func (x extractor) flattens(field reflect.StructField, meta FieldMetadata) bool {
	return field.Anonymous &&
		!meta.Include &&
		len(field.PkgPath) == 0 &&
		field.Type.Kind() == reflect.Struct &&
		field.Type != timeType
}

func (x extractor) makeDescriptor(
	owner reflect.Type,
	field reflect.StructField,
	name string,
	get func(unsafe.Pointer) unsafe.Pointer) (*FieldDescriptor, error) {

	desc := &FieldDescriptor{
		name:      name,
		goName:    field.Name,
		fieldType: field.Type,
	}
	fieldType := field.Type

	switch {
	case isSupportedScalar(fieldType):
		desc.kind = ScalarField
		fieldType2 := reflect2.Type2(fieldType)
		desc.read = func(structPtr unsafe.Pointer) interface{} {
			// Copy the value out so the projection never aliases entity memory.
			value := fieldType2.UnsafeNew()
			fieldType2.UnsafeSet(value, get(structPtr))
			return fieldType2.UnsafeIndirect(value)
		}
		return desc, nil

	case fieldType.Kind() == reflect.Ptr && x.projectable(fieldType.Elem()):
		desc.kind = ReferenceField
		desc.nestedType = fieldType.Elem()
		desc.tracked = true
		desc.target = func(structPtr unsafe.Pointer) unsafe.Pointer {
			return *(*unsafe.Pointer)(get(structPtr))
		}
		return desc, nil

	case fieldType.Kind() == reflect.Struct && x.projectable(fieldType):
		// An inline struct reference has no identity of its own and cannot close a cycle.
		desc.kind = ReferenceField
		desc.nestedType = fieldType
		desc.target = get
		return desc, nil

	case fieldType.Kind() == reflect.Slice || fieldType.Kind() == reflect.Array:
		elemType := fieldType.Elem()
		nestedType := elemType
		tracked := false
		if elemType.Kind() == reflect.Ptr {
			nestedType = elemType.Elem()
			tracked = true
		}
		if !x.projectable(nestedType) {
			break
		}

		desc.kind = CollectionField
		desc.nestedType = nestedType
		desc.tracked = tracked

		listType := reflect2.Type2(fieldType).(reflect2.ListType)
		if fieldType.Kind() == reflect.Slice {
			sliceType := listType.(reflect2.SliceType)
			desc.length = func(structPtr unsafe.Pointer) int {
				return sliceType.UnsafeLengthOf(get(structPtr))
			}
		} else {
			arrayLen := fieldType.Len()
			desc.length = func(unsafe.Pointer) int {
				return arrayLen
			}
		}

		if tracked {
			desc.index = func(structPtr unsafe.Pointer, i int) unsafe.Pointer {
				return *(*unsafe.Pointer)(listType.UnsafeGetIndex(get(structPtr), i))
			}
		} else {
			desc.index = func(structPtr unsafe.Pointer, i int) unsafe.Pointer {
				return listType.UnsafeGetIndex(get(structPtr), i)
			}
		}
		return desc, nil
	}

	return nil, NewError(
		fmt.Sprintf("field %s of %s is marked for projection but its type %s is neither a supported scalar nor a projectable entity type",
			field.Name, owner, fieldType),
		ErrKindSchema, opResolveSchema)
}

// projectable reports whether t is an entity type eligible for projection: a struct with at least
// one marked field.
func (x extractor) projectable(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t == timeType {
		return false
	}
	return x.hasMarkedField(t)
}

// hasMarkedField scans the fields of t, descending through untagged anonymous structs, for one
// carrying the inclusion marker. It deliberately stops at one level of nesting otherwise: whether
// the nested types themselves resolve is decided lazily when their schemas are requested.
func (x extractor) hasMarkedField(t reflect.Type) bool {
	numFields := t.NumField()
	for i := 0; i < numFields; i++ {
		field := t.Field(i)
		meta := x.provider.FieldMetadata(field)
		if x.flattens(field, meta) {
			if x.hasMarkedField(field.Type) {
				return true
			}
			continue
		}
		if len(field.PkgPath) > 0 {
			continue
		}
		if meta.Include {
			return true
		}
	}
	return false
}

// isSupportedScalar reports whether values of t are copied into projections as-is. Sequences of
// scalars count as scalars; they are copied with Go value semantics rather than projected
// element-wise.
func isSupportedScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	case reflect.Slice, reflect.Array:
		return isSupportedScalar(t.Elem())
	case reflect.Struct:
		return t == timeType
	}
	return false
}
