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
	"reflect"
	"unsafe"
)

// FieldKind classifies an exported field for projection.
type FieldKind uint8

// Valid FieldKind values
const (
	// ScalarField is copied into the projection by value.
	ScalarField FieldKind = iota

	// ReferenceField holds a nested entity which is replaced by its own projection.
	ReferenceField

	// CollectionField holds an ordered sequence of nested entities, each replaced by its own
	// projection.
	CollectionField

	// ComputedField is a custom property added to a projection through its handle. It never appears
	// in a Schema.
	ComputedField
)

func (kind FieldKind) String() string {
	switch kind {
	case ScalarField:
		return "scalar"
	case ReferenceField:
		return "reference"
	case CollectionField:
		return "collection"
	case ComputedField:
		return "computed"
	}
	return "unknown"
}

// A FieldDescriptor describes one exported field of an entity type: its projected name, its kind
// and the accessors that read its value from an entity instance. Descriptors are created once
// during schema resolution and never mutated after the schema is published; the build hot path
// only performs table-driven value extraction through them.
type FieldDescriptor struct {
	// name of the field in the produced projection
	name string

	// goName is the name of the backing Go struct field.
	goName string

	// kind of the field
	kind FieldKind

	// fieldType is the declared Go type of the backing struct field.
	fieldType reflect.Type

	// nestedType is the entity struct type behind a reference or collection field.
	nestedType reflect.Type

	// tracked is true when the reference (or collection element) is pointer-backed and therefore
	// participates in identity-based cycle detection. Inline struct references cannot form cycles.
	tracked bool

	// read copies a scalar field value out of the entity. Only set for ScalarField.
	read func(structPtr unsafe.Pointer) interface{}

	// target returns the pointer to the referenced entity, or nil for a nil reference. Only set for
	// ReferenceField.
	target func(structPtr unsafe.Pointer) unsafe.Pointer

	// length returns the number of elements in the collection. Only set for CollectionField.
	length func(structPtr unsafe.Pointer) int

	// index returns the pointer to the i-th element entity, or nil for a nil element. Only set for
	// CollectionField.
	index func(structPtr unsafe.Pointer, i int) unsafe.Pointer
}

// Name returns the name of the field in the produced projection.
func (desc *FieldDescriptor) Name() string {
	return desc.name
}

// GoName returns the name of the backing Go struct field.
func (desc *FieldDescriptor) GoName() string {
	return desc.goName
}

// Kind returns the classification of the field.
func (desc *FieldDescriptor) Kind() FieldKind {
	return desc.kind
}

// FieldType returns the declared Go type of the backing struct field.
func (desc *FieldDescriptor) FieldType() reflect.Type {
	return desc.fieldType
}

// NestedType returns the entity struct type behind a reference or collection field, or nil for a
// scalar field.
func (desc *FieldDescriptor) NestedType() reflect.Type {
	return desc.nestedType
}

// A Schema is the ordered sequence of field descriptors for one entity type. It is resolved lazily
// on the first projection request for its type, published through the schema cache and immutable
// afterwards: resolving the schema for the same type again yields the identical Schema instance.
type Schema struct {
	entityType reflect.Type
	fields     []*FieldDescriptor
}

// EntityType returns the entity struct type the schema was resolved for.
func (schema *Schema) EntityType() reflect.Type {
	return schema.entityType
}

// Fields returns the field descriptors in declaration order. The returned slice is owned by the
// schema and must not be modified.
func (schema *Schema) Fields() []*FieldDescriptor {
	return schema.fields
}

// NumFields returns the number of exported fields.
func (schema *Schema) NumFields() int {
	return len(schema.fields)
}
