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
	"unsafe"

	jsoniter "github.com/json-iterator/go"
)

// A ProjectionField is one named value in a projection. Value holds a scalar copy, a *Projection
// for a reference field (nil for a nil reference), a []*Projection for a collection field, or the
// stored result of a computed property.
type ProjectionField struct {
	Name  string
	Kind  FieldKind
	Value interface{}
}

// A Projection is the reduced counterpart of one entity instance: an ordered record holding only
// the exported fields, with nested entities replaced by their own projections. Field order always
// matches the schema's declaration order, followed by computed properties in insertion order.
//
// A Projection is only mutated through the Handle that wraps it.
type Projection struct {
	fields []ProjectionField
}

// NumFields returns the number of fields in the projection.
func (projection *Projection) NumFields() int {
	return len(projection.fields)
}

// Fields returns the fields in order. The returned slice is owned by the projection and must not
// be modified.
func (projection *Projection) Fields() []ProjectionField {
	return projection.fields
}

// Field returns the value of the named field. The second return value is false when the
// projection has no such field.
func (projection *Projection) Field(name string) (interface{}, bool) {
	for _, field := range projection.fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return nil, false
}

// projectionMarshaller implements jsoniter.ValEncoder to encode a Projection to a JSON object
// whose keys appear in field order.
type projectionMarshaller struct{}

var _ jsoniter.ValEncoder = projectionMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (projectionMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return len((*Projection)(ptr).fields) == 0
}

// Encode implements jsoniter.ValEncoder.
func (projectionMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	projection := (*Projection)(ptr)
	numFields := len(projection.fields)
	stream.WriteObjectStart()
	for i, field := range projection.fields {
		stream.WriteObjectField(field.Name)
		writeProjectionValue(stream, field.Value)
		if i != numFields-1 {
			stream.WriteMore()
		}
	}
	stream.WriteObjectEnd()
}

func writeProjectionValue(stream *jsoniter.Stream, value interface{}) {
	switch value := value.(type) {
	case nil:
		stream.WriteNil()

	case *Projection:
		if value == nil {
			stream.WriteNil()
			break
		}
		projectionMarshaller{}.Encode(unsafe.Pointer(value), stream)

	case []*Projection:
		numElements := len(value)
		stream.WriteArrayStart()
		for i, element := range value {
			writeProjectionValue(stream, element)
			if i != numElements-1 {
				stream.WriteMore()
			}
		}
		stream.WriteArrayEnd()

	default:
		stream.WriteVal(value)
	}
}

// MarshalJSON serializes the projection to JSON.
func (projection *Projection) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(projection)
}

func init() {
	jsoniter.RegisterTypeEncoder("shade.Projection", projectionMarshaller{})
}
