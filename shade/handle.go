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
)

// ComputeFunc derives the value of a custom property from the original entity the projection was
// built from, not from the projection itself.
type ComputeFunc func(entity interface{}) interface{}

// A Handle wraps one produced projection and exposes post-hoc mutation on it: pruning children
// and layering computed properties on top, without re-running the builder. It is exclusively
// owned by the caller that received it and has no further interaction with the schema cache or
// the traversal that produced it.
type Handle struct {
	entity     interface{}
	projection *Projection

	// custom holds properties added through AddProperty, in insertion order.
	custom []ProjectionField
}

const opAddProperty Op = "shade.Handle.AddProperty"

// Entity returns the original entity the projection was built from.
func (handle *Handle) Entity() interface{} {
	return handle.entity
}

// DropChildren removes every reference and collection field from the wrapped projection, leaving
// scalar fields and computed properties untouched. It is idempotent and returns the handle for
// chaining.
func (handle *Handle) DropChildren() *Handle {
	fields := handle.projection.fields[:0]
	for _, field := range handle.projection.fields {
		if field.Kind == ScalarField {
			fields = append(fields, field)
		}
	}
	handle.projection.fields = fields
	return handle
}

// AddProperty evaluates compute against the original entity and stores the result as a property
// named name on top of the projection. It fails with a duplicate property error when name
// collides with an exported field or a previously added property; a failed call does not invoke
// compute and leaves the handle unchanged. On success it returns the handle for chaining.
func (handle *Handle) AddProperty(name string, compute ComputeFunc) (*Handle, error) {
	if _, exists := handle.projection.Field(name); exists {
		return handle, NewError(
			fmt.Sprintf("projection already has a field named %q", name),
			ErrKindDuplicateProperty, opAddProperty)
	}
	for _, property := range handle.custom {
		if property.Name == name {
			return handle, NewError(
				fmt.Sprintf("property %q has already been added", name),
				ErrKindDuplicateProperty, opAddProperty)
		}
	}

	handle.custom = append(handle.custom, ProjectionField{
		Name:  name,
		Kind:  ComputedField,
		Value: compute(handle.entity),
	})
	return handle, nil
}

// MustAddProperty is a convenience function equivalent to AddProperty but panics on failure
// instead of returning an error.
func (handle *Handle) MustAddProperty(name string, compute ComputeFunc) *Handle {
	handle, err := handle.AddProperty(name, compute)
	if err != nil {
		panic(err)
	}
	return handle
}

// Value materializes the final projection: the base fields minus dropped ones, followed by the
// computed properties in insertion order.
func (handle *Handle) Value() *Projection {
	base := handle.projection
	if len(handle.custom) == 0 {
		return base
	}

	fields := make([]ProjectionField, 0, len(base.fields)+len(handle.custom))
	fields = append(fields, base.fields...)
	fields = append(fields, handle.custom...)
	return &Projection{fields: fields}
}
