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
	"unsafe"
)

// traversalContext carries the state of one top-level build call. It is owned exclusively by that
// call's recursion and never shared across concurrent builds.
type traversalContext struct {
	// visited holds the identities of pointer-backed entities already projected in this build. An
	// identity is added when the builder descends into the entity and is never removed, so a
	// back-reference anywhere in the remaining traversal is omitted instead of expanded again.
	visited map[unsafe.Pointer]struct{}

	// skipChildren omits reference and collection fields entirely.
	skipChildren bool

	// depth is the current recursion depth, checked against the projector's bound.
	depth int

	// path mirrors the current traversal position for diagnostics and errors.
	path Path
}

// build produces the projection of the entity at structPtr using its resolved schema. Fields are
// emitted in schema order; nested schemas are resolved through the cache as the traversal reaches
// them.
func (projector *Projector) build(schema *Schema, structPtr unsafe.Pointer, ctx *traversalContext) (*Projection, error) {
	if ctx.depth > projector.maxDepth {
		return nil, NewError(
			fmt.Sprintf("projection of %s exceeded the maximum depth of %d", schema.EntityType(), projector.maxDepth),
			ErrKindDepthExceeded, opCreateProjection, ctx.path.Clone())
	}

	projection := &Projection{
		fields: make([]ProjectionField, 0, schema.NumFields()),
	}

	for _, desc := range schema.fields {
		switch desc.kind {
		case ScalarField:
			projection.fields = append(projection.fields, ProjectionField{
				Name:  desc.name,
				Kind:  ScalarField,
				Value: desc.read(structPtr),
			})

		case ReferenceField:
			if ctx.skipChildren {
				continue
			}

			target := desc.target(structPtr)
			if target == nil {
				// A nil reference projects to null; it never recurses.
				projection.fields = append(projection.fields, ProjectionField{
					Name: desc.name,
					Kind: ReferenceField,
				})
				continue
			}

			if desc.tracked {
				if _, seen := ctx.visited[target]; seen {
					// Cycle short-circuit: the field is omitted, not an error.
					ctx.path.AppendFieldName(desc.name)
					projector.listener.CycleDetected(ctx.path.Clone())
					ctx.path.pop()
					continue
				}
				ctx.visited[target] = struct{}{}
			}

			nestedSchema, err := projector.ResolveSchema(desc.nestedType)
			if err != nil {
				return nil, err
			}

			ctx.path.AppendFieldName(desc.name)
			ctx.depth++
			nested, err := projector.build(nestedSchema, target, ctx)
			ctx.depth--
			ctx.path.pop()
			if err != nil {
				return nil, err
			}

			projection.fields = append(projection.fields, ProjectionField{
				Name:  desc.name,
				Kind:  ReferenceField,
				Value: nested,
			})

		case CollectionField:
			if ctx.skipChildren {
				continue
			}

			numElements := desc.length(structPtr)
			// An empty (or nil) input collection yields an empty sequence, never null or absent.
			elements := make([]*Projection, 0, numElements)

			var nestedSchema *Schema
			if numElements > 0 {
				var err error
				nestedSchema, err = projector.ResolveSchema(desc.nestedType)
				if err != nil {
					return nil, err
				}
			}

			for i := 0; i < numElements; i++ {
				target := desc.index(structPtr, i)
				if target == nil {
					elements = append(elements, nil)
					continue
				}

				if desc.tracked {
					if _, seen := ctx.visited[target]; seen {
						ctx.path.AppendFieldName(desc.name)
						ctx.path.AppendIndex(i)
						projector.listener.CycleDetected(ctx.path.Clone())
						ctx.path.pop()
						ctx.path.pop()
						continue
					}
					ctx.visited[target] = struct{}{}
				}

				ctx.path.AppendFieldName(desc.name)
				ctx.path.AppendIndex(i)
				ctx.depth++
				nested, err := projector.build(nestedSchema, target, ctx)
				ctx.depth--
				ctx.path.pop()
				ctx.path.pop()
				if err != nil {
					return nil, err
				}

				elements = append(elements, nested)
			}

			projection.fields = append(projection.fields, ProjectionField{
				Name:  desc.name,
				Kind:  CollectionField,
				Value: elements,
			})
		}
	}

	return projection, nil
}
