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

// Package shade projects entity object graphs into reduced, annotated shadow graphs (DTOs). Only
// fields explicitly marked for export appear in a projection; nested entities and collections of
// entities are replaced by their own projections, recursively, with identity-based cycle
// detection terminating circular graphs.
//
// Schema-CreateProjection-Handle Design
//
// Each entity type has a Schema: the ordered field descriptors resolved from its declarative
// markers (struct tags by default, any FieldMetadataProvider in general). Schemas are resolved
// lazily on first use and cached for the lifetime of their Projector, so repeated projections pay
// no introspection cost: descriptor accessors are built once and the build hot path only performs
// table-driven value extraction.
//
// CreateProjection walks an entity instance with its schema and returns a Handle. The Handle
// supports post-hoc mutation of the produced projection without rebuilding it: DropChildren
// prunes nested projections, AddProperty layers computed properties derived from the original
// entity on top, and Value materializes the result.
//
//	order := &Order{ID: 1, Total: 50, Lines: []*Line{{ID: 1, Qty: 2}, {ID: 2, Qty: 1}}}
//	handle, err := shade.CreateProjection(order, shade.SkipChildren())
//	if err != nil {
//		...
//	}
//	handle.MustAddProperty("totalQty", func(entity interface{}) interface{} {
//		qty := 0
//		for _, line := range entity.(*Order).Lines {
//			qty += line.Qty
//		}
//		return qty
//	})
//	value := handle.Value()
package shade
