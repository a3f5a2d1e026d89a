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
)

// schemaResult is the value type of a Projector's schema cache.
type schemaResult struct {
	// The resolved schema
	schema *Schema

	// Any error occurred during resolution
	err error

	// Wait for other goroutine to complete the resolution.
	done chan struct{}
}

func (result *schemaResult) waitForCompletion() (*Schema, error) {
	<-result.done
	return result.schema, result.err
}

// ResolveSchema returns the projection schema for the given entity type, resolving it on first
// request. Resolution for a type runs at most once even under concurrent first access: the caller
// that wins the LoadOrStore race runs the extractor while the others block until the schema is
// published, then read it. A published schema is immutable and reference-identical across calls.
//
// A failed resolution is not published; its error is surfaced to the caller(s) that triggered it
// and the next request for the type retries.
func (projector *Projector) ResolveSchema(entityType reflect.Type) (*Schema, error) {
	if entityType.Kind() == reflect.Ptr {
		entityType = entityType.Elem()
	}

	// Check whether the requested type has already published a schema (or has one in flight).
	if cached, ok := projector.schemas.Load(entityType); ok {
		schema, err := cached.(*schemaResult).waitForCompletion()
		if err == nil {
			projector.listener.CacheHit(entityType)
		}
		return schema, err
	}

	// Prepare a result and try to claim the ticket for this type.
	result := &schemaResult{done: make(chan struct{})}
	cached, loaded := projector.schemas.LoadOrStore(entityType, result)
	if loaded {
		// Someone sneaked in and got the ticket to resolve the schema. Wait for the completion.
		schema, err := cached.(*schemaResult).waitForCompletion()
		if err == nil {
			projector.listener.CacheHit(entityType)
		}
		return schema, err
	}

	// If here, we're responsible for resolving the schema.
	schema, err := extractor{provider: projector.provider}.extract(entityType)
	if err != nil {
		// Remove the entry before completing so the failure is never served as a schema; this will
		// wake up everyone that blocks on this result.
		projector.schemas.Delete(entityType)
		result.err = err
		close(result.done)
		return nil, err
	}

	result.schema = schema
	close(result.done)
	projector.listener.SchemaResolved(entityType)
	return schema, nil
}
