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

// A DiagnosticListener observes engine events for observability. Events fire synchronously on the
// goroutine performing the operation; implementations that can block should hand off. Registering
// a listener never changes projection behavior.
type DiagnosticListener interface {
	// SchemaResolved is called once per entity type, after its schema is computed and published.
	SchemaResolved(entityType reflect.Type)

	// CacheHit is called when a schema request is served from the cache.
	CacheHit(entityType reflect.Type)

	// CycleDetected is called when a back-reference is short-circuited during a build. path locates
	// the omitted field from the top-level entity.
	CycleDetected(path Path)
}

// nopDiagnosticListener is used when no listener is configured.
type nopDiagnosticListener struct{}

var _ DiagnosticListener = nopDiagnosticListener{}

func (nopDiagnosticListener) SchemaResolved(reflect.Type) {}
func (nopDiagnosticListener) CacheHit(reflect.Type)       {}
func (nopDiagnosticListener) CycleDetected(Path)          {}
