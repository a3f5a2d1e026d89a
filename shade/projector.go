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

	"github.com/botobag/umbra/internal/util"

	"github.com/modern-go/reflect2"
)

// DefaultMaxDepth bounds projection recursion when no explicit bound is configured. True cycles
// are caught by the visited set well before this depth; the bound exists to surface
// schema-resolution bugs instead of exhausting the stack.
const DefaultMaxDepth = 64

// A Projector turns entity instances into projections. It owns the schema cache for the entity
// types it has seen (alive as long as the Projector; the package-level entry points use a
// process-lifetime instance) and the configuration shared by all of its builds. A Projector is
// safe for concurrent use by multiple goroutines.
type Projector struct {
	provider FieldMetadataProvider
	maxDepth int
	listener DiagnosticListener

	// schemas maps reflect.Type to *schemaResult.
	schemas util.SyncMap
}

// ProjectorOption configures a Projector created by NewProjector.
type ProjectorOption func(*Projector)

// WithTagName selects the struct field tag read by the default metadata provider.
func WithTagName(name string) ProjectorOption {
	return func(projector *Projector) {
		projector.provider = TagMetadataProvider{TagName: name}
	}
}

// WithMetadataProvider replaces the field marker syntax entirely.
func WithMetadataProvider(provider FieldMetadataProvider) ProjectorOption {
	return func(projector *Projector) {
		projector.provider = provider
	}
}

// WithMaxDepth overrides DefaultMaxDepth as the projection recursion bound.
func WithMaxDepth(depth int) ProjectorOption {
	return func(projector *Projector) {
		projector.maxDepth = depth
	}
}

// WithDiagnosticListener registers a listener for schema resolution, cache hit and cycle
// detection events. Absence of a listener does not change projection behavior.
func WithDiagnosticListener(listener DiagnosticListener) ProjectorOption {
	return func(projector *Projector) {
		projector.listener = listener
	}
}

// NewProjector creates a Projector with its own schema cache.
func NewProjector(opts ...ProjectorOption) *Projector {
	projector := &Projector{
		provider: TagMetadataProvider{},
		maxDepth: DefaultMaxDepth,
		listener: nopDiagnosticListener{},
	}
	for _, opt := range opts {
		opt(projector)
	}
	return projector
}

// Option configures one projection build.
type Option func(*buildOptions)

type buildOptions struct {
	skipChildren bool
}

// SkipChildren omits every reference and collection field from the built projection. It is the
// pre-build variant of Handle.DropChildren: nested projections are never built rather than built
// and discarded.
func SkipChildren() Option {
	return func(options *buildOptions) {
		options.skipChildren = true
	}
}

const opCreateProjection Op = "shade.CreateProjection"

// CreateProjection projects entity, which must be a struct or a non-nil pointer to struct, into a
// Handle wrapping its projection.
func (projector *Projector) CreateProjection(entity interface{}, opts ...Option) (*Handle, error) {
	var options buildOptions
	for _, opt := range opts {
		opt(&options)
	}

	if entity == nil {
		return nil, NewError("cannot project nil entity", opCreateProjection)
	}

	entityType := reflect.TypeOf(entity)
	structPtr := reflect2.PtrOf(entity)

	ctx := &traversalContext{
		skipChildren: options.skipChildren,
		visited:      map[unsafe.Pointer]struct{}{},
	}
	if entityType.Kind() == reflect.Ptr {
		if structPtr == nil {
			return nil, NewError("cannot project nil entity", opCreateProjection)
		}
		ctx.visited[structPtr] = struct{}{}
	} else if reflect2.Type2(entityType).LikePtr() {
		// A pointer-shaped struct is stored directly in the interface word; take the word's
		// address to recover a pointer to the struct data.
		structPtr = unsafe.Pointer(&structPtr)
	}

	schema, err := projector.ResolveSchema(entityType)
	if err != nil {
		return nil, err
	}

	projection, err := projector.build(schema, structPtr, ctx)
	if err != nil {
		return nil, err
	}

	return &Handle{
		entity:     entity,
		projection: projection,
	}, nil
}

// defaultProjector backs the package-level entry points. Its schema cache is created on first use
// and lives for the process lifetime.
var defaultProjector = NewProjector()

// CreateProjection projects entity with the default Projector. See Projector.CreateProjection.
func CreateProjection(entity interface{}, opts ...Option) (*Handle, error) {
	return defaultProjector.CreateProjection(entity, opts...)
}

// MustCreateProjection is a convenience function equivalent to CreateProjection but panics on
// failure instead of returning an error.
func MustCreateProjection(entity interface{}, opts ...Option) *Handle {
	handle, err := CreateProjection(entity, opts...)
	if err != nil {
		panic(err)
	}
	return handle
}
