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
	"strings"

	"github.com/botobag/umbra/internal/util"
)

// DefaultTagName is the struct field tag consulted by the default metadata provider.
const DefaultTagName = "shade"

// FieldMetadata describes how one struct field participates in projection.
type FieldMetadata struct {
	// Name of the field in the produced projection; empty to derive one from the Go field name in
	// lower camel case.
	Name string

	// Include is true when the field is marked for export and not excluded.
	Include bool
}

// FieldMetadataProvider answers, for a given struct field, whether the field is marked for export
// and under which name. It abstracts the concrete declarative marker syntax so the engine is not
// tied to one annotation scheme.
type FieldMetadataProvider interface {
	FieldMetadata(field reflect.StructField) FieldMetadata
}

// TagMetadataProvider reads field markers from a struct field tag. A field is included when the
// tag is present and excluded when the tag value is "-". The first comma-separated segment of the
// tag value, when non-empty, overrides the projected field name. For example,
//
//	type Order struct {
//		ID       int       `shade:"id"`
//		Total    float64   `shade:""`
//		Internal string    `shade:"-"`
//		Audit    string
//	}
//
// projects ID as "id" and Total as "total" while Internal and Audit are left out.
type TagMetadataProvider struct {
	// TagName is the struct field tag to read markers from; DefaultTagName when empty.
	TagName string
}

var _ FieldMetadataProvider = TagMetadataProvider{}

// FieldMetadata implements FieldMetadataProvider.
func (provider TagMetadataProvider) FieldMetadata(field reflect.StructField) FieldMetadata {
	tagName := provider.TagName
	if len(tagName) == 0 {
		tagName = DefaultTagName
	}

	tag, ok := field.Tag.Lookup(tagName)
	if !ok {
		return FieldMetadata{}
	}

	name := tag
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		name = tag[:idx]
	}
	if name == "-" {
		// Exclusion override.
		return FieldMetadata{}
	}

	if len(name) == 0 {
		name = util.LowerCamelCase(field.Name)
	}
	return FieldMetadata{
		Name:    name,
		Include: true,
	}
}
