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

package shade_test

import (
	"reflect"

	"github.com/botobag/umbra/shade"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("TagMetadataProvider", func() {
	fieldOf := func(entity interface{}, name string) reflect.StructField {
		field, ok := reflect.TypeOf(entity).FieldByName(name)
		Expect(ok).Should(BeTrue())
		return field
	}

	It("includes fields carrying the tag under the given name", func() {
		var provider shade.TagMetadataProvider
		meta := provider.FieldMetadata(fieldOf(Order{}, "Total"))
		Expect(meta.Include).Should(BeTrue())
		Expect(meta.Name).Should(Equal("total"))
	})

	It("excludes fields without the tag", func() {
		var provider shade.TagMetadataProvider
		meta := provider.FieldMetadata(fieldOf(Order{}, "Secret"))
		Expect(meta.Include).Should(BeFalse())
	})

	It("honors the exclusion override", func() {
		type entity struct {
			Hidden string `shade:"-"`
		}
		var provider shade.TagMetadataProvider
		meta := provider.FieldMetadata(fieldOf(entity{}, "Hidden"))
		Expect(meta.Include).Should(BeFalse())
	})

	It("derives missing names from the Go field name in lower camel case", func() {
		type entity struct {
			TotalQty int    `shade:""`
			ID       string `shade:",omitempty"`
			URLPath  string `shade:""`
		}
		var provider shade.TagMetadataProvider
		Expect(provider.FieldMetadata(fieldOf(entity{}, "TotalQty")).Name).Should(Equal("totalQty"))
		Expect(provider.FieldMetadata(fieldOf(entity{}, "ID")).Name).Should(Equal("id"))
		Expect(provider.FieldMetadata(fieldOf(entity{}, "URLPath")).Name).Should(Equal("urlPath"))
	})

	It("only reads up to the first comma in the tag value", func() {
		type entity struct {
			Count int `shade:"count,omitempty"`
		}
		var provider shade.TagMetadataProvider
		Expect(provider.FieldMetadata(fieldOf(entity{}, "Count")).Name).Should(Equal("count"))
	})

	It("reads markers from a custom tag name", func() {
		type entity struct {
			Count int `dto:"count"`
		}
		provider := shade.TagMetadataProvider{TagName: "dto"}
		meta := provider.FieldMetadata(fieldOf(entity{}, "Count"))
		Expect(meta.Include).Should(BeTrue())
		Expect(meta.Name).Should(Equal("count"))

		// The shade tag is not consulted for this provider.
		Expect(provider.FieldMetadata(fieldOf(Order{}, "Total")).Include).Should(BeFalse())
	})
})
