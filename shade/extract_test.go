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
	"time"

	"github.com/botobag/umbra/shade"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Schema resolution", func() {
	var projector *shade.Projector

	BeforeEach(func() {
		projector = shade.NewProjector()
	})

	resolve := func(entity interface{}) (*shade.Schema, error) {
		return projector.ResolveSchema(reflect.TypeOf(entity))
	}

	It("returns marked fields in declaration order with their classification", func() {
		schema, err := resolve(Order{})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(schema.EntityType()).Should(Equal(reflect.TypeOf(Order{})))

		fields := schema.Fields()
		Expect(fields).Should(HaveLen(4))

		Expect(fields[0].Name()).Should(Equal("id"))
		Expect(fields[0].Kind()).Should(Equal(shade.ScalarField))
		Expect(fields[0].GoName()).Should(Equal("ID"))

		Expect(fields[1].Name()).Should(Equal("total"))
		Expect(fields[1].Kind()).Should(Equal(shade.ScalarField))

		Expect(fields[2].Name()).Should(Equal("customer"))
		Expect(fields[2].Kind()).Should(Equal(shade.ReferenceField))
		Expect(fields[2].NestedType()).Should(Equal(reflect.TypeOf(Customer{})))

		Expect(fields[3].Name()).Should(Equal("lines"))
		Expect(fields[3].Kind()).Should(Equal(shade.CollectionField))
		Expect(fields[3].NestedType()).Should(Equal(reflect.TypeOf(Line{})))
	})

	It("classifies time, strings and scalar sequences as scalars", func() {
		type entity struct {
			When time.Time `shade:"when"`
			Tags []string  `shade:"tags"`
			Blob []byte    `shade:"blob"`
			Pair [2]int    `shade:"pair"`
		}
		schema, err := resolve(entity{})
		Expect(err).ShouldNot(HaveOccurred())
		for _, field := range schema.Fields() {
			Expect(field.Kind()).Should(Equal(shade.ScalarField), field.Name())
		}
	})

	It("classifies inline struct fields of projectable types as references", func() {
		type address struct {
			City string `shade:"city"`
		}
		type entity struct {
			Home address `shade:"home"`
		}
		schema, err := resolve(entity{})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(schema.Fields()[0].Kind()).Should(Equal(shade.ReferenceField))
		Expect(schema.Fields()[0].NestedType()).Should(Equal(reflect.TypeOf(address{})))
	})

	It("classifies slices and arrays of projectable types as collections", func() {
		type entity struct {
			ByValue []Line   `shade:"byValue"`
			ByRef   []*Line  `shade:"byRef"`
			Fixed   [2]*Line `shade:"fixed"`
		}
		schema, err := resolve(entity{})
		Expect(err).ShouldNot(HaveOccurred())
		for _, field := range schema.Fields() {
			Expect(field.Kind()).Should(Equal(shade.CollectionField), field.Name())
			Expect(field.NestedType()).Should(Equal(reflect.TypeOf(Line{})))
		}
	})

	It("flattens untagged embedded structs into the enclosing schema", func() {
		type Audit struct {
			CreatedBy string `shade:"createdBy"`
		}
		type entity struct {
			Audit
			Name string `shade:"name"`
		}
		schema, err := resolve(entity{})
		Expect(err).ShouldNot(HaveOccurred())

		fields := schema.Fields()
		Expect(fields).Should(HaveLen(2))
		Expect(fields[0].Name()).Should(Equal("createdBy"))
		Expect(fields[1].Name()).Should(Equal("name"))
	})

	It("treats a tagged embedded struct as a regular reference field", func() {
		type Audit struct {
			CreatedBy string `shade:"createdBy"`
		}
		type entity struct {
			Audit `shade:"audit"`
		}
		schema, err := resolve(entity{})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(schema.Fields()).Should(HaveLen(1))
		Expect(schema.Fields()[0].Name()).Should(Equal("audit"))
		Expect(schema.Fields()[0].Kind()).Should(Equal(shade.ReferenceField))
	})

	It("rejects marked fields whose type cannot be projected", func() {
		type entity struct {
			Events chan int `shade:"events"`
		}
		_, err := resolve(entity{})
		Expect(err).Should(HaveOccurred())
		Expect(shade.IsSchemaError(err)).Should(BeTrue())
	})

	It("rejects marked map fields", func() {
		type entity struct {
			Attrs map[string]string `shade:"attrs"`
		}
		_, err := resolve(entity{})
		Expect(shade.IsSchemaError(err)).Should(BeTrue())
	})

	It("rejects marked pointers to non-entity types", func() {
		type entity struct {
			Count *int `shade:"count"`
		}
		_, err := resolve(entity{})
		Expect(shade.IsSchemaError(err)).Should(BeTrue())
	})

	It("rejects marked references to types without marked fields", func() {
		type bare struct {
			Name string
		}
		type entity struct {
			Ref *bare `shade:"ref"`
		}
		_, err := resolve(entity{})
		Expect(shade.IsSchemaError(err)).Should(BeTrue())
	})

	It("rejects types without any marked field", func() {
		type entity struct {
			Name string
		}
		_, err := resolve(entity{})
		Expect(shade.IsSchemaError(err)).Should(BeTrue())
	})

	It("rejects two fields projected under the same name", func() {
		type entity struct {
			A string `shade:"name"`
			B string `shade:"name"`
		}
		_, err := resolve(entity{})
		Expect(shade.IsSchemaError(err)).Should(BeTrue())
	})

	It("never includes unexported fields", func() {
		schema, err := resolve(Customer{})
		Expect(err).ShouldNot(HaveOccurred())
		for _, field := range schema.Fields() {
			Expect(field.GoName()).ShouldNot(Equal("internal"))
		}
	})
})
