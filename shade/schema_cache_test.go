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
	"sync"

	"github.com/botobag/umbra/shade"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Schema cache", func() {
	It("serves reference-identical schemas for repeated resolutions", func() {
		projector := shade.NewProjector()
		first, err := projector.ResolveSchema(reflect.TypeOf(Order{}))
		Expect(err).ShouldNot(HaveOccurred())
		second, err := projector.ResolveSchema(reflect.TypeOf(Order{}))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(second).Should(BeIdenticalTo(first))
	})

	It("resolves pointer and struct types to the same schema", func() {
		projector := shade.NewProjector()
		byValue, err := projector.ResolveSchema(reflect.TypeOf(Order{}))
		Expect(err).ShouldNot(HaveOccurred())
		byPointer, err := projector.ResolveSchema(reflect.TypeOf(&Order{}))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(byPointer).Should(BeIdenticalTo(byValue))
	})

	It("resolves a schema exactly once under concurrent first access", func() {
		listener := newRecordingListener()
		projector := shade.NewProjector(shade.WithDiagnosticListener(listener))

		const numCallers = 16
		var (
			wg      sync.WaitGroup
			start   = make(chan struct{})
			schemas [numCallers]*shade.Schema
			errs    [numCallers]error
		)
		for i := 0; i < numCallers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				schemas[i], errs[i] = projector.ResolveSchema(reflect.TypeOf(Order{}))
			}(i)
		}
		close(start)
		wg.Wait()

		for i := 0; i < numCallers; i++ {
			Expect(errs[i]).ShouldNot(HaveOccurred())
			Expect(schemas[i]).Should(BeIdenticalTo(schemas[0]))
		}
		Expect(listener.numResolved(reflect.TypeOf(Order{}))).Should(Equal(1))
	})

	It("does not cache failed resolutions", func() {
		type broken struct {
			Events chan int `shade:"events"`
		}
		listener := newRecordingListener()
		projector := shade.NewProjector(shade.WithDiagnosticListener(listener))

		_, err := projector.ResolveSchema(reflect.TypeOf(broken{}))
		Expect(shade.IsSchemaError(err)).Should(BeTrue())

		// The next call retries resolution instead of serving the failure from the cache.
		_, err = projector.ResolveSchema(reflect.TypeOf(broken{}))
		Expect(shade.IsSchemaError(err)).Should(BeTrue())
		Expect(listener.numResolved(reflect.TypeOf(broken{}))).Should(Equal(0))
		Expect(listener.numHits(reflect.TypeOf(broken{}))).Should(Equal(0))
	})

	It("reports cache hits to the diagnostic listener", func() {
		listener := newRecordingListener()
		projector := shade.NewProjector(shade.WithDiagnosticListener(listener))

		_, err := projector.ResolveSchema(reflect.TypeOf(Order{}))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(listener.numHits(reflect.TypeOf(Order{}))).Should(Equal(0))

		_, err = projector.ResolveSchema(reflect.TypeOf(Order{}))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(listener.numHits(reflect.TypeOf(Order{}))).Should(Equal(1))
	})

	It("keeps caches of distinct projectors independent", func() {
		first := shade.NewProjector()
		second := shade.NewProjector()
		fromFirst, err := first.ResolveSchema(reflect.TypeOf(Order{}))
		Expect(err).ShouldNot(HaveOccurred())
		fromSecond, err := second.ResolveSchema(reflect.TypeOf(Order{}))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(fromSecond).ShouldNot(BeIdenticalTo(fromFirst))
	})
})
