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
	"strconv"
	"unsafe"

	"github.com/botobag/umbra/internal/util"

	jsoniter "github.com/json-iterator/go"
)

// Path is an array of "key" where each key is either a string (indicating the field name) or an
// integer (indicating an index to a collection.) It locates a field in the projected entity graph
// and is reported alongside errors and cycle diagnostics.
type Path struct {
	// Currently this could only be either int or string.
	keys []interface{}
}

// Empty returns true if the path doesn't contain any path keys.
func (path Path) Empty() bool {
	return len(path.keys) == 0
}

// AppendFieldName adds a field name to the end of current path.
func (path *Path) AppendFieldName(name string) {
	path.keys = append(path.keys, name)
}

// AppendIndex adds a collection index to the end of current path.
func (path *Path) AppendIndex(index int) {
	path.keys = append(path.keys, index)
}

// pop removes the last key. The builder pushes and pops keys as it walks the entity graph so the
// path always mirrors the current traversal position.
func (path *Path) pop() {
	path.keys = path.keys[:len(path.keys)-1]
}

// Clone makes a deep copy of the path.
func (path Path) Clone() Path {
	if len(path.keys) == 0 {
		return Path{}
	}

	keys := make([]interface{}, len(path.keys))
	copy(keys, path.keys)
	return Path{keys}
}

// String serializes a Path to more readable format.
func (path Path) String() string {
	var b util.StringBuilder
	for _, key := range path.keys {
		switch key := key.(type) {
		case string:
			// Field name
			if b.Len() > 0 {
				b.WriteRune('.')
			}
			b.WriteString(key)

		case int:
			// Index
			b.WriteRune('[')
			b.WriteString(strconv.FormatInt(int64(key), 10))
			b.WriteRune(']')

			// Other types should never happen.
		}
	}
	return b.String()
}

// pathMarshaller implements jsoniter.ValEncoder to encode Path to JSON.
type pathMarshaller struct{}

var _ jsoniter.ValEncoder = pathMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (pathMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return len((*Path)(ptr).keys) == 0
}

// Encode implements jsoniter.ValEncoder.
func (pathMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	path := (*Path)(ptr)
	numPathKeys := len(path.keys)
	stream.WriteArrayStart()
	for i, key := range path.keys {
		switch key := key.(type) {
		case string:
			stream.WriteString(key)
		case int:
			stream.WriteInt(key)
		default:
			stream.Error = fmt.Errorf(`unsupported type "%T" of key in path`, key)
			return
		}

		if i != numPathKeys-1 {
			stream.WriteMore()
		}
	}
	stream.WriteArrayEnd()
}

// MarshalJSON serializes path keys to JSON.
func (path *Path) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(path)
}

func init() {
	jsoniter.RegisterTypeEncoder("shade.Path", pathMarshaller{})
}
