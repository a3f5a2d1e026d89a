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
	"log"
	"runtime"

	"github.com/botobag/umbra/internal/util"
)

// ErrKind defines the kind of error this is.
type ErrKind uint8

// Valid ErrKind values
const (
	ErrKindOther             ErrKind = iota // Unclassified error. This value is not printed in the error message.
	ErrKindSchema                           // A marked field's type cannot be classified for projection.
	ErrKindDepthExceeded                    // Projection recursion went past the configured depth bound.
	ErrKindDuplicateProperty                // A custom property collides with an existing field or property.
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindOther:
		return "other error"
	case ErrKindSchema:
		return "schema error"
	case ErrKindDepthExceeded:
		return "depth exceeded"
	case ErrKindDuplicateProperty:
		return "duplicate property"
	}
	return "unknown error kind"
}

// Op describes an operation, usually as the package and method, such as "shade.CreateProjection".
type Op string

// ErrorWithPath indicates an error that can be associated with a position in the projected entity
// graph. If "path" is not given in the arguments to NewError, NewError will retrieve the one from
// the underlying error (if provided) that implements this interface.
type ErrorWithPath interface {
	Path() Path
}

// An Error describes an error found while resolving a projection schema, building a projection or
// mutating a produced projection through its handle.
//
// An Error can be built by wrapping an error value. Information (if unspecified in the arguments
// to NewError) in the error value will be propagated to the newly created Error. It also includes
// Op and ErrKind which will show when printing the error value. This makes it helpful for
// programmers.
type Error struct {
	// Message describes the error for debugging purposes.
	Message string

	// Path describes the position in the projected entity graph which experienced the error. It is
	// included when an error can be associated to a particular field during a build.
	Path Path

	// The underlying error that triggered this one
	Err error

	// Op is the operation being performed, usually the name of the method being invoked.
	Op Op

	// Kind is the class of error
	Kind ErrKind
}

// Error implements Go error interface.
var _ error = (*Error)(nil)

// NewError builds an error value from arguments. Inspired by the design of upspin.io/errors [0].
//
// [0]: https://commandcenter.blogspot.com/2017/12/error-handling-in-upspin.html.
func NewError(message string, args ...interface{}) error {
	e := &Error{
		Message: message,
	}

	for _, arg := range args {
		switch arg := arg.(type) {
		case Path:
			e.Path = arg

		case error:
			e.Err = arg

		case Op:
			e.Op = arg

		case ErrKind:
			e.Kind = arg

		default:
			_, file, line, _ := runtime.Caller(1)
			log.Printf("NewError: bad call from %s:%d: %v", file, line, args)
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	// Propagate path from underlying error when one is not provided in argument.
	prev := e.Err
	if prev != nil {
		if e.Path.Empty() {
			switch errWithPath := prev.(type) {
			case ErrorWithPath:
				e.Path = errWithPath.Path()
			case *Error:
				if !errWithPath.Path.Empty() {
					e.Path = errWithPath.Path.Clone()
				}
			}
		}

		// Pull kind from underlying error.
		if e.Kind == ErrKindOther {
			if prev, ok := prev.(*Error); ok {
				e.Kind = prev.Kind
			}
		}
	}

	return e
}

// WrapError is a convenient wrapper to build an Error value from an underlying error with a
// message.
func WrapError(err error, message string) error {
	return NewError(message, err)
}

// WrapErrorf is similar to WrapError but with the format specifier.
func WrapErrorf(err error, format string, args ...interface{}) error {
	return NewError(fmt.Sprintf(format, args...), err)
}

// Error implements Go's error interface.
func (e *Error) Error() string {
	var b util.StringBuilder

	// pad appends str to the buffer if the buffer already has some data.
	pad := func(str string) {
		if b.Len() == 0 {
			return
		}
		b.WriteString(str)
	}

	if len(e.Op) > 0 {
		b.WriteString(string(e.Op))
	}

	if len(e.Message) > 0 {
		pad(": ")
		b.WriteString(e.Message)
	}

	if !e.Path.Empty() {
		pad(" ")
		b.WriteString("at ")
		b.WriteString(e.Path.String())
	}

	if e.Kind != ErrKindOther {
		pad(": ")
		b.WriteString(e.Kind.String())
	}

	if e.Err != nil {
		pad(": ")
		b.WriteString(e.Err.Error())
	}

	if b.Len() == 0 {
		return "no error"
	}
	return b.String()
}

// Unwrap returns the underlying error to support errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// kindOf reports the kind of err, chasing the chain of wrapped errors for the first *Error that
// carries a kind other than ErrKindOther.
func kindOf(err error) ErrKind {
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			return ErrKindOther
		}
		if e.Kind != ErrKindOther {
			return e.Kind
		}
		err = e.Err
	}
	return ErrKindOther
}

// IsSchemaError returns true if err indicates a failure to classify a marked field during schema
// resolution.
func IsSchemaError(err error) bool {
	return kindOf(err) == ErrKindSchema
}

// IsDepthExceeded returns true if err indicates the projection recursion tripped the configured
// depth bound.
func IsDepthExceeded(err error) bool {
	return kindOf(err) == ErrKindDepthExceeded
}

// IsDuplicateProperty returns true if err indicates a custom property name collision.
func IsDuplicateProperty(err error) bool {
	return kindOf(err) == ErrKindDuplicateProperty
}
