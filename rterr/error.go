/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package rterr

import "fmt"

// Error is the single concrete error type produced by core components.
// It always carries a closed Kind (and optionally a Subkind) so callers on
// either side of the native/JS boundary can switch on a fixed set rather
// than inspect message text.
type Error struct {
	Kind    Kind
	Sub     Subkind
	Message string
	Cause   error

	// API and Descriptor are populated for PermissionDenied errors per §4.B.
	API        string
	Descriptor string

	// Path is populated for Module/Package errors carrying a manifest or
	// module path, per §4.F's "attach the originating manifest path".
	Path string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Sub != NoSubkind {
		return e.Sub.String()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Class returns the JS error class name this error surfaces as.
func (e *Error) Class() string { return e.Kind.Class() }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func NewSub(kind Kind, sub Subkind, format string, args ...any) *Error {
	return &Error{Kind: kind, Sub: sub, Message: fmt.Sprintf(format, args...)}
}

// Denied builds the single PermissionDenied error kind carrying the API
// name and the descriptor, per §4.B's failure mode.
func Denied(api, descriptor string) *Error {
	return &Error{
		Kind:       PermissionDenied,
		API:        api,
		Descriptor: descriptor,
		Message:    fmt.Sprintf("permission denied for %s: requires %s access", api, descriptor),
	}
}

// KindOf classifies err on the closed Kind enum. Callers switch on KindOf(err)
// rather than the message text. Non-*Error causes classify as Io, the
// catch-all kind for unclassified failures; a nil err has no kind.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return Io, true
		}
		err = u.Unwrap()
	}
	return NotFound, false
}
