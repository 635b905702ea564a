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

// Package ops implements op dispatch (§4.H): sync ops return a result or
// error synchronously; async ops return immediately and resolve their
// promise later through the event loop.
package ops

import (
	"context"

	"github.com/dnrt/dnrt/rterr"
)

// State is the per-isolate context every op receives: whatever the
// embedder chooses to carry (the permission engine, resource table,
// module graph, etc.), type-erased here so this package doesn't import
// every component it might be asked to gate.
type State any

// SyncOp takes (state, args) and returns a result or error synchronously
// from the same V8 callback (§4.H).
type SyncOp func(state State, args []byte) ([]byte, error)

// AsyncOp takes (state, args) and a context carrying the op's
// CancellationToken (§4.H "every async op accepts an implicit
// CancellationToken"), returning when the awaited work completes.
type AsyncOp func(ctx context.Context, state State, args []byte) ([]byte, error)

// Registry is the isolate-wide table of named ops, populated at extension
// registration time (§4.H "Argument transport is typed at registration
// time").
type Registry struct {
	sync map[string]SyncOp
	async map[string]AsyncOp
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sync: make(map[string]SyncOp), async: make(map[string]AsyncOp)}
}

// RegisterSync registers a synchronous op under name. Registering the same
// name twice panics — that's a programming error in extension setup, not a
// runtime condition.
func (r *Registry) RegisterSync(name string, op SyncOp) {
	if _, exists := r.sync[name]; exists {
		panic("ops: sync op already registered: " + name)
	}
	r.sync[name] = op
}

// RegisterAsync registers an asynchronous op under name.
func (r *Registry) RegisterAsync(name string, op AsyncOp) {
	if _, exists := r.async[name]; exists {
		panic("ops: async op already registered: " + name)
	}
	r.async[name] = op
}

// DispatchSync invokes the named sync op.
func (r *Registry) DispatchSync(state State, name string, args []byte) ([]byte, error) {
	op, ok := r.sync[name]
	if !ok {
		return nil, rterr.New(rterr.NotSupported, "no such sync op: %s", name)
	}
	return op(state, args)
}

// DispatchAsync invokes the named async op. The caller (the op-bridge
// binding goja to this registry) is responsible for wiring the returned
// result into the originating promise via the event loop's completion
// queue.
func (r *Registry) DispatchAsync(ctx context.Context, state State, name string, args []byte) ([]byte, error) {
	op, ok := r.async[name]
	if !ok {
		return nil, rterr.New(rterr.NotSupported, "no such async op: %s", name)
	}
	return op(ctx, state, args)
}

// HasAsync reports whether name is a registered async op, used by the
// bridge to decide which dispatch path a call takes.
func (r *Registry) HasAsync(name string) bool {
	_, ok := r.async[name]
	return ok
}
