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

// Package resource implements the per-isolate resource table (§4.G): a
// monotone 32-bit ID allocator mapping opaque handles (files, sockets,
// timers) to the operations async ops dispatch against.
package resource

import (
	"context"
	"sync"

	"github.com/dnrt/dnrt/rterr"
)

// Handle is a type-erased resource. Every method beyond Name and Close is
// optional; a handle that doesn't support Read, Write, or Shutdown simply
// doesn't implement the corresponding interface, and ops check for it with
// a type assertion (§4.G).
type Handle interface {
	// Name is the human-readable diagnostic name, e.g. "fsFile", "tcpConn".
	Name() string
	// Close releases the handle. Idempotent: a second call is a no-op that
	// returns nil, matching §4.G ("Close is idempotent").
	Close() error
}

// Reader is implemented by handles supporting async reads.
type Reader interface {
	Read(ctx context.Context, buf []byte) (n int, err error)
}

// Writer is implemented by handles supporting async writes.
type Writer interface {
	Write(ctx context.Context, buf []byte) (nwritten int, err error)
}

// Shutdowner is implemented by handles with a distinct half-close
// operation (e.g. a TCP connection's shutdown(SHUT_WR)).
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// entry pairs a Handle with the cancellation machinery §4.G and §5
// describe: closing the handle cancels every in-flight op against it.
type entry struct {
	handle Handle
	cancel context.CancelFunc
	closed bool
}

// Table is the per-isolate resource table. Not shared across isolates
// (§5 "Shared state").
type Table struct {
	mu      sync.Mutex
	nextID  uint32
	entries map[uint32]*entry
}

// New creates an empty Table. IDs start at 3, leaving 0-2 unallocated the
// way POSIX reserves them for stdin/stdout/stderr.
func New() *Table {
	return &Table{nextID: 3, entries: make(map[uint32]*entry)}
}

// Add allocates the next ID for h and returns it along with a
// context.Context whose cancellation fires when h is closed (§4.G
// "Cancellation tokens attached to the handle fire on close").
func (t *Table) Add(parent context.Context, h Handle) (uint32, context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	ctx, cancel := context.WithCancel(parent)
	t.entries[id] = &entry{handle: h, cancel: cancel}
	return id, ctx
}

// Get retrieves the handle for id, or a BadResource error if it doesn't
// exist or was already closed.
func (t *Table) Get(id uint32) (Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	if !ok || e.closed {
		return nil, rterr.New(rterr.BadResource, "bad resource id %d", id)
	}
	return e.handle, nil
}

// Close closes and removes id, cancelling its context and making further
// operations against it fail with BadResource. Closing an already-closed
// or nonexistent id is an error the first time it's discovered missing,
// but closing twice in a race is safe (only the first caller runs
// handle.Close()).
func (t *Table) Close(id uint32) error {
	t.mu.Lock()
	e, ok := t.entries[id]
	if !ok || e.closed {
		t.mu.Unlock()
		return rterr.New(rterr.BadResource, "bad resource id %d", id)
	}
	e.closed = true
	delete(t.entries, id)
	t.mu.Unlock()

	e.cancel()
	return e.handle.Close()
}

// CloseAll closes every remaining handle, used on isolate shutdown (§5
// "Isolate shutdown cancels all ops transitively").
func (t *Table) CloseAll() {
	t.mu.Lock()
	ids := make([]uint32, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	t.mu.Unlock()
	for _, id := range ids {
		_ = t.Close(id)
	}
}

// Len reports the number of open handles. The event loop's done check
// (eventloop.Loop) does not consult it: it looks only at timers, pending
// ops and pending dynamic imports, so open handles do not keep it running.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
