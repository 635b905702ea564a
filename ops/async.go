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

package ops

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dnrt/dnrt/rterr"
)

// PromiseID identifies one outstanding async op's JS-side promise.
type PromiseID uint64

// Completion is the result of one async op, handed to the event loop for
// draining into the isolate (§4.I step 3).
type Completion struct {
	ID     PromiseID
	Result []byte
	Err    error
}

// Task tracks one in-flight async op: its own cancellation (derived from
// the resource handle, if any, and the isolate shutdown token per §4.H)
// and the channel its completion arrives on.
type Task struct {
	ID     PromiseID
	cancel context.CancelFunc
	done   chan Completion
}

// Cancel fires the task's CancellationToken; the op observes it at its
// next await point and the eventual Completion carries an Interrupted
// error (§4.H "A cancelled op rejects with Interrupted").
func (t *Task) Cancel() { t.cancel() }

// TaskBoard tracks every in-flight async op for one isolate.
type TaskBoard struct {
	mu      sync.Mutex
	nextID  uint64
	tasks   map[PromiseID]*Task
	pending atomic.Int64
}

func NewTaskBoard() *TaskBoard {
	return &TaskBoard{tasks: make(map[PromiseID]*Task)}
}

// Submit launches op under a context derived from parent (isolate
// shutdown) and, if resourceCtx is non-nil, also cancelled when the
// owning resource handle closes. The Completion is delivered on the
// returned channel exactly once.
func (b *TaskBoard) Submit(parent context.Context, resourceCtx context.Context, registry *Registry, state State, name string, args []byte) <-chan Completion {
	ctx := parent
	if resourceCtx != nil {
		ctx = mergeContexts(parent, resourceCtx)
	}
	ctx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	b.nextID++
	id := PromiseID(b.nextID)
	done := make(chan Completion, 1)
	b.tasks[id] = &Task{ID: id, cancel: cancel, done: done}
	b.mu.Unlock()
	b.pending.Add(1)

	go func() {
		result, err := registry.DispatchAsync(ctx, state, name, args)
		if ctx.Err() != nil {
			result = nil
			err = rterr.Wrap(rterr.Interrupted, err, "op %s interrupted", name)
		}
		b.mu.Lock()
		delete(b.tasks, id)
		b.mu.Unlock()
		b.pending.Add(-1)
		done <- Completion{ID: id, Result: result, Err: err}
	}()

	return done
}

// Cancel cancels the task for id, if still outstanding.
func (b *TaskBoard) Cancel(id PromiseID) {
	b.mu.Lock()
	t, ok := b.tasks[id]
	b.mu.Unlock()
	if ok {
		t.Cancel()
	}
}

// Pending reports the number of in-flight async ops — consulted by the
// event loop's shutdown condition (§4.H, §4.I).
func (b *TaskBoard) Pending() int64 { return b.pending.Load() }

// mergeContexts returns a context cancelled when either input is
// cancelled, since context.Context has no built-in join.
func mergeContexts(a, b context.Context) context.Context {
	ctx, cancel := context.WithCancel(a)
	go func() {
		select {
		case <-a.Done():
		case <-b.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx
}
