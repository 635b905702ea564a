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
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/dop251/goja"

	"github.com/dnrt/dnrt/rterr"
)

// pendingPromise pairs a submitted async op's completion channel with the
// goja promise callables waiting on it. goja.Runtime is not safe for
// concurrent use, so resolve/reject must only ever be invoked from the
// goroutine driving the event loop (§4.I step 3) — Bridge.Drain is that
// single call site.
type pendingPromise struct {
	done    <-chan Completion
	resolve func(goja.Value)
	reject  func(goja.Value)
}

// Bridge exposes a Registry to a goja.Runtime as a global "__ops__" object
// with opSync(name, argsJSON) and opAsync(name, argsJSON), the narrow
// waist a real embedder's JS-facing API is built on top of.
type Bridge struct {
	runtime  *goja.Runtime
	registry *Registry
	board    *TaskBoard
	state    State
	ctx      context.Context

	mu      sync.Mutex
	pending map[PromiseID]*pendingPromise
	nextID  atomic.Uint64
}

// NewBridge installs __ops__ into runtime.
func NewBridge(ctx context.Context, runtime *goja.Runtime, registry *Registry, board *TaskBoard, state State) *Bridge {
	b := &Bridge{
		runtime:  runtime,
		registry: registry,
		board:    board,
		state:    state,
		ctx:      ctx,
		pending:  make(map[PromiseID]*pendingPromise),
	}
	obj := runtime.NewObject()
	_ = obj.Set("opSync", b.opSync)
	_ = obj.Set("opAsync", b.opAsync)
	_ = runtime.Set("__ops__", obj)
	return b
}

func (b *Bridge) opSync(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	argsJSON := []byte(call.Argument(1).String())
	result, err := b.registry.DispatchSync(b.state, name, argsJSON)
	if err != nil {
		panic(b.runtime.NewGoError(err))
	}
	return b.jsonValue(result)
}

func (b *Bridge) opAsync(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	argsJSON := []byte(call.Argument(1).String())

	promise, resolve, reject := b.runtime.NewPromise()
	done := b.board.Submit(b.ctx, nil, b.registry, b.state, name, argsJSON)

	id := PromiseID(b.nextID.Add(1))
	b.mu.Lock()
	b.pending[id] = &pendingPromise{
		done:    done,
		resolve: resolve,
		reject:  reject,
	}
	b.mu.Unlock()

	return b.runtime.ToValue(promise)
}

// Drain is called once per event-loop tick (§4.I step 3). It checks every
// pending promise's completion channel without blocking and resolves or
// rejects those that are ready, returning how many it drained.
func (b *Bridge) Drain() int {
	b.mu.Lock()
	ready := make([]PromiseID, 0)
	for id, p := range b.pending {
		select {
		case completion := <-p.done:
			b.settle(p, completion)
			ready = append(ready, id)
		default:
		}
	}
	for _, id := range ready {
		delete(b.pending, id)
	}
	n := len(ready)
	b.mu.Unlock()
	return n
}

// Pending reports how many async ops this bridge is still waiting on.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Bridge) settle(p *pendingPromise, completion Completion) {
	if completion.Err != nil {
		p.reject(b.runtime.NewGoError(completion.Err))
		return
	}
	p.resolve(b.jsonValue(completion.Result))
}

func (b *Bridge) jsonValue(data []byte) goja.Value {
	if data == nil {
		return goja.Undefined()
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		panic(b.runtime.NewGoError(rterr.Wrap(rterr.InvalidData, err, "op result is not valid JSON")))
	}
	return b.runtime.ToValue(v)
}
