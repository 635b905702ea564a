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

package loader

import (
	"context"
	"sync"

	"github.com/dop251/goja"

	"github.com/dnrt/dnrt/graph"
	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/rterr"
	"github.com/dnrt/dnrt/specifier"
)

// Transpiler converts one module's source to runnable JS, the narrow
// interface ModuleLoader needs from the transpiler package (§4.D).
type Transpiler interface {
	Transpile(s specifier.Specifier, mediaType media.Type, source []byte) (code string, sourceMap string, err error)
}

// dynamicRequest is one outstanding import() call awaiting its next
// PollDynamicImports tick (§4.I step 4, §4.J).
type dynamicRequest struct {
	raw      string
	referrer specifier.Specifier
	resolve  func(goja.Value)
	reject   func(goja.Value)
}

// ModuleLoader bridges goja's single-threaded evaluation to the module
// graph, the package resolver, and the transpiler (§4.J). It has no
// direct V8 module-resolve callback to hook — goja has no native ESM — so
// every module is transpiled to CommonJS (§4.D "format: cjs") and run
// through a synchronous (module, exports, require) wrapper, with
// dynamic import() modeled as a queued request drained once per tick.
type ModuleLoader struct {
	runtime    *goja.Runtime
	graph      *graph.Graph
	builder    *graph.Builder
	resolver   *Resolver
	transpiler Transpiler

	mu      sync.Mutex
	modules map[string]*goja.Object
	loading map[string]bool

	dynMu    sync.Mutex
	dynQueue []*dynamicRequest
}

// New builds a ModuleLoader over g (typically graph.New(graph.CodeOnly,
// roots)), whose builder and resolver drive on-demand fetch+resolve for
// modules not already in the graph, and installs the "__dynamicImport__"
// global a transpiled import() call targets.
func New(runtime *goja.Runtime, g *graph.Graph, builder *graph.Builder, resolver *Resolver, transpiler Transpiler) *ModuleLoader {
	l := &ModuleLoader{
		runtime:    runtime,
		graph:      g,
		builder:    builder,
		resolver:   resolver,
		transpiler: transpiler,
		modules:    make(map[string]*goja.Object),
		loading:    make(map[string]bool),
	}
	_ = runtime.Set("__dynamicImport__", l.requestDynamicImport)
	return l
}

// Load evaluates s (fetching and transpiling it first if needed) and
// returns its module.exports, memoized for subsequent loads (§4.E "a
// specifier already terminal in the graph is not reprocessed").
func (l *ModuleLoader) Load(ctx context.Context, s specifier.Specifier) (*goja.Object, error) {
	key := s.String()

	l.mu.Lock()
	if exports, ok := l.modules[key]; ok {
		l.mu.Unlock()
		return exports, nil
	}
	if l.loading[key] {
		l.mu.Unlock()
		return nil, rterr.New(rterr.Module, "circular import involving %s", key)
	}
	l.loading[key] = true
	l.mu.Unlock()
	defer func() {
		l.mu.Lock()
		delete(l.loading, key)
		l.mu.Unlock()
	}()

	node, err := l.ensureNode(ctx, s)
	if err != nil {
		return nil, err
	}
	if node.Status == graph.Failed {
		return nil, node.Err
	}

	if node.Code == "" {
		code, sourceMap, err := l.transpiler.Transpile(node.Specifier, node.MediaType, node.Source)
		if err != nil {
			return nil, rterr.Wrap(rterr.Syntax, err, "transpiling %s", key)
		}
		node.Code, node.SourceMap = code, sourceMap
	}

	moduleObj := l.runtime.NewObject()
	exportsObj := l.runtime.NewObject()
	_ = moduleObj.Set("exports", exportsObj)

	requireFn := func(call goja.FunctionCall) goja.Value {
		raw := call.Argument(0).String()
		resolved, ok := lookupDep(node, raw)
		if !ok {
			panic(l.runtime.NewGoError(rterr.New(rterr.Module, "unresolved specifier %q from %s", raw, key)))
		}
		child, err := l.Load(ctx, resolved)
		if err != nil {
			panic(l.runtime.NewGoError(err))
		}
		return child.Get("exports")
	}

	wrapperSrc := "(function(module, exports, require){\n" + node.Code + "\n})"
	program, err := goja.Compile(key, wrapperSrc, false)
	if err != nil {
		return nil, rterr.Wrap(rterr.Syntax, err, "compiling %s", key)
	}
	fnVal, err := l.runtime.RunProgram(program)
	if err != nil {
		return nil, rterr.Wrap(rterr.Syntax, err, "instantiating %s", key)
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		return nil, rterr.New(rterr.Module, "%s did not compile to a callable module wrapper", key)
	}
	if _, err := fn(goja.Undefined(), moduleObj, exportsObj, l.runtime.ToValue(requireFn)); err != nil {
		return nil, rterr.Wrap(rterr.Module, err, "evaluating %s", key)
	}

	l.mu.Lock()
	l.modules[key] = moduleObj
	l.mu.Unlock()
	return moduleObj, nil
}

// ensureNode returns s's graph node, extending the graph to fetch and
// extract it (and everything it statically reaches) if it isn't present
// yet (§4.E "work queue algorithm").
func (l *ModuleLoader) ensureNode(ctx context.Context, s specifier.Specifier) (*graph.Node, error) {
	if node, ok := l.graph.Get(s); ok {
		return node, nil
	}
	return l.builder.ExtendDynamic(ctx, l.graph, s.String(), specifier.Specifier{})
}

// lookupDep finds the edge in node.Deps whose source text matches raw,
// returning its resolved specifier.
func lookupDep(node *graph.Node, raw string) (specifier.Specifier, bool) {
	for _, dep := range node.Deps {
		if dep.Raw == raw {
			return dep.Resolved, true
		}
	}
	return specifier.Specifier{}, false
}

// requestDynamicImport backs the transpiled form of import(x): it queues
// the request and returns a promise the event loop settles from
// PollDynamicImports, never resolving synchronously — V8 (and goja here)
// must not re-enter module compilation while mid-stack (§4.I step 4, §5).
func (l *ModuleLoader) requestDynamicImport(call goja.FunctionCall) goja.Value {
	raw := call.Argument(0).String()
	referrerRaw := call.Argument(1).String()
	referrer, _ := specifier.Resolve(referrerRaw, specifier.Specifier{})

	promise, resolve, reject := l.runtime.NewPromise()
	l.dynMu.Lock()
	l.dynQueue = append(l.dynQueue, &dynamicRequest{raw: raw, referrer: referrer, resolve: resolve, reject: reject})
	l.dynMu.Unlock()
	return l.runtime.ToValue(promise)
}

// PollDynamicImports implements eventloop.DynamicImporter: it drains every
// request queued since the last tick, resolving and loading each in turn.
func (l *ModuleLoader) PollDynamicImports(ctx context.Context) int {
	l.dynMu.Lock()
	queue := l.dynQueue
	l.dynQueue = nil
	l.dynMu.Unlock()

	for _, req := range queue {
		resolved, err := l.resolver.Resolve(ctx, req.raw, req.referrer)
		if err != nil {
			req.reject(l.runtime.NewGoError(err))
			continue
		}
		mod, err := l.Load(ctx, resolved)
		if err != nil {
			req.reject(l.runtime.NewGoError(err))
			continue
		}
		req.resolve(mod.Get("exports"))
	}
	return len(queue)
}

// PendingDynamicImports reports unserviced import() calls, consulted by
// the event loop's shutdown condition (§4.I step 6).
func (l *ModuleLoader) PendingDynamicImports() int {
	l.dynMu.Lock()
	defer l.dynMu.Unlock()
	return len(l.dynQueue)
}
