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

package graph

import (
	"context"
	"runtime"
	"sync"

	"github.com/dnrt/dnrt/fetch"
	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/specifier"
)

// Resolver resolves one dependency edge to a concrete Specifier: relative
// and absolute raw specifiers go through (A), bare specifiers through (F)
// — the Builder doesn't care which, it just calls Resolve.
type Resolver interface {
	Resolve(ctx context.Context, raw string, referrer specifier.Specifier) (specifier.Specifier, error)
}

// Builder fetches and parses nodes into a Graph, following §4.E's
// work-queue algorithm with a bounded worker pool: a fixed number of
// long-lived workers drain a shared frontier queue and push newly
// discovered children back onto it, rather than spawning one goroutine per
// node. A per-node goroutine-per-edge design (recursively handing work back
// to a concurrency-limited dispatcher) deadlocks once the number of
// in-flight goroutines reaches the limit, because each of them blocks
// trying to acquire a slot for its own children while still holding its
// own — the frontier-queue design here never blocks a worker on enqueuing,
// only on waiting for new work to appear.
type Builder struct {
	fetcher  fetch.Fetcher
	resolver Resolver
	workers  int
}

// NewBuilder constructs a Builder. workers <= 0 means the worker count
// defaults to runtime.GOMAXPROCS(0).
func NewBuilder(fetcher fetch.Fetcher, resolver Resolver, workers int) *Builder {
	return &Builder{fetcher: fetcher, resolver: resolver, workers: workers}
}

// Build fetches and extends g from its roots until the work queue drains.
// Fetch or parse errors on a single node mark that node Failed and do not
// abort the rest of the build (§4.E step 2).
func (b *Builder) Build(ctx context.Context, g *Graph) error {
	workers := b.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu      sync.Mutex
		cond    = sync.NewCond(&mu)
		queue   []*Node
		pending int
	)

	enqueue := func(s specifier.Specifier) {
		node, isNew := g.upsert(s)
		if !isNew {
			return
		}
		mu.Lock()
		queue = append(queue, node)
		pending++
		cond.Signal()
		mu.Unlock()
	}

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for {
			mu.Lock()
			for len(queue) == 0 && pending > 0 {
				cond.Wait()
			}
			if len(queue) == 0 {
				mu.Unlock()
				return
			}
			node := queue[0]
			queue = queue[1:]
			mu.Unlock()

			// A cancelled context still drains the queue (so pending can
			// reach zero and every worker notices termination) but skips
			// the fetch itself.
			var children []specifier.Specifier
			if ctx.Err() == nil {
				children = b.processNode(ctx, g, node)
			}
			for _, child := range children {
				enqueue(child)
			}

			mu.Lock()
			pending--
			if pending == 0 {
				cond.Broadcast()
			}
			mu.Unlock()
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

	for _, root := range g.Roots() {
		enqueue(root)
	}
	mu.Lock()
	if pending == 0 {
		cond.Broadcast()
	}
	mu.Unlock()

	wg.Wait()
	return ctx.Err()
}

// ExtendDynamic incrementally grows g from a dynamic import discovered at
// runtime (§4.E "Dynamic imports discovered at runtime"), under the same
// resolver discipline as the main build. It runs synchronously on the
// caller's goroutine (the event loop), fetching the whole newly reachable
// sub-tree before returning. Returns the resolved specifier's node.
func (b *Builder) ExtendDynamic(ctx context.Context, g *Graph, raw string, referrer specifier.Specifier) (*Node, error) {
	resolved, err := b.resolver.Resolve(ctx, raw, referrer)
	if err != nil {
		return nil, err
	}
	node, isNew := g.upsert(resolved)
	if !isNew {
		return node, nil
	}

	queue := []*Node{node}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		children := b.processNode(ctx, g, n)
		for _, child := range children {
			if childNode, isNewChild := g.upsert(child); isNewChild {
				queue = append(queue, childNode)
			}
		}
	}
	return node, nil
}

// processNode fetches and parses node, returning the resolved specifiers
// of every dependency edge discovered (§4.E steps 2-4) for the caller to
// enqueue.
func (b *Builder) processNode(ctx context.Context, g *Graph, node *Node) []specifier.Specifier {
	g.setStatus(node, Fetching, nil)

	result, err := b.fetcher.Fetch(ctx, node.Specifier, fetch.UseIfPresent)
	if err != nil {
		g.setStatus(node, Failed, err)
		return nil
	}

	node.Source = result.Bytes
	node.MediaType = result.MediaType
	if node.MediaType == media.Unknown {
		node.MediaType = media.FromExtension(result.Specifier.String())
	}

	var children []specifier.Specifier
	if node.MediaType != media.Json && node.MediaType != media.Wasm {
		deps, err := ExtractDeps(result.Bytes)
		if err != nil {
			g.setStatus(node, Failed, err)
			return nil
		}

		for i := range deps {
			resolved, err := b.resolver.Resolve(ctx, deps[i].Raw, result.Specifier)
			if err != nil {
				// An unresolvable edge fails the edge, not the whole node;
				// the node itself can still be Resolved with a dangling
				// dependency recorded for diagnostics.
				continue
			}
			deps[i].Resolved = resolved
			children = append(children, resolved)
		}
		node.Deps = deps
	}

	g.setStatus(node, Resolved, nil)
	return children
}
