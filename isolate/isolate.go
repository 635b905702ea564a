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

// Package isolate assembles one JS execution unit (§2 "Isolate"): a
// goja.Runtime, its event loop, its own resource table, and the module
// loader bound to a module graph — everything an embedder needs to
// evaluate a main module and run it to completion.
package isolate

import (
	"context"

	"github.com/dop251/goja"

	"github.com/dnrt/dnrt/eventloop"
	"github.com/dnrt/dnrt/fs"
	"github.com/dnrt/dnrt/graph"
	"github.com/dnrt/dnrt/loader"
	"github.com/dnrt/dnrt/ops"
	"github.com/dnrt/dnrt/permission"
	"github.com/dnrt/dnrt/resource"
	"github.com/dnrt/dnrt/specifier"
)

// Isolate is one embedder-configured JS execution unit. Not shared across
// goroutines beyond the single one driving Run (§9 "Global state": every
// field here is per-isolate, nothing is a package-level static).
type Isolate struct {
	runtime *goja.Runtime
	loop    *eventloop.Loop
	timers  *eventloop.TimerQueue
	loader  *loader.ModuleLoader
	bridge  *ops.Bridge
	board   *ops.TaskBoard
	table   *resource.Table

	entry specifier.Specifier
}

// Options configures one Isolate's construction.
type Options struct {
	Graph      *graph.Graph
	Builder    *graph.Builder
	Resolver   *loader.Resolver
	Transpiler loader.Transpiler
	Ops        *ops.Registry
	FS         fs.FileSystem
	Permission *permission.Engine
	Entry      specifier.Specifier
}

// New builds an Isolate: a fresh goja.Runtime, timer queue, op bridge over
// a fresh per-isolate resource.Table and TaskBoard, the console JS
// prelude (§ control flow "binds extensions which install ops and JS
// prelude"), and the module loader wired to opts.Graph/Builder/Resolver.
func New(ctx context.Context, opts Options) *Isolate {
	runtime := goja.New()
	runtime.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	table := resource.New()
	board := ops.NewTaskBoard()
	state := &ops.FsState{FS: opts.FS, Engine: opts.Permission, Table: table}
	bridge := ops.NewBridge(ctx, runtime, opts.Ops, board, state)

	installConsole(runtime)

	timers := eventloop.NewTimerQueue()
	installTimers(runtime, timers)

	moduleLoader := loader.New(runtime, opts.Graph, opts.Builder, opts.Resolver, opts.Transpiler)
	loop := eventloop.New(runtime, timers, bridge, moduleLoader)

	return &Isolate{
		runtime: runtime,
		loop:    loop,
		timers:  timers,
		loader:  moduleLoader,
		bridge:  bridge,
		board:   board,
		table:   table,
		entry:   opts.Entry,
	}
}

// Run loads and evaluates the entry module, then drives the event loop
// until no more work remains or ctx is cancelled (§4.I).
func (iso *Isolate) Run(ctx context.Context) error {
	if _, err := iso.loader.Load(ctx, iso.entry); err != nil {
		return err
	}
	return iso.loop.Run(ctx)
}

// RunSource evaluates literal source text as the isolate's program rather
// than loading it through the module graph, for `dnrt eval` (§6), then
// drives the event loop the same way Run does.
func (iso *Isolate) RunSource(ctx context.Context, code string) error {
	if _, err := iso.runtime.RunString(code); err != nil {
		return err
	}
	return iso.loop.Run(ctx)
}

// Close releases the isolate's own resource handles (open files, sockets)
// still outstanding at shutdown, per §4.G's per-isolate table lifetime.
func (iso *Isolate) Close() {
	iso.table.CloseAll()
}
