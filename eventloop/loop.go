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

// Package eventloop drives one isolate's single-threaded tick loop (§4.I):
// drain microtasks, poll timers, poll pending async ops, poll dynamic
// imports, then either yield with a timeout or exit.
package eventloop

import (
	"context"
	"time"

	"github.com/dop251/goja"
)

// OpDrainer is satisfied by ops.Bridge: each tick, drain ready async-op
// completions and report how many settled.
type OpDrainer interface {
	Drain() int
	Pending() int
}

// DynamicImporter services dynamic import() requests originated by V8,
// satisfied by loader.ModuleLoader (§4.I step 4).
type DynamicImporter interface {
	// PollDynamicImports services any dynamic-import requests queued
	// since the last tick, reporting how many it resolved.
	PollDynamicImports(ctx context.Context) int
	PendingDynamicImports() int
}

// Loop is one isolate's event loop.
type Loop struct {
	runtime  *goja.Runtime
	timers   *TimerQueue
	ops      OpDrainer
	importer DynamicImporter
}

// New builds a Loop over runtime, a TimerQueue, and the op/dynamic-import
// drainers the isolate wires up.
func New(runtime *goja.Runtime, timers *TimerQueue, ops OpDrainer, importer DynamicImporter) *Loop {
	return &Loop{runtime: runtime, timers: timers, ops: ops, importer: importer}
}

// Run drives ticks until isDone (§4.I step 6) or ctx is cancelled.
// Uncaught exceptions propagate to the caller, who terminates the isolate
// with a non-zero exit code after flushing telemetry (§4.I, handled by the
// caller — this package only reports the error).
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// goja flushes its internal microtask (job) queue synchronously
		// whenever a promise settles or a function returns into the VM,
		// so step 1 ("drain microtasks") happens as a side effect of the
		// resolve/reject calls below rather than a separate call here.

		firedTimers := l.timers.PollDue(time.Now())
		settledOps := l.ops.Drain()
		resolvedImports := l.importer.PollDynamicImports(ctx)

		if l.isDone() {
			return nil
		}

		if firedTimers+settledOps+resolvedImports == 0 {
			wait := l.timers.NextDeadline()
			l.yield(ctx, wait)
		}
	}
}

// isDone implements §4.I step 6 / §4.H's shutdown condition: no timers, no
// pending ops, no pending dynamic imports remain.
func (l *Loop) isDone() bool {
	return l.timers.Len() == 0 && l.ops.Pending() == 0 && l.importer.PendingDynamicImports() == 0
}

// yield sleeps until the next timer deadline or ctx cancellation,
// standing in for the OS readiness source (poll/epoll/kqueue/IOCP) a
// native embedder would block on (§4.I step 5) — Go's goroutine scheduler
// already multiplexes the pending-op goroutines onto OS readiness, so a
// plain timer is the faithful single-threaded-cooperative equivalent here.
func (l *Loop) yield(ctx context.Context, wait time.Duration) {
	if wait <= 0 {
		wait = 10 * time.Millisecond
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
