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

package isolate

import (
	"fmt"
	"os"
	"time"

	"github.com/dop251/goja"

	"github.com/dnrt/dnrt/eventloop"
)

// installConsole binds the console.log/error/warn/info JS prelude every
// embedder needs to observe a program's behavior, standing in for the
// concrete "console" extension module named as a peripheral collaborator
// rather than a core op (§1 Non-goals list console among the extension
// modules out of scope) — wired here at the bare Go-function level instead
// of through the op registry since it has no permission check or async
// completion to model.
func installConsole(runtime *goja.Runtime) {
	console := runtime.NewObject()
	_ = console.Set("log", consolePrinter(os.Stdout))
	_ = console.Set("info", consolePrinter(os.Stdout))
	_ = console.Set("warn", consolePrinter(os.Stderr))
	_ = console.Set("error", consolePrinter(os.Stderr))
	_ = runtime.Set("console", console)
}

func consolePrinter(w *os.File) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]any, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		fmt.Fprintln(w, parts...)
		return goja.Undefined()
	}
}

// installTimers binds setTimeout/clearTimeout/setInterval/clearInterval
// onto timers, the queue the event loop polls each tick (§4.I).
func installTimers(runtime *goja.Runtime, timers *eventloop.TimerQueue) {
	_ = runtime.Set("setTimeout", makeScheduler(runtime, timers, false))
	_ = runtime.Set("setInterval", makeScheduler(runtime, timers, true))
	clear := func(call goja.FunctionCall) goja.Value {
		id := uint32(call.Argument(0).ToInteger())
		timers.Clear(id)
		return goja.Undefined()
	}
	_ = runtime.Set("clearTimeout", clear)
	_ = runtime.Set("clearInterval", clear)
}

func makeScheduler(runtime *goja.Runtime, timers *eventloop.TimerQueue, interval bool) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(runtime.NewTypeError("the first argument to setTimeout/setInterval must be a function"))
		}
		delayMs := call.Argument(1).ToInteger()
		if delayMs < 0 {
			delayMs = 0
		}
		extra := call.Arguments
		if len(extra) > 2 {
			extra = extra[2:]
		} else {
			extra = nil
		}

		id := timers.Schedule(time.Duration(delayMs)*time.Millisecond, interval, func() {
			if _, err := fn(goja.Undefined(), extra...); err != nil {
				fmt.Fprintln(os.Stderr, "uncaught exception in timer callback:", err)
			}
		})
		return runtime.ToValue(id)
	}
}
