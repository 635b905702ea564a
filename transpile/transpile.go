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

package transpile

import (
	"regexp"

	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/specifier"
)

// Transpiler runs the fixed §4.D pipeline with a configured set of
// Options, and implements loader.Transpiler.
type Transpiler struct {
	opts Options
}

// New builds a Transpiler against opts (use DefaultOptions() for tsc's
// ordinary non-REPL defaults).
func New(opts Options) *Transpiler {
	return &Transpiler{opts: opts}
}

// Transpile runs s's source through the pipeline, returning runnable
// CommonJS and, when requested, a separate source map.
func (t *Transpiler) Transpile(s specifier.Specifier, mediaType media.Type, source []byte) (string, string, error) {
	return Run(s.String(), mediaType, source, t.opts)
}

// Run executes the fixed 8-pass pipeline (§4.D):
//  1. REPL-only import rewrites (only under Options.Repl)
//  2. decorator lowering
//  3. helper injection
//  4. scope resolution — handled implicitly: every module already
//     executes in its own function-wrapper scope (§4.J), so no
//     additional pass is needed beyond the wrapper itself
//  5. TypeScript strip (esbuild)
//  6. JSX transform (esbuild, same call as 5)
//  7. syntactic fixer (esbuild's Format:FormatCommonJS does the ESM->CJS
//     lowering; only the dynamic import() rewrite and shebang/BOM
//     handling are left to this package)
//  8. identifier hygiene (folded into the fixer pass above)
//
// JSON media type short-circuits the whole pipeline per §4.D's JSON
// wrapping rule.
func Run(file string, mediaType media.Type, source []byte, opts Options) (code string, sourceMap string, err error) {
	if mediaType == media.Json {
		wrapped, err := wrapJSON(source)
		if err != nil {
			return "", "", &TranspileError{Specifier: file, Message: err.Error()}
		}
		return wrapped, "", nil
	}

	raw := fixSyntax(string(source))

	stripped, sourceMap, _, err := stripTypesAndJSX(file, []byte(raw), mediaType, opts)
	if err != nil {
		return "", "", err
	}

	if opts.UseTSDecorators {
		stripped = lowerDecorators(stripped, opts.EmitDecoratorMetadata)
	}

	rewritten := rewriteDynamicImports(stripped, file)
	if opts.Repl {
		rewritten = rewriteReplImports(rewritten)
	}
	rewritten = injectHelpers(rewritten)

	return rewritten, sourceMap, nil
}

// rewriteReplImports implements pass 1: under Options.Repl each line the
// user types is compiled and run as its own top-level program against an
// already-populated scope (earlier lines' bindings), so a top-level
// "const x = require(...)" declaration esbuild's CommonJS lowering
// produced must assign into the shared REPL scope object rather than
// declare a fresh local — otherwise each line would shadow, instead of
// extend, prior bindings. Only matches the single-binding-per-require
// shape; a named-import group esbuild destructures into multiple local
// bindings from one require() call isn't rewritten by this pass.
// TODO: widen reReplConstRequire (or walk esbuild's sourcemap) to cover
// destructured and namespace-style CommonJS bindings too.
func rewriteReplImports(code string) string {
	return reReplConstRequire.ReplaceAllString(code, `globalThis.$1 = require("$2")`)
}

var reReplConstRequire = regexp.MustCompile(`(?m)^const\s+(\w+)\s*=\s*require\("([^"]+)"\);?\s*$`)
