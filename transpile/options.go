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

// Package transpile turns JS/TS/TSX/JSX source into runnable CommonJS
// through a fixed pipeline (§4.D): esbuild's Transform API strips types,
// lowers JSX, and — via TransformOptions.Format: api.FormatCommonJS —
// rewrites the remaining ESM import/export syntax into the require()/
// exports form goja's module loader (§4.J) can execute, since goja has
// no native ESM. Only dynamic import() expressions survive that pass
// unchanged (esbuild treats them as already-valid syntax rather than
// something to lower), so a small post-pass rewrites those into calls to
// the loader's own __dynamicImport__ hook.
package transpile

// Options mirrors the embedder-configurable knobs named in §4.D.
type Options struct {
	// ImportsNotUsedAsValues names the policy for a TypeScript import that
	// is unused as a value ("remove", "preserve" or "error"). The strip
	// pass does not read it: esbuild's own default applies, which drops
	// such imports.
	ImportsNotUsedAsValues string
	// InlineSourceMap embeds a base64 source map comment in the output
	// instead of returning SourceMap separately.
	InlineSourceMap bool
	// InlineSources names whether original source text goes into the
	// source map. The strip pass does not read it; esbuild's default
	// applies.
	InlineSources bool
	// SourceMap requests source map generation at all; ignored when
	// InlineSourceMap is set.
	SourceMap bool
	// JSXMode selects how JSX is lowered: "automatic" (react-jsx runtime
	// import) or "classic" (React.createElement-style factory calls).
	JSXMode string
	// JSXFactory/JSXFragment name the classic-mode factory functions.
	JSXFactory  string
	JSXFragment string
	// JSXImportSource names the module automatic-mode JSX elements import
	// their jsx/jsxs/Fragment helpers from (the @jsxImportSource pragma's
	// default), e.g. "react" or "preact".
	JSXImportSource string
	// JSXDev selects the development-mode automatic runtime (jsx-dev-runtime,
	// jsxDEV calls carrying source/self arguments) over the production one.
	JSXDev bool
	// EmitDecoratorMetadata mirrors tsc's emitDecoratorMetadata: decorator
	// lowering also emits one Reflect.metadata("design:type", Function) call
	// per decorated class. No design:paramtypes metadata and no per-member
	// metadata are emitted.
	EmitDecoratorMetadata bool
	// UseTSDecorators selects TypeScript's legacy experimentalDecorators
	// lowering (decorator-as-function-call) rather than leaving decorator
	// syntax for a later stage.
	UseTSDecorators bool
	// Repl marks the REPL's per-line evaluation mode, under which each
	// line's top-level imports must individually resolve synchronously
	// against already-bound names rather than being hoisted as a block,
	// since earlier lines have already executed (§ SUPPLEMENTED FEATURES).
	Repl bool
}

// DefaultOptions matches tsc/esbuild's ordinary non-REPL defaults.
func DefaultOptions() Options {
	return Options{
		ImportsNotUsedAsValues: "remove",
		SourceMap:              true,
		JSXMode:                "automatic",
	}
}
