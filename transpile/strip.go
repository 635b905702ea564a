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
	"github.com/evanw/esbuild/pkg/api"

	"github.com/dnrt/dnrt/media"
)

// esbuildLoader maps a dnrt media.Type to the esbuild Loader that parses it.
func esbuildLoader(t media.Type) api.Loader {
	switch t {
	case media.TypeScript, media.Dts:
		return api.LoaderTS
	case media.Tsx:
		return api.LoaderTSX
	case media.Jsx:
		return api.LoaderJSX
	default:
		return api.LoaderJS
	}
}

// stripTypesAndJSX runs esbuild's Transform API for passes 5 through 7 of
// §4.D's pipeline in one call: it erases type annotations, lowers JSX to
// factory calls or the automatic runtime, and — via Format: FormatCommonJS
// — rewrites ESM import/export statements into require()/exports form.
// Dynamic import() expressions pass through untouched; rewriteDynamicImports
// handles those afterward.
func stripTypesAndJSX(file string, source []byte, mediaType media.Type, opts Options) (code string, sourceMap string, diags []Diagnostic, err error) {
	transformOpts := api.TransformOptions{
		Sourcefile: file,
		Loader:     esbuildLoader(mediaType),
		Target:     api.ESNext,
		Format:     api.FormatCommonJS,
	}
	switch opts.JSXMode {
	case "classic":
		if opts.JSXFactory != "" {
			transformOpts.JSXFactory = opts.JSXFactory
		}
		if opts.JSXFragment != "" {
			transformOpts.JSXFragment = opts.JSXFragment
		}
	case "automatic":
		transformOpts.JSX = api.JSXAutomatic
		if opts.JSXImportSource != "" {
			transformOpts.JSXImportSource = opts.JSXImportSource
		}
		transformOpts.JSXDev = opts.JSXDev
	}
	switch {
	case opts.InlineSourceMap:
		transformOpts.Sourcemap = api.SourceMapInline
	case opts.SourceMap:
		transformOpts.Sourcemap = api.SourceMapExternal
	default:
		transformOpts.Sourcemap = api.SourceMapNone
	}

	result := api.Transform(string(source), transformOpts)
	diags = classifyDiagnostics(result.Errors, result.Warnings)
	if msg, fatal := firstFatal(diags); fatal {
		return "", "", diags, &TranspileError{Specifier: file, Message: msg}
	}
	return string(result.JS), string(result.JSSourceMap), diags, nil
}

// TranspileError is a fatal diagnostic surfaced to the caller (§4.D).
type TranspileError struct {
	Specifier string
	Message   string
}

func (e *TranspileError) Error() string {
	return "transpile " + e.Specifier + ": " + e.Message
}
