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
	"strings"
	"testing"

	"github.com/dnrt/dnrt/media"
)

func TestRunJavaScriptRewritesImportsToRequire(t *testing.T) {
	src := `import { render } from "lit";
import lit from "lit";
export const tag = "x-widget";
export function define() {}
`
	code, _, err := Run("/app/main.js", media.JavaScript, []byte(src), DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{
		`require("lit")`,
		"exports.tag",
		"exports.define",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("output missing %q, got:\n%s", want, code)
		}
	}
	for _, unwanted := range []string{"import {", "import lit", "export const", "export function"} {
		if strings.Contains(code, unwanted) {
			t.Errorf("output still has ESM syntax %q, got:\n%s", unwanted, code)
		}
	}
}

func TestRunRewritesDynamicImport(t *testing.T) {
	src := `const mod = await import("./plugin.js");`
	code, _, err := Run("/app/host.js", media.JavaScript, []byte(src), DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(code, `__dynamicImport__("./plugin.js", "/app/host.js")`) {
		t.Errorf("dynamic import not rewritten, got:\n%s", code)
	}
}

func TestRunJSONWrapsAsDefaultExport(t *testing.T) {
	code, _, err := Run("/app/data.json", media.Json, []byte(`{"a":1}`), DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(code, "exports.default = JSON.parse(") {
		t.Errorf("expected JSON.parse wrapping, got:\n%s", code)
	}
}

func TestRunStripsShebang(t *testing.T) {
	src := "#!/usr/bin/env -S dnrt run\nconsole.log(1);\n"
	code, _, err := Run("/app/cli.js", media.JavaScript, []byte(src), DefaultOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.HasPrefix(code, "#!") {
		t.Errorf("shebang not stripped: %q", code)
	}
}

func TestLowerDecoratorsAppliesClassDecoratorsInReverseOrder(t *testing.T) {
	src := "@b\n@a\nclass Widget {\n  method() {}\n}\n"
	out := lowerDecorators(src, false)
	if !strings.Contains(out, "Widget = a(Widget) || Widget;") {
		t.Errorf("missing inner decorator application, got:\n%s", out)
	}
	if !strings.Contains(out, "Widget = b(Widget) || Widget;") {
		t.Errorf("missing outer decorator application, got:\n%s", out)
	}
	if strings.Index(out, "a(Widget)") > strings.Index(out, "b(Widget)") {
		t.Errorf("decorators applied out of order:\n%s", out)
	}
}

func TestRunAutomaticJSXUsesImportSourceRuntime(t *testing.T) {
	src := `/** @jsxImportSource custom-lib */
export const el = <div>hi</div>;
`
	opts := DefaultOptions()
	code, _, err := Run("/app/widget.jsx", media.Jsx, []byte(src), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(code, "custom-lib/jsx-runtime") {
		t.Errorf("expected automatic runtime import from pragma, got:\n%s", code)
	}
}

func TestRunAutomaticJSXDefaultImportSource(t *testing.T) {
	opts := DefaultOptions()
	opts.JSXImportSource = "preact"
	code, _, err := Run("/app/widget.jsx", media.Jsx, []byte("export const el = <div/>;\n"), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(code, "preact/jsx-runtime") {
		t.Errorf("expected configured default JSX import source, got:\n%s", code)
	}
}

func TestRunClassicJSXUsesFactory(t *testing.T) {
	opts := DefaultOptions()
	opts.JSXMode = "classic"
	opts.JSXFactory = "h"
	code, _, err := Run("/app/widget.jsx", media.Jsx, []byte("export const el = <div/>;\n"), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(code, "h(") {
		t.Errorf("expected classic factory call, got:\n%s", code)
	}
	if strings.Contains(code, "jsx-runtime") {
		t.Errorf("classic mode should not import the automatic runtime, got:\n%s", code)
	}
}
