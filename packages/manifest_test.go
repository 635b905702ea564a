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

package packages

import "testing"

func TestResolveExportsSingleStringEntryPoint(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"lit","exports":"./index.js"}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, err := m.ResolveExports(".", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if got != "index.js" {
		t.Errorf("got %q, want %q", got, "index.js")
	}
	if _, err := m.ResolveExports("./deep", DefaultConditions); err == nil {
		t.Error("expected an error resolving a deep subpath against a single string entry point")
	}
}

func TestResolveExportsConditionsMapAtRoot(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"name": "dual-pkg",
		"exports": {"import": "./esm.js", "require": "./cjs.js", "default": "./fallback.js"}
	}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, err := m.ResolveExports(".", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if got != "esm.js" {
		t.Errorf("got %q, want %q (import is the first declared condition that is active)", got, "esm.js")
	}
}

func TestResolveExportsConditionsMapFallsBackToDefault(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"p","exports":{"require":"./cjs.js","default":"./fallback.js"}}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, err := m.ResolveExports(".", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if got != "fallback.js" {
		t.Errorf("got %q, want %q", got, "fallback.js")
	}
}

func TestResolveExportsSubpathMap(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"name": "@scope/pkg",
		"exports": {
			".": "./index.js",
			"./feature": {"import": "./feature.mjs", "default": "./feature.js"}
		}
	}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	root, err := m.ResolveExports(".", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports(.): %v", err)
	}
	if root != "index.js" {
		t.Errorf("root: got %q, want %q", root, "index.js")
	}
	feature, err := m.ResolveExports("./feature", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports(./feature): %v", err)
	}
	if feature != "feature.mjs" {
		t.Errorf("feature: got %q, want %q", feature, "feature.mjs")
	}
	if _, err := m.ResolveExports("./missing", DefaultConditions); err == nil {
		t.Error("expected an error for a subpath not present in the exports map")
	}
}

func TestResolveExportsLegacyMainFallback(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"old","main":"./lib/main.js"}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, err := m.ResolveExports(".", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if got != "lib/main.js" {
		t.Errorf("got %q, want %q", got, "lib/main.js")
	}
}

func TestResolveExportsLegacyModulePreferredOverMain(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"old","main":"./lib/main.js","module":"./lib/main.mjs"}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, err := m.ResolveExports(".", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if got != "lib/main.mjs" {
		t.Errorf("got %q, want %q", got, "lib/main.mjs")
	}
}

func TestResolveExportsConditionObjectHonorsDeclarationOrder(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"name": "dual-target",
		"exports": {"node": "./n.js", "import": "./i.js", "default": "./d.js"}
	}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	// "import" has higher priority in the caller's own condition list, but
	// "node" is declared first in the exports object, so Node's algorithm
	// (and this resolver) picks "node".
	got, err := m.ResolveExports(".", []string{"import", "node", "default"})
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if got != "n.js" {
		t.Errorf("got %q, want %q (object's own key order should win over caller condition priority)", got, "n.js")
	}
}

func TestResolveImportsInternalSpecifier(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"name": "p",
		"imports": {"#utils": {"import": "./lib/utils.mjs", "default": "./lib/utils.js"}}
	}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, err := m.ResolveImports("#utils", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveImports: %v", err)
	}
	if got != "lib/utils.mjs" {
		t.Errorf("got %q, want %q", got, "lib/utils.mjs")
	}
}

func TestResolveExportsLegacyDefaultsToIndexJS(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"bare"}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, err := m.ResolveExports(".", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if got != "index.js" {
		t.Errorf("got %q, want %q", got, "index.js")
	}
}

func TestWorkspacePatternsArrayForm(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"root","workspaces":["packages/*","tools/*"]}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got := m.WorkspacePatterns()
	if len(got) != 2 || got[0] != "packages/*" || got[1] != "tools/*" {
		t.Errorf("got %v", got)
	}
}

func TestWorkspacePatternsObjectForm(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"root","workspaces":{"packages":["packages/*"]}}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got := m.WorkspacePatterns()
	if len(got) != 1 || got[0] != "packages/*" {
		t.Errorf("got %v", got)
	}
}
