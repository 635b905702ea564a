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

func TestResolveExportsPatternKeySubstitutesMatch(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"name": "icons",
		"exports": {"./icons/*": "./dist/icons/*.js"}
	}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, err := m.ResolveExports("./icons/star", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if got != "dist/icons/star.js" {
		t.Errorf("got %q, want %q", got, "dist/icons/star.js")
	}
}

func TestResolveExportsArrayTargetFirstViableWins(t *testing.T) {
	m, err := ParseManifest([]byte(`{
		"name": "fallback-array",
		"exports": {".": ["./unsupported.node", "./index.js"]}
	}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	got, err := m.ResolveExports(".", DefaultConditions)
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if got != "unsupported.node" {
		t.Errorf("got %q, want %q (first array entry should win, probing is the materializer's job)", got, "unsupported.node")
	}
}

func TestResolveExportsRejectsTargetEscapingPackageDir(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"evil","exports":{".":"../outside.js"}}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if _, err := m.ResolveExports(".", DefaultConditions); err == nil {
		t.Error("expected an error for a target escaping the package directory")
	}
}

func TestResolveExportsRejectsTargetNotBeginningWithDotSlash(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"bad","exports":{".":"index.js"}}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if _, err := m.ResolveExports(".", DefaultConditions); err == nil {
		t.Error("expected an error for a target not beginning with \"./\"")
	}
}

func TestResolveImportsMissingFieldIsAnError(t *testing.T) {
	m, err := ParseManifest([]byte(`{"name":"p"}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if _, err := m.ResolveImports("#utils", DefaultConditions); err == nil {
		t.Error("expected an error resolving an internal import with no imports field")
	}
}
