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

func TestParsePackageReqPlainName(t *testing.T) {
	req, err := ParsePackageReq("lit")
	if err != nil {
		t.Fatalf("ParsePackageReq: %v", err)
	}
	if req.Name != "lit" || req.Constraint != "" || req.Origin != Npm {
		t.Errorf("got %+v", req)
	}
}

func TestParsePackageReqNameAndConstraint(t *testing.T) {
	req, err := ParsePackageReq("lit@^3.0.0")
	if err != nil {
		t.Fatalf("ParsePackageReq: %v", err)
	}
	if req.Name != "lit" || req.Constraint != "^3.0.0" {
		t.Errorf("got %+v", req)
	}
}

func TestParsePackageReqScopedName(t *testing.T) {
	req, err := ParsePackageReq("@scope/name@1.2.3")
	if err != nil {
		t.Fatalf("ParsePackageReq: %v", err)
	}
	if req.Name != "@scope/name" || req.Constraint != "1.2.3" {
		t.Errorf("got %+v", req)
	}
}

func TestParsePackageReqScopedNameWithoutConstraint(t *testing.T) {
	req, err := ParsePackageReq("@scope/name")
	if err != nil {
		t.Fatalf("ParsePackageReq: %v", err)
	}
	if req.Name != "@scope/name" || req.Constraint != "" {
		t.Errorf("got %+v", req)
	}
}

func TestParsePackageReqJsrPrefix(t *testing.T) {
	req, err := ParsePackageReq("jsr:@std/http@^1")
	if err != nil {
		t.Fatalf("ParsePackageReq: %v", err)
	}
	if req.Origin != Jsr || req.Name != "@std/http" || req.Constraint != "^1" {
		t.Errorf("got %+v", req)
	}
}

func TestParsePackageReqNpmPrefix(t *testing.T) {
	req, err := ParsePackageReq("npm:lodash@4")
	if err != nil {
		t.Fatalf("ParsePackageReq: %v", err)
	}
	if req.Origin != Npm || req.Name != "lodash" || req.Constraint != "4" {
		t.Errorf("got %+v", req)
	}
}

func TestPackageReqResolvePicksHighestSatisfying(t *testing.T) {
	req := PackageReq{Name: "lit", Constraint: "^3.0.0"}
	nv, err := req.Resolve([]string{"2.0.0", "3.0.0", "3.1.0", "4.0.0"}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if nv.Version != "3.1.0" {
		t.Errorf("got %q, want %q", nv.Version, "3.1.0")
	}
}

func TestPackageReqResolveExcludesYanked(t *testing.T) {
	req := PackageReq{Name: "lit", Constraint: "^3.0.0"}
	nv, err := req.Resolve([]string{"3.0.0", "3.1.0"}, map[string]bool{"3.1.0": true})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if nv.Version != "3.0.0" {
		t.Errorf("got %q, want %q", nv.Version, "3.0.0")
	}
}

func TestPackageReqResolveNoSatisfyingVersion(t *testing.T) {
	req := PackageReq{Name: "lit", Constraint: "^9.0.0"}
	if _, err := req.Resolve([]string{"3.0.0"}, nil); err == nil {
		t.Error("expected an error when no candidate satisfies the constraint")
	}
}

func TestPackageReqResolveEmptyConstraintMatchesAny(t *testing.T) {
	req := PackageReq{Name: "lit"}
	nv, err := req.Resolve([]string{"1.0.0", "2.0.0"}, nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if nv.Version != "2.0.0" {
		t.Errorf("got %q, want %q", nv.Version, "2.0.0")
	}
}
