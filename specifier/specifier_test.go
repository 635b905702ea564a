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

package specifier

import "testing"

func TestResolveIdempotent(t *testing.T) {
	referrer, err := FromFilePath("/project/src/main.ts")
	if err != nil {
		t.Fatal(err)
	}

	cases := []string{"./util.ts", "../lib/a.ts", "https://example.com/mod.ts"}
	for _, raw := range cases {
		first, err := Resolve(raw, referrer)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", raw, err)
		}
		second, err := Resolve(first.String(), referrer)
		if err != nil {
			t.Fatalf("Resolve(%q) round 2: %v", raw, err)
		}
		if first.String() != second.String() {
			t.Errorf("Resolve not idempotent for %q: %q != %q", raw, first, second)
		}
	}
}

func TestIsBare(t *testing.T) {
	cases := map[string]bool{
		"lit":                 true,
		"@scope/pkg":          true,
		"@scope/pkg/sub.js":   true,
		"./local.ts":          false,
		"../local.ts":         false,
		"/abs/path.ts":        false,
		"https://a.com/b.ts":  false,
		"file:///a/b.ts":      false,
	}
	for raw, want := range cases {
		if got := IsBare(raw); got != want {
			t.Errorf("IsBare(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestRelativizeRoundTrips(t *testing.T) {
	from, err := FromFilePath("/project/src/main.ts")
	if err != nil {
		t.Fatal(err)
	}
	to, err := FromFilePath("/project/src/lib/util.ts")
	if err != nil {
		t.Fatal(err)
	}

	rel, err := Relativize(from, to)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Resolve(rel, from)
	if err != nil {
		t.Fatalf("Resolve(%q, %q): %v", rel, from, err)
	}
	if !got.Equal(to) {
		t.Errorf("from.join(relativize(from, to)) = %q, want %q", got, to)
	}
}

func TestRelativizeSamePathDirectory(t *testing.T) {
	p, err := FromFilePath("/project/src/")
	if err != nil {
		t.Fatal(err)
	}
	rel, err := Relativize(p, p)
	if err != nil {
		t.Fatal(err)
	}
	if rel != "./" {
		t.Errorf("Relativize(p, p) = %q, want %q", rel, "./")
	}
}

func TestToFilePathRejectsHost(t *testing.T) {
	s, err := Resolve("file://host/a/b.ts", Specifier{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ToFilePath(s); err == nil {
		t.Error("ToFilePath should reject a file: URL with a host component")
	}
}
