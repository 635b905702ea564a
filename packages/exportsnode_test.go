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

import (
	"encoding/json"
	"testing"
)

func TestExportsNodeUnmarshalPreservesObjectKeyOrder(t *testing.T) {
	var n exportsNode
	if err := json.Unmarshal([]byte(`{"c":"1","a":"2","b":"3"}`), &n); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got, want := n.keys(), []string{"c", "a", "b"}; !equalStrings(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestExportsNodeUnmarshalMissingFieldIsNotPresent(t *testing.T) {
	var m Manifest
	if err := json.Unmarshal([]byte(`{"name":"p"}`), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m.Exports.present {
		t.Error("expected Exports.present to be false when the field is absent")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
