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

package permission

import "testing"

func TestReadSubsumptionScenario(t *testing.T) {
	allow := []Descriptor{ReadDescriptor("/home/a")}
	deny := []Descriptor{ReadDescriptor("/home/a/secret")}
	e := New(allow, deny, PolicyDenyAll, nil)

	if got := e.Request(ReadDescriptor("/home/a/b")); got != Granted {
		t.Errorf("Read(/home/a/b) = %v, want Granted", got)
	}
	if got := e.Request(ReadDescriptor("/home/a/secret/x")); got != Denied {
		t.Errorf("Read(/home/a/secret/x) = %v, want Denied", got)
	}
	if got := e.Request(ReadDescriptor("/tmp")); got != Denied {
		t.Errorf("Read(/tmp) under no-prompt = %v, want Denied", got)
	}
}

func TestNetSubsumption(t *testing.T) {
	e := New([]Descriptor{NetDescriptor("example.com", 0)}, nil, PolicyDenyAll, nil)
	if got := e.Request(NetDescriptor("example.com", 443)); got != Granted {
		t.Errorf("Net(example.com:443) = %v, want Granted", got)
	}
	if got := e.Request(NetDescriptor("other.com", 443)); got != Denied {
		t.Errorf("Net(other.com:443) = %v, want Denied", got)
	}
}

func TestDenyIsMonotonic(t *testing.T) {
	e := New(nil, nil, PolicyPrompt, nil)
	d := ReadDescriptor("/secret")
	first := e.Request(d)
	if first != Denied {
		t.Fatalf("first Request = %v, want Denied (no prompter configured)", first)
	}
	for i := 0; i < 3; i++ {
		if got := e.Request(d); got != Denied {
			t.Errorf("Request #%d = %v, want Denied (monotonicity)", i, got)
		}
	}
}

func TestCheckErrorCarriesAPIAndDescriptor(t *testing.T) {
	e := New(nil, nil, PolicyDenyAll, nil)
	err := e.Check(NetDescriptor("evil.example", 80), "fetch")
	if err == nil {
		t.Fatal("expected a PermissionDenied error")
	}
}
