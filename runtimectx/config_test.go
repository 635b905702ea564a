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

package runtimectx

import (
	"testing"

	"github.com/dnrt/dnrt/permission"
)

func TestBuildPermissionEngineAllowAllGrantsEverything(t *testing.T) {
	cfg := Config{AllowAll: true}
	engine := cfg.BuildPermissionEngine(nil)
	if got := engine.Query(permission.ReadDescriptor("/etc/passwd")); got != permission.Granted {
		t.Errorf("got %v, want Granted", got)
	}
}

func TestBuildPermissionEngineNoPromptDeniesUnlisted(t *testing.T) {
	cfg := Config{NoPrompt: true}
	engine := cfg.BuildPermissionEngine(nil)
	if got := engine.Query(permission.ReadDescriptor("/etc/passwd")); got != permission.Denied {
		t.Errorf("got %v, want Denied", got)
	}
}

func TestBuildPermissionEngineScopedAllowList(t *testing.T) {
	cfg := Config{NoPrompt: true, AllowRead: []string{"/tmp"}}
	engine := cfg.BuildPermissionEngine(nil)
	if got := engine.Query(permission.ReadDescriptor("/tmp/foo.txt")); got != permission.Granted {
		t.Errorf("got %v, want Granted for a path under the allowed scope", got)
	}
	if got := engine.Query(permission.ReadDescriptor("/etc/passwd")); got != permission.Denied {
		t.Errorf("got %v, want Denied for a path outside the allowed scope", got)
	}
}

func TestBuildPermissionEngineDenyOverridesAllow(t *testing.T) {
	cfg := Config{
		NoPrompt:  true,
		AllowRead: []string{"/tmp"},
		DenyRead:  []string{"/tmp/secret"},
	}
	engine := cfg.BuildPermissionEngine(nil)
	if got := engine.Query(permission.ReadDescriptor("/tmp/secret")); got != permission.Denied {
		t.Errorf("got %v, want Denied (deny list takes priority)", got)
	}
	if got := engine.Query(permission.ReadDescriptor("/tmp/other.txt")); got != permission.Granted {
		t.Errorf("got %v, want Granted for a sibling path still under allow", got)
	}
}
