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
package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var binPath string

func TestMain(m *testing.M) {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	binPath = filepath.Join(wd, "dnrt_test")
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = wd
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build test binary: " + err.Error() + "\n" + string(out))
	}
	code := m.Run()
	os.Remove(binPath)
	os.Exit(code)
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(binPath, args...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func TestRootHelpListsImplementedCommands(t *testing.T) {
	stdout, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("--help exited with error: %v", err)
	}
	for _, name := range []string{"run", "eval", "cache", "info", "version"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("root help output missing command %q:\n%s", name, stdout)
		}
	}
}

func TestRootHelpListsPeripheralStubs(t *testing.T) {
	stdout, _, err := run(t, "--help")
	if err != nil {
		t.Fatalf("--help exited with error: %v", err)
	}
	for _, name := range []string{"repl", "lsp", "test", "bench", "fmt", "lint", "doc", "compile", "bundle", "install", "uninstall"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("root help output missing peripheral stub %q:\n%s", name, stdout)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, err := run(t, "frobnicate")
	if err == nil {
		t.Fatal("expected an error for an unknown command")
	}
	if !strings.Contains(stderr, "unknown command") {
		t.Errorf("expected 'unknown command' in stderr, got: %s", stderr)
	}
}

func TestEvalRunsInlineJavaScript(t *testing.T) {
	stdout, stderr, err := run(t, "eval", "console.log(1 + 2)")
	if err != nil {
		t.Fatalf("eval failed: %v\nstderr: %s", err, stderr)
	}
	if strings.TrimSpace(stdout) != "3" {
		t.Errorf("expected eval output \"3\", got %q", stdout)
	}
}

func TestEvalReportsSyntaxErrors(t *testing.T) {
	_, _, err := run(t, "eval", "this is not valid javascript {{{")
	if err == nil {
		t.Fatal("expected eval of invalid JavaScript to fail")
	}
}

func TestPeripheralCommandsReportExternalCollaborator(t *testing.T) {
	for _, name := range []string{"repl", "lsp", "fmt", "lint", "doc", "bundle"} {
		t.Run(name, func(t *testing.T) {
			_, stderr, err := run(t, name)
			if err == nil {
				t.Fatalf("%s: expected an error, it is not implemented by this binary", name)
			}
			if !strings.Contains(stderr, "external collaborator") {
				t.Errorf("%s: expected stderr to explain it is an external collaborator, got: %s", name, stderr)
			}
		})
	}
}

func TestVersionCommandRuns(t *testing.T) {
	stdout, stderr, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v\nstderr: %s", err, stderr)
	}
	if strings.TrimSpace(stdout) == "" {
		t.Error("expected version output, got empty string")
	}
}
