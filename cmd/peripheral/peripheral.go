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

// Package peripheral registers the subcommand surface for functionality
// this core explicitly does not implement (§1 "Peripheral functionality
// ... treated only as external collaborators"): the REPL, LSP server,
// test/bench reporters, task runner, packager, and the
// formatter/linter/doc-generator. Each subcommand parses its
// own flags and reports that the feature lives outside the core, rather
// than attempting any part of it.
package peripheral

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Commands returns every stub subcommand, for main.go to register
// alongside the implemented run/eval/cache/info/version commands.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		stub("repl", "Start an interactive REPL", "the interactive REPL shell"),
		stub("lsp", "Start the language server", "the LSP server"),
		stub("test", "Run tests", "the test reporter"),
		stub("bench", "Run benchmarks", "the benchmark reporter"),
		stub("task [name]", "Run a task defined in the project configuration", "the task runner"),
		stub("fmt", "Format source files", "the formatter"),
		stub("lint", "Lint source files", "the linter"),
		stub("doc", "Generate documentation", "the documentation generator"),
		stub("compile", "Compile a module graph to a single binary", "the compile-to-single-binary packager"),
		stub("bundle", "Bundle a module graph into a single file", "the bundler"),
		stub("install", "Install a package or script as an executable", "the installer"),
		stub("uninstall", "Remove a previously installed executable", "the installer"),
	}
}

// stub builds a cobra.Command for use that always fails with a message
// naming collaborator as living outside this runtime core (§1, §6 "the
// contracts with the core are fixed ... none may be embedded in this
// specification").
func stub(use, short, collaborator string) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Short:              short,
		DisableFlagParsing: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("%s is not part of the runtime core; it is an external collaborator invoked through the fixed §6 contract, not a feature of this binary", collaborator)
		},
	}
}
