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

// Package run provides the run command, which loads and evaluates a main
// module to completion (§6 "run <specifier> [args...]").
package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dnrt/dnrt/graph"
	"github.com/dnrt/dnrt/isolate"
	"github.com/dnrt/dnrt/loader"
	"github.com/dnrt/dnrt/permission"
	"github.com/dnrt/dnrt/runtimectx"
	"github.com/dnrt/dnrt/specifier"
	"github.com/dnrt/dnrt/transpile"
)

// Cmd is the run command.
var Cmd = &cobra.Command{
	Use:   "run <specifier> [args...]",
	Short: "Run a JavaScript or TypeScript module",
	Long: `Load and evaluate a main module, following its import graph and driving
the event loop until no work remains.`,
	Example: `  dnrt run ./main.ts
  dnrt run --allow-net --allow-read=./data https://example.com/app.ts`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMain,
}

func init() {
	runtimectx.BindFlags(Cmd)
}

func runMain(cmd *cobra.Command, args []string) error {
	entry, err := resolveEntryArg(args[0])
	if err != nil {
		return err
	}

	cfg := runtimectx.Load()
	rc, err := runtimectx.Build(cfg, newTTYPrompter())
	if err != nil {
		return fmt.Errorf("building runtime context: %w", err)
	}
	defer rc.Close()

	g := graph.New(graph.CodeOnly, []specifier.Specifier{entry})
	resolver := loader.NewResolver(rc.Materializer, nil)
	builder := graph.NewBuilder(rc.Fetcher, resolver, cfg.Jobs)

	ctx := context.Background()
	if err := builder.Build(ctx, g); err != nil {
		return fmt.Errorf("building module graph: %w", err)
	}

	transpiler := transpile.New(transpile.DefaultOptions())

	iso := isolate.New(ctx, isolate.Options{
		Graph:      g,
		Builder:    builder,
		Resolver:   resolver,
		Transpiler: transpiler,
		Ops:        rc.Ops,
		FS:         rc.FS,
		Permission: rc.Permission,
		Entry:      entry,
	})
	defer iso.Close()

	if err := iso.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	return nil
}

// resolveEntryArg turns a run command-line argument into a Specifier:
// an absolute URL is used as-is, everything else is treated as a native
// filesystem path resolved against the process's current directory.
func resolveEntryArg(raw string) (specifier.Specifier, error) {
	if !specifier.IsBare(raw) {
		if s, err := specifier.Resolve(raw, specifier.Specifier{}); err == nil {
			return s, nil
		}
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return specifier.Specifier{}, fmt.Errorf("invalid entry specifier %q: %w", raw, err)
	}
	return specifier.FromFilePath(abs)
}

// newTTYPrompter returns a permission.Prompter that asks on stdin/stderr
// when the process is attached to a terminal, or nil (deny-on-ask) when
// it isn't — matching the source runtime's behavior of never blocking a
// non-interactive run on a permission prompt it can't show (§4.B).
func newTTYPrompter() permission.Prompter {
	if fi, err := os.Stdin.Stat(); err == nil && (fi.Mode()&os.ModeCharDevice) != 0 {
		return stdioPrompter{}
	}
	return nil
}

type stdioPrompter struct{}

func (stdioPrompter) Prompt(d permission.Descriptor, api string) (allow bool, persist bool) {
	fmt.Fprintf(os.Stderr, "dnrt requests %s access to run %s. Allow? [y/N/a(lways)] ", d.Kind, api)
	var answer string
	_, _ = fmt.Scanln(&answer)
	switch answer {
	case "a", "A":
		return true, true
	case "y", "Y":
		return true, false
	default:
		return false, false
	}
}
