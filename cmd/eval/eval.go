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

// Package eval provides the eval command, which runs an inline code
// string rather than loading a module from disk or network (§6 "eval
// <code>").
package eval

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dnrt/dnrt/graph"
	"github.com/dnrt/dnrt/isolate"
	"github.com/dnrt/dnrt/loader"
	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/runtimectx"
	"github.com/dnrt/dnrt/specifier"
	"github.com/dnrt/dnrt/transpile"
)

// Cmd is the eval command.
var Cmd = &cobra.Command{
	Use:     "eval <code>",
	Short:   "Evaluate a JavaScript or TypeScript snippet",
	Long:    `Transpile and evaluate a single inline code string, then drive the event loop to completion.`,
	Example: `  dnrt eval 'console.log(1 + 1)'`,
	Args:    cobra.ExactArgs(1),
	RunE:    runEval,
}

func init() {
	Cmd.Flags().Bool("ts", false, "Treat the snippet as TypeScript rather than JavaScript")
	runtimectx.BindFlags(Cmd)
}

// evalSpecifier is the synthetic specifier an eval snippet is attributed
// to, since it has no real module URL of its own but still needs one for
// error messages and (if it dynamically imports something) a referrer.
const evalSpecifier = "file:///$eval"

func runEval(cmd *cobra.Command, args []string) error {
	useTS, _ := cmd.Flags().GetBool("ts")

	cfg := runtimectx.Load()
	rc, err := runtimectx.Build(cfg, nil)
	if err != nil {
		return fmt.Errorf("building runtime context: %w", err)
	}
	defer rc.Close()

	mediaType := media.JavaScript
	if useTS {
		mediaType = media.TypeScript
	}

	code, _, err := transpile.Run(evalSpecifier, mediaType, []byte(args[0]), transpile.DefaultOptions())
	if err != nil {
		return fmt.Errorf("transpiling snippet: %w", err)
	}

	g := graph.New(graph.CodeOnly, nil)
	resolver := loader.NewResolver(rc.Materializer, nil)
	builder := graph.NewBuilder(rc.Fetcher, resolver, cfg.Jobs)

	ctx := context.Background()
	iso := isolate.New(ctx, isolate.Options{
		Graph:      g,
		Builder:    builder,
		Resolver:   resolver,
		Transpiler: transpile.New(transpile.DefaultOptions()),
		Ops:        rc.Ops,
		FS:         rc.FS,
		Permission: rc.Permission,
		Entry:      specifier.Specifier{},
	})
	defer iso.Close()

	if err := iso.RunSource(ctx, code); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	return nil
}

