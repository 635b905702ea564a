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

// Package cache provides the cache command, which fetches and resolves a
// module graph without evaluating it, populating the disk cache for a
// later offline run (§6 "cache <specifiers...>").
package cache

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dnrt/dnrt/graph"
	"github.com/dnrt/dnrt/loader"
	"github.com/dnrt/dnrt/runtimectx"
	"github.com/dnrt/dnrt/specifier"
)

// Cmd is the cache command.
var Cmd = &cobra.Command{
	Use:     "cache <specifiers...>",
	Short:   "Fetch and resolve a module graph without running it",
	Long:    `Fetch every module reachable from the given roots and populate the local cache, without evaluating any code.`,
	Example: `  dnrt cache ./main.ts https://example.com/lib.ts`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runCache,
}

func init() {
	runtimectx.BindFlags(Cmd)
}

func runCache(cmd *cobra.Command, args []string) error {
	roots := make([]specifier.Specifier, 0, len(args))
	for _, raw := range args {
		s, err := toSpecifier(raw)
		if err != nil {
			return err
		}
		roots = append(roots, s)
	}

	cfg := runtimectx.Load()
	rc, err := runtimectx.Build(cfg, nil)
	if err != nil {
		return fmt.Errorf("building runtime context: %w", err)
	}
	defer rc.Close()

	g := graph.New(graph.CodeAndTypes, roots)
	resolver := loader.NewResolver(rc.Materializer, nil)
	builder := graph.NewBuilder(rc.Fetcher, resolver, cfg.Jobs)

	if err := builder.Build(context.Background(), g); err != nil {
		return fmt.Errorf("building module graph: %w", err)
	}

	var failed int
	for _, node := range g.Nodes() {
		if node.Status == graph.Failed {
			failed++
			fmt.Printf("error: %s: %v\n", node.Specifier.String(), node.Err)
		}
	}
	fmt.Printf("cached %d modules (%d failed)\n", g.Len(), failed)
	if failed > 0 {
		return fmt.Errorf("%d module(s) failed to cache", failed)
	}
	return nil
}

func toSpecifier(raw string) (specifier.Specifier, error) {
	if !specifier.IsBare(raw) {
		if s, err := specifier.Resolve(raw, specifier.Specifier{}); err == nil {
			return s, nil
		}
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return specifier.Specifier{}, fmt.Errorf("invalid specifier %q: %w", raw, err)
	}
	return specifier.FromFilePath(abs)
}
