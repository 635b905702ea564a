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

// Package info provides the info command, which builds a module's
// dependency graph and prints its structure (§6 "info").
package info

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dnrt/dnrt/graph"
	"github.com/dnrt/dnrt/loader"
	"github.com/dnrt/dnrt/runtimectx"
	"github.com/dnrt/dnrt/specifier"
)

// Cmd is the info command.
var Cmd = &cobra.Command{
	Use:     "info <specifier>",
	Short:   "Print a module's dependency graph",
	Long:    `Build the module graph reachable from the given specifier and print its node and dependency structure as JSON.`,
	Example: `  dnrt info ./main.ts`,
	Args:    cobra.ExactArgs(1),
	RunE:    runInfo,
}

func init() {
	runtimectx.BindFlags(Cmd)
}

// nodeInfo is the JSON shape one graph node prints as.
type nodeInfo struct {
	Specifier string    `json:"specifier"`
	MediaType string    `json:"mediaType"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Deps      []depInfo `json:"deps,omitempty"`
}

type depInfo struct {
	Raw      string `json:"raw"`
	Resolved string `json:"resolved"`
	Kind     string `json:"kind"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	root, err := toSpecifier(args[0])
	if err != nil {
		return err
	}

	cfg := runtimectx.Load()
	rc, err := runtimectx.Build(cfg, nil)
	if err != nil {
		return fmt.Errorf("building runtime context: %w", err)
	}
	defer rc.Close()

	g := graph.New(graph.CodeAndTypes, []specifier.Specifier{root})
	resolver := loader.NewResolver(rc.Materializer, nil)
	builder := graph.NewBuilder(rc.Fetcher, resolver, cfg.Jobs)

	if err := builder.Build(context.Background(), g); err != nil {
		return fmt.Errorf("building module graph: %w", err)
	}

	out := make([]nodeInfo, 0, g.Len())
	for _, node := range g.Nodes() {
		ni := nodeInfo{
			Specifier: node.Specifier.String(),
			MediaType: node.MediaType.String(),
			Status:    node.Status.String(),
		}
		if node.Err != nil {
			ni.Error = node.Err.Error()
		}
		for _, dep := range node.Deps {
			ni.Deps = append(ni.Deps, depInfo{
				Raw:      dep.Raw,
				Resolved: dep.Resolved.String(),
				Kind:     edgeKindString(dep.Kind),
			})
		}
		out = append(out, ni)
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling graph: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func edgeKindString(k graph.EdgeKind) string {
	switch k {
	case graph.Dynamic:
		return "dynamic"
	case graph.Reexport:
		return "reexport"
	case graph.TypeReference:
		return "type-reference"
	case graph.Require:
		return "require"
	default:
		return "static"
	}
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
