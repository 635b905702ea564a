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

// Package loader bridges the module graph and package resolver to a
// goja.Runtime's module-resolve and dynamic-import callbacks (§4.J).
package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/dnrt/dnrt/packages"
	"github.com/dnrt/dnrt/specifier"
)

// npmCDN and jsrCDN mirror the teacher's cdn.Provider URL templates
// ({package}/{version}/{path}) for fetching a package's actual member
// files, which are loaded lazily through the ordinary http(s) fetcher and
// disk-cached rather than materialized to the local store up front —
// Materializer only ever writes the package.json needed for exports
// resolution.
const (
	npmCDN = "https://cdn.jsdelivr.net/npm/%s@%s/%s"
	jsrCDN = "https://npm.jsr.io/%s/%s/%s"
)

// Resolver implements graph.Resolver: relative/absolute specifiers go
// through the specifier package directly, bare specifiers go through
// package resolution and materialization before being handed back as a
// fetchable https: specifier (§4.A, §4.F).
type Resolver struct {
	materializer *packages.Materializer
	conditions   []string
}

// NewResolver builds a Resolver against materializer, using conditions
// (typically packages.DefaultConditions) for exports resolution.
func NewResolver(materializer *packages.Materializer, conditions []string) *Resolver {
	if len(conditions) == 0 {
		conditions = packages.DefaultConditions
	}
	return &Resolver{materializer: materializer, conditions: conditions}
}

// Resolve implements graph.Resolver.
func (r *Resolver) Resolve(ctx context.Context, raw string, referrer specifier.Specifier) (specifier.Specifier, error) {
	if !specifier.IsBare(raw) {
		return specifier.Resolve(raw, referrer)
	}
	return r.resolveBare(ctx, raw)
}

func (r *Resolver) resolveBare(ctx context.Context, raw string) (specifier.Specifier, error) {
	pkgPart, subpath := splitBareSpecifier(raw)
	req, err := packages.ParsePackageReq(pkgPart)
	if err != nil {
		return specifier.Specifier{}, err
	}
	manifest, err := r.materializer.Materialize(ctx, req)
	if err != nil {
		return specifier.Specifier{}, err
	}
	resolved, err := manifest.ResolveExports(subpath, r.conditions)
	if err != nil {
		return specifier.Specifier{}, err
	}
	path := strings.TrimPrefix(resolved, "./")

	template := npmCDN
	if req.Origin == packages.Jsr {
		template = jsrCDN
	}
	url := fmt.Sprintf(template, manifest.Name, manifest.Version, path)
	return specifier.Resolve(url, specifier.Specifier{})
}

// splitBareSpecifier separates a bare specifier's package-request portion
// (name, optional @scope, optional @constraint) from its subpath, so
// ParsePackageReq never sees a trailing "/path/to/file.js" as part of the
// version constraint. Returns subpath as "." when none is present, the
// form packages.Manifest.ResolveExports expects for the package root.
func splitBareSpecifier(raw string) (pkgPart, subpath string) {
	prefix := ""
	rest := raw
	if strings.HasPrefix(rest, "jsr:") || strings.HasPrefix(rest, "npm:") {
		prefix, rest = rest[:4], rest[4:]
	}

	scoped := strings.HasPrefix(rest, "@")
	nameEnd := len(rest)
	slashesToSkip := 1
	if scoped {
		slashesToSkip = 2
	}
	seen := 0
	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			seen++
			if seen == slashesToSkip {
				nameEnd = i
				break
			}
		}
	}

	if nameEnd == len(rest) {
		return prefix + rest, "."
	}
	return prefix + rest[:nameEnd], "." + rest[nameEnd:]
}
