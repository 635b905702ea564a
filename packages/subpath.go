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
	"strings"

	"github.com/dnrt/dnrt/rterr"
)

// DefaultConditions is the condition set applied when the caller does not
// override it: "import" (ESM) and "default". "require" is added by CJS
// callers, "types" by the type-graph builder (§4.F step 3).
var DefaultConditions = []string{"import", "default"}

// ResolveExports resolves subpath ("." or "./lib/x") against m.Exports per
// §4.F steps 1-5. conditions is the caller's active condition set; pass nil
// for DefaultConditions.
func (m *Manifest) ResolveExports(subpath string, conditions []string) (string, error) {
	if !m.Exports.present {
		return m.legacyResolve(subpath)
	}
	if conditions == nil {
		conditions = DefaultConditions
	}

	target, matched := lookupExportsKey(m.Exports, subpath)
	if !matched {
		return "", rterr.NewSub(rterr.Package, rterr.PackagePathNotExported,
			"package %s has no export %q", m.Name, subpath)
	}

	resolved, pattern, err := resolveTarget(target, conditions)
	if err != nil {
		return "", err
	}
	if resolved == "" {
		return "", rterr.NewSub(rterr.Package, rterr.PackagePathNotExported,
			"package %s has no export %q for conditions %v", m.Name, subpath, conditions)
	}
	return validateTarget(m, resolved, pattern)
}

// ResolveImports resolves a "#internal" specifier against m.Imports. Per
// §4.F, internal imports share the exports target-resolution machinery but
// may only be resolved against the current package's own manifest.
func (m *Manifest) ResolveImports(specifier string, conditions []string) (string, error) {
	if !strings.HasPrefix(specifier, "#") {
		return "", rterr.NewSub(rterr.Package, rterr.InvalidModuleSpecifier,
			"%q is not an internal import specifier", specifier)
	}
	if !m.Imports.present {
		return "", rterr.NewSub(rterr.Package, rterr.PackageImportNotDefined,
			"package %s defines no imports field", m.Name)
	}
	if conditions == nil {
		conditions = DefaultConditions
	}

	target, matched := lookupExportsKey(m.Imports, specifier)
	if !matched {
		return "", rterr.NewSub(rterr.Package, rterr.PackageImportNotDefined,
			"package %s does not define import %q", m.Name, specifier)
	}
	resolved, pattern, err := resolveTarget(target, conditions)
	if err != nil {
		return "", err
	}
	if resolved == "" {
		return "", rterr.NewSub(rterr.Package, rterr.PackageImportNotDefined,
			"package %s import %q has no match for conditions %v", m.Name, specifier, conditions)
	}
	return validateTarget(m, resolved, pattern)
}

// legacyResolve implements §4.F's "Fallback (no exports field)" path. For
// subpath "." it returns a single target: module if set, else main, else
// "index.js" (with any leading "./" trimmed); any other subpath is
// ModuleNotFound. It does not try index.json, index.node or
// <main>.(js|json|node), and does not check that the target exists on disk.
func (m *Manifest) legacyResolve(subpath string) (string, error) {
	if subpath != "." {
		return "", rterr.NewSub(rterr.Module, rterr.ModuleNotFound,
			"package %s has no exports field; only \".\" is resolvable without one", m.Name)
	}
	if m.Module != "" {
		return strings.TrimPrefix(m.Module, "./"), nil
	}
	if m.Main != "" {
		return strings.TrimPrefix(m.Main, "./"), nil
	}
	return "index.js", nil
}

// lookupExportsKey implements §4.F steps 1-2: exact match first, then the
// longest pattern key (containing exactly one "*") whose pre/post fixed
// parts bracket subpath.
func lookupExportsKey(exports exportsNode, subpath string) (exportsNode, bool) {
	switch {
	case exports.isStr || exports.isArr:
		if subpath == "." {
			return exports, true
		}
		return exportsNode{}, false
	case exports.isObj:
		hasSubpathKeys := false
		for _, k := range exports.keys() {
			if strings.HasPrefix(k, ".") || strings.HasPrefix(k, "#") {
				hasSubpathKeys = true
				break
			}
		}
		if !hasSubpathKeys {
			// Condition-only map at the top: applies only to "."
			if subpath == "." {
				return exports, true
			}
			return exportsNode{}, false
		}
		if target, ok := exports.get(subpath); ok {
			return target, true
		}
		var bestKey string
		var bestTarget exportsNode
		for _, f := range exports.obj {
			key, target := f.key, f.value
			star := strings.IndexByte(key, '*')
			if star < 0 {
				continue
			}
			prefix, suffix := key[:star], key[star+1:]
			if strings.HasPrefix(subpath, prefix) && strings.HasSuffix(subpath, suffix) &&
				len(subpath) >= len(prefix)+len(suffix) && len(key) > len(bestKey) {
				bestKey, bestTarget = key, target
			}
		}
		if bestKey == "" {
			return exportsNode{}, false
		}
		star := strings.IndexByte(bestKey, '*')
		match := subpath[len(bestKey[:star]) : len(subpath)-len(bestKey[star+1:])]
		bestTarget.patternMatch = &match
		return bestTarget, true
	}
	return exportsNode{}, false
}

// resolveTarget implements §4.F step 3: string targets resolve directly,
// arrays try each entry in order (first viable wins), condition objects
// walk in the *target object's own declared key order* and pick the first
// key that is also an active condition — matching Node's algorithm, not
// the caller's condition-priority order (a target declaring {"node":"./n",
// "import":"./i"} resolves to "./n" under active conditions
// {import,node,default} because "node" appears first in the object, even
// though "import" has higher caller priority). exportsNode's ordered
// decode (exportsnode.go) is what makes this possible: map[string]any
// would have already lost that order.
func resolveTarget(target exportsNode, conditions []string) (resolved string, pattern *string, err error) {
	switch {
	case target.isStr:
		return target.str, target.patternMatch, nil
	case target.isArr:
		for _, entry := range target.arr {
			entry.patternMatch = target.patternMatch
			r, p, err := resolveTarget(entry, conditions)
			if err == nil && r != "" {
				return r, p, nil
			}
		}
		return "", nil, nil
	case target.isObj:
		active := make(map[string]bool, len(conditions)+1)
		for _, c := range conditions {
			active[c] = true
		}
		active["default"] = true
		for _, f := range target.obj {
			if !active[f.key] {
				continue
			}
			f.value.patternMatch = target.patternMatch
			return resolveTarget(f.value, conditions)
		}
		return "", nil, nil
	default:
		// An explicit JSON null (or any other non-string/array/object
		// shape) disables this branch rather than erroring — the caller
		// falls through to whatever condition or array entry comes next.
		return "", nil, nil
	}
}

// validateTarget enforces §4.F step 4: the target must begin with "./",
// must not escape the package directory, must not contain ".." or
// "node_modules" segments, and has its "*" substituted exactly once per
// occurrence.
func validateTarget(m *Manifest, target string, pattern *string) (string, error) {
	if pattern != nil {
		target = strings.ReplaceAll(target, "*", *pattern)
	}
	if !strings.HasPrefix(target, "./") {
		return "", rterr.NewSub(rterr.Package, rterr.InvalidPackageTarget,
			"package %s export target %q must begin with \"./\"", m.Name, target)
	}
	clean := strings.TrimPrefix(target, "./")
	for _, seg := range strings.Split(clean, "/") {
		if seg == ".." {
			return "", rterr.NewSub(rterr.Package, rterr.InvalidPackageTarget,
				"package %s export target %q escapes the package directory", m.Name, target)
		}
		if seg == "node_modules" {
			return "", rterr.NewSub(rterr.Package, rterr.InvalidPackageTarget,
				"package %s export target %q traverses node_modules", m.Name, target)
		}
	}
	return clean, nil
}
