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

	"github.com/Masterminds/semver/v3"
	"github.com/ije/gox/utils"

	"github.com/dnrt/dnrt/rterr"
)

// Origin is the registry a PackageReq resolves against.
type Origin int

const (
	Npm Origin = iota
	Jsr
)

func (o Origin) String() string {
	if o == Jsr {
		return "jsr"
	}
	return "npm"
}

// PackageReq is an unresolved "name@constraint" request, e.g. from a bare
// specifier "lit@^3" or "@jsr/std__http@^1".
type PackageReq struct {
	Origin     Origin
	Name       string
	Constraint string // semver range, "" meaning "*"
}

// PackageNv is a resolved name+exact-version pair (§3).
type PackageNv struct {
	Origin  Origin
	Name    string
	Version string
}

func (nv PackageNv) String() string { return nv.Name + "@" + nv.Version }

// ParsePackageReq parses a bare specifier's package portion, e.g.
// "lit@^3.0.0" or "@scope/name@1.2.3", into a PackageReq. jsr: and npm:
// prefixes select Origin; the default is Npm.
func ParsePackageReq(raw string) (PackageReq, error) {
	origin := Npm
	switch {
	case strings.HasPrefix(raw, "jsr:"):
		origin = Jsr
		raw = strings.TrimPrefix(raw, "jsr:")
	case strings.HasPrefix(raw, "npm:"):
		raw = strings.TrimPrefix(raw, "npm:")
	}

	scoped := strings.HasPrefix(raw, "@")
	search := raw
	if scoped {
		search = raw[1:]
	}
	name, constraint := utils.SplitByLastByte(search, '@')
	if constraint == "" {
		return PackageReq{Origin: origin, Name: raw}, nil
	}
	if scoped {
		name = "@" + name
	}
	return PackageReq{Origin: origin, Name: name, Constraint: constraint}, nil
}

// Resolve picks the highest version in candidates satisfying req's
// constraint, excluding yanked versions and preferring non-prerelease
// unless the constraint explicitly allows one (§4.F "Version selection").
func (req PackageReq) Resolve(candidates []string, yanked map[string]bool) (PackageNv, error) {
	constraint := req.Constraint
	if constraint == "" {
		constraint = "*"
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return PackageNv{}, rterr.NewSub(rterr.Package, rterr.PackageNotFound,
			"invalid version constraint %q for %s: %v", req.Constraint, req.Name, err)
	}
	allowsPrerelease := strings.Contains(constraint, "-")

	var best *semver.Version
	var bestPrerelease *semver.Version
	for _, raw := range candidates {
		if yanked[raw] {
			continue
		}
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if !c.Check(v) {
			continue
		}
		if v.Prerelease() != "" {
			if bestPrerelease == nil || v.GreaterThan(bestPrerelease) {
				bestPrerelease = v
			}
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
		}
	}

	switch {
	case best != nil:
		return PackageNv{Origin: req.Origin, Name: req.Name, Version: best.Original()}, nil
	case allowsPrerelease && bestPrerelease != nil:
		return PackageNv{Origin: req.Origin, Name: req.Name, Version: bestPrerelease.Original()}, nil
	case bestPrerelease != nil:
		return PackageNv{}, rterr.NewSub(rterr.Package, rterr.PackageNotFound,
			"no version of %s satisfies %q (a prerelease %s exists; allow it explicitly)",
			req.Name, req.Constraint, bestPrerelease.Original())
	default:
		return PackageNv{}, rterr.NewSub(rterr.Package, rterr.PackageNotFound,
			"no version of %s satisfies %q", req.Name, req.Constraint)
	}
}
