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

// Package packages implements the npm/jsr package resolver (§4.F):
// PackageReq→PackageNv version selection, directory materialization, and
// exports/imports subpath resolution.
package packages

import (
	"encoding/json"
	"strings"

	"github.com/dnrt/dnrt/fs"
)

// Manifest is the subset of package.json (or a jsr.json-derived equivalent)
// the resolver needs, extended from the teacher's PackageJSON with the
// fields package.json carries that a module resolver — rather than an
// import-map generator — needs: bin, type, engines, peerDependencies, and
// the raw imports field for "#internal" resolution.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Main            string            `json:"main,omitempty"`
	Module          string            `json:"module,omitempty"`
	Type            string            `json:"type,omitempty"`
	Exports         exportsNode       `json:"exports,omitempty"`
	Imports         exportsNode       `json:"imports,omitempty"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
	PeerDeps        map[string]string `json:"peerDependencies,omitempty"`
	OptionalDeps    map[string]string `json:"optionalDependencies,omitempty"`
	Bin             any               `json:"bin,omitempty"`
	Engines         map[string]string `json:"engines,omitempty"`
	RawWorkspaces   json.RawMessage   `json:"workspaces,omitempty"`

	// dir is the absolute local directory this manifest was materialized
	// into; empty until Materialize runs. Subpath resolution validates
	// resolved targets stay within it.
	dir string
}

// ParseManifest parses package.json bytes.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadManifest reads and parses the package.json at dir/package.json.
func ReadManifest(filesystem fs.FileSystem, dir string) (*Manifest, error) {
	data, err := filesystem.ReadFile(strings.TrimSuffix(dir, "/") + "/package.json")
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	m.dir = dir
	return m, nil
}

// Dir returns the local directory this manifest was read or materialized
// into.
func (m *Manifest) Dir() string { return m.dir }

// WorkspacePatterns returns workspace glob patterns, handling both the
// array form and the object form ({"packages": [...]})  yarn classic uses.
func (m *Manifest) WorkspacePatterns() []string {
	if len(m.RawWorkspaces) == 0 {
		return nil
	}
	var patterns []string
	if err := json.Unmarshal(m.RawWorkspaces, &patterns); err == nil {
		return patterns
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(m.RawWorkspaces, &obj); err == nil {
		return obj.Packages
	}
	return nil
}
