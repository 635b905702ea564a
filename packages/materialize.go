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
	"context"
	"encoding/json"
	"path"

	"github.com/dnrt/dnrt/fs"
)

// Materializer resolves PackageReq values and writes their manifests under a
// local package store directory keyed by name@version, per §4.F
// "materialize a package directory on local disk". Only package.json is
// written; a package's member files are not copied into the store.
type Materializer struct {
	fs       fs.FileSystem
	registry *Registry
	storeDir string
}

// NewMaterializer builds a Materializer rooted at storeDir (typically
// $DNRT_DIR/packages); package directories go under its npm/ or jsr/
// subdirectory according to their origin.
func NewMaterializer(filesystem fs.FileSystem, registry *Registry, storeDir string) *Materializer {
	return &Materializer{fs: filesystem, registry: registry, storeDir: storeDir}
}

// Materialize resolves req, ensures nv's directory exists locally with a
// package.json written to disk, and returns the parsed Manifest.
func (m *Materializer) Materialize(ctx context.Context, req PackageReq) (*Manifest, error) {
	nv, err := m.registry.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	dir := m.dirFor(nv)
	if manifest, err := ReadManifest(m.fs, dir); err == nil {
		return manifest, nil
	}

	manifest, err := m.registry.FetchManifest(ctx, nv)
	if err != nil {
		return nil, err
	}
	if err := m.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	raw, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := m.fs.WriteFile(path.Join(dir, "package.json"), raw, 0o644); err != nil {
		return nil, err
	}
	manifest.dir = dir
	return manifest, nil
}

func (m *Materializer) dirFor(nv PackageNv) string {
	origin := "npm"
	if nv.Origin == Jsr {
		origin = "jsr"
	}
	return path.Join(m.storeDir, origin, nv.Name+"@"+nv.Version)
}
