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
	iofs "io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dnrt/dnrt/fs"
)

// WorkspacePackage is one member of a workspace root's package set.
type WorkspacePackage struct {
	Name string
	Dir  string
}

// DiscoverWorkspaces expands the root manifest's workspace glob patterns
// against the filesystem and returns every member with a valid
// package.json, superseding the teacher's single-level "/*" special case
// with full doublestar glob support (arbitrary "**" nesting, brace
// expansion) since a monorepo's workspace globs are rarely that simple.
func DiscoverWorkspaces(filesystem fs.FileSystem, rootDir string) ([]WorkspacePackage, error) {
	root, err := ReadManifest(filesystem, rootDir)
	if err != nil {
		return nil, err
	}
	patterns := root.WorkspacePatterns()
	if len(patterns) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var members []WorkspacePackage
	for _, pattern := range patterns {
		glob := strings.TrimSuffix(pattern, "/")
		matches, err := doublestar.Glob(filesystem.(iofs.FS), glob)
		if err != nil {
			continue
		}
		for _, m := range matches {
			dir := path.Join(rootDir, m)
			if seen[dir] {
				continue
			}
			manifest, err := ReadManifest(filesystem, dir)
			if err != nil || manifest.Name == "" {
				continue
			}
			seen[dir] = true
			members = append(members, WorkspacePackage{Name: manifest.Name, Dir: dir})
		}
	}
	return members, nil
}
