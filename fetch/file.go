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

package fetch

import (
	"context"

	"github.com/dnrt/dnrt/fs"
	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/permission"
	"github.com/dnrt/dnrt/rterr"
	"github.com/dnrt/dnrt/specifier"
)

// FileFetcher reads file: specifiers from disk through a fs.FileSystem,
// gated by a Read permission check (§4.C).
type FileFetcher struct {
	fs     fs.FileSystem
	engine *permission.Engine
}

// NewFileFetcher constructs a FileFetcher over the given filesystem and
// permission engine.
func NewFileFetcher(filesystem fs.FileSystem, engine *permission.Engine) *FileFetcher {
	return &FileFetcher{fs: filesystem, engine: engine}
}

func (f *FileFetcher) Scheme() string { return "file" }

// Fetch reads the file at s's path. CacheMode is ignored; §4.C states file:
// has no caching layer.
func (f *FileFetcher) Fetch(ctx context.Context, s specifier.Specifier, _ CacheMode) (Result, error) {
	path, err := specifier.ToFilePath(s)
	if err != nil {
		return Result{}, rterr.NewSub(rterr.Uri, rterr.InvalidFileUrlPath, "%s", err.Error())
	}
	if f.engine != nil {
		if err := f.engine.Check(permission.ReadDescriptor(path), "fetch"); err != nil {
			return Result{}, err
		}
	}
	data, err := f.fs.ReadFile(path)
	if err != nil {
		return Result{}, rterr.Wrap(rterr.Io, err, "read %s", path)
	}
	return Result{
		Specifier: s,
		Bytes:     data,
		MediaType: media.FromExtension(path),
	}, nil
}
