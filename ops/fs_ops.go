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

package ops

import (
	"context"
	"encoding/json"

	"github.com/dnrt/dnrt/fs"
	"github.com/dnrt/dnrt/permission"
	"github.com/dnrt/dnrt/resource"
	"github.com/dnrt/dnrt/rterr"
)

// FsState is the State an isolate passes to the fs_* ops: the filesystem
// abstraction, the permission engine, and the resource table new file
// handles get registered into. This is the Go home for the original's
// cli/ops/fs.rs surface (§ SUPPLEMENTED FEATURES).
type FsState struct {
	FS      fs.FileSystem
	Engine  *permission.Engine
	Table   *resource.Table
}

type readFileArgs struct {
	Path string `json:"path"`
}

type readFileResult struct {
	Data []byte `json:"data"`
}

// OpFsReadFile reads an entire file, gated by a Read permission check —
// the sync counterpart used when JS calls the non-streaming read variant.
func OpFsReadFile(state State, args []byte) ([]byte, error) {
	s := state.(*FsState)
	var in readFileArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, rterr.Wrap(rterr.InvalidData, err, "fs_read_file: bad args")
	}
	if err := s.Engine.Check(permission.ReadDescriptor(in.Path), "fs_read_file"); err != nil {
		return nil, err
	}
	data, err := s.FS.ReadFile(in.Path)
	if err != nil {
		return nil, rterr.Wrap(rterr.Io, err, "read %s", in.Path)
	}
	return json.Marshal(readFileResult{Data: data})
}

type writeFileArgs struct {
	Path string `json:"path"`
	Data []byte `json:"data"`
}

// OpFsWriteFile writes a whole file, gated by Write.
func OpFsWriteFile(state State, args []byte) ([]byte, error) {
	s := state.(*FsState)
	var in writeFileArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, rterr.Wrap(rterr.InvalidData, err, "fs_write_file: bad args")
	}
	if err := s.Engine.Check(permission.WriteDescriptor(in.Path), "fs_write_file"); err != nil {
		return nil, err
	}
	if err := s.FS.WriteFile(in.Path, in.Data, 0o644); err != nil {
		return nil, rterr.Wrap(rterr.Io, err, "write %s", in.Path)
	}
	return nil, nil
}

type openArgs struct {
	Path  string `json:"path"`
	Write bool   `json:"write"`
}

type openResult struct {
	RID uint32 `json:"rid"`
}

// OpFsOpen opens a file and registers it as a resource, returning its rid
// for subsequent fs_read/close ops (§4.G, §4.H).
func OpFsOpen(ctx context.Context, state State, args []byte) ([]byte, error) {
	s := state.(*FsState)
	var in openArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, rterr.Wrap(rterr.InvalidData, err, "fs_open: bad args")
	}
	descriptor := permission.ReadDescriptor(in.Path)
	if in.Write {
		descriptor = permission.WriteDescriptor(in.Path)
	}
	if err := s.Engine.Check(descriptor, "fs_open"); err != nil {
		return nil, err
	}
	f, err := s.FS.Open(in.Path)
	if err != nil {
		return nil, rterr.Wrap(rterr.Io, err, "open %s", in.Path)
	}
	rwc, ok := f.(interface {
		Read([]byte) (int, error)
		Write([]byte) (int, error)
		Close() error
	})
	if !ok {
		_ = f.Close()
		return nil, rterr.New(rterr.NotSupported, "fs_open: %s does not support read/write", in.Path)
	}
	handle := resource.NewFileHandle(in.Path, rwc)
	rid, _ := s.Table.Add(ctx, handle)
	return json.Marshal(openResult{RID: rid})
}

type readArgs struct {
	RID uint32 `json:"rid"`
	Len int    `json:"len"`
}

type readResult struct {
	N    int    `json:"n"`
	Data []byte `json:"data"`
}

// OpFsRead reads up to len bytes from an open file handle (§4.G "optional
// async read(buf) -> n").
func OpFsRead(ctx context.Context, state State, args []byte) ([]byte, error) {
	s := state.(*FsState)
	var in readArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, rterr.Wrap(rterr.InvalidData, err, "fs_read: bad args")
	}
	h, err := s.Table.Get(in.RID)
	if err != nil {
		return nil, err
	}
	reader, ok := h.(resource.Reader)
	if !ok {
		return nil, rterr.New(rterr.NotSupported, "resource %d does not support read", in.RID)
	}
	buf := make([]byte, in.Len)
	n, err := reader.Read(ctx, buf)
	if err != nil {
		return nil, rterr.Wrap(rterr.Io, err, "read resource %d", in.RID)
	}
	return json.Marshal(readResult{N: n, Data: buf[:n]})
}

type closeArgs struct {
	RID uint32 `json:"rid"`
}

// OpClose closes a resource handle (§4.G). A second close of the same rid
// changes nothing and fails with BadResource.
func OpClose(state State, args []byte) ([]byte, error) {
	s := state.(*FsState)
	var in closeArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, rterr.Wrap(rterr.InvalidData, err, "close: bad args")
	}
	return nil, s.Table.Close(in.RID)
}

// RegisterFsOps wires the fs_* ops into registry.
func RegisterFsOps(registry *Registry) {
	registry.RegisterSync("fs_read_file", OpFsReadFile)
	registry.RegisterSync("fs_write_file", OpFsWriteFile)
	registry.RegisterAsync("fs_open", OpFsOpen)
	registry.RegisterAsync("fs_read", OpFsRead)
	registry.RegisterSync("close", OpClose)
}
