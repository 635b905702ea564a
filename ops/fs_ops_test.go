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
	"os"
	"testing"

	"github.com/dnrt/dnrt/fs"
	"github.com/dnrt/dnrt/internal/mapfs"
	"github.com/dnrt/dnrt/permission"
	"github.com/dnrt/dnrt/resource"
)

func osWriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func newFsState(t *testing.T, policy permission.Policy) (*FsState, *mapfs.MapFileSystem) {
	t.Helper()
	mfs := mapfs.New()
	return &FsState{
		FS:     mfs,
		Engine: permission.New(nil, nil, policy, nil),
		Table:  resource.New(),
	}, mfs
}

func TestOpFsReadFileReturnsContents(t *testing.T) {
	state, mfs := newFsState(t, permission.PolicyAllowAll)
	mfs.AddFile("/greeting.txt", "hello", 0o644)

	args, _ := json.Marshal(readFileArgs{Path: "/greeting.txt"})
	out, err := OpFsReadFile(state, args)
	if err != nil {
		t.Fatalf("OpFsReadFile: %v", err)
	}
	var result readFileResult
	if err := json.Unmarshal(out, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if string(result.Data) != "hello" {
		t.Errorf("got %q, want %q", result.Data, "hello")
	}
}

func TestOpFsReadFileDeniedByPolicy(t *testing.T) {
	state, mfs := newFsState(t, permission.PolicyDenyAll)
	mfs.AddFile("/secret.txt", "nope", 0o644)

	args, _ := json.Marshal(readFileArgs{Path: "/secret.txt"})
	if _, err := OpFsReadFile(state, args); err == nil {
		t.Fatal("expected permission denial, got nil error")
	}
}

func TestOpFsWriteFileThenReadBack(t *testing.T) {
	state, _ := newFsState(t, permission.PolicyAllowAll)

	writeArgs, _ := json.Marshal(writeFileArgs{Path: "/out.txt", Data: []byte("written")})
	if _, err := OpFsWriteFile(state, writeArgs); err != nil {
		t.Fatalf("OpFsWriteFile: %v", err)
	}

	readArgsBytes, _ := json.Marshal(readFileArgs{Path: "/out.txt"})
	out, err := OpFsReadFile(state, readArgsBytes)
	if err != nil {
		t.Fatalf("OpFsReadFile: %v", err)
	}
	var result readFileResult
	if err := json.Unmarshal(out, &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if string(result.Data) != "written" {
		t.Errorf("got %q, want %q", result.Data, "written")
	}
}

func TestOpFsOpenReadCloseRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/doc.txt"
	if err := osWriteFile(path, []byte("streamed")); err != nil {
		t.Fatalf("seed fixture file: %v", err)
	}
	state := &FsState{
		FS:     fs.NewOSFileSystem(),
		Engine: permission.New(nil, nil, permission.PolicyAllowAll, nil),
		Table:  resource.New(),
	}
	ctx := context.Background()

	openArgsBytes, _ := json.Marshal(openArgs{Path: path})
	out, err := OpFsOpen(ctx, state, openArgsBytes)
	if err != nil {
		t.Fatalf("OpFsOpen: %v", err)
	}
	var opened openResult
	if err := json.Unmarshal(out, &opened); err != nil {
		t.Fatalf("unmarshal open result: %v", err)
	}

	readArgsBytes, _ := json.Marshal(readArgs{RID: opened.RID, Len: 32})
	out, err = OpFsRead(ctx, state, readArgsBytes)
	if err != nil {
		t.Fatalf("OpFsRead: %v", err)
	}
	var readResult readResult
	if err := json.Unmarshal(out, &readResult); err != nil {
		t.Fatalf("unmarshal read result: %v", err)
	}
	if string(readResult.Data) != "streamed" {
		t.Errorf("got %q, want %q", readResult.Data, "streamed")
	}

	closeArgsBytes, _ := json.Marshal(closeArgs{RID: opened.RID})
	if _, err := OpClose(state, closeArgsBytes); err != nil {
		t.Fatalf("OpClose: %v", err)
	}
	// A second close of the same rid reports a bad resource id rather than
	// panicking or double-closing the underlying handle.
	if _, err := OpClose(state, closeArgsBytes); err == nil {
		t.Fatal("expected closing an already-closed resource to error")
	}
}

func TestRegisterFsOpsWiresExpectedNames(t *testing.T) {
	registry := NewRegistry()
	RegisterFsOps(registry)

	state, mfs := newFsState(t, permission.PolicyAllowAll)
	mfs.AddFile("/registry.txt", "ok", 0o644)

	args, _ := json.Marshal(readFileArgs{Path: "/registry.txt"})
	if _, err := registry.DispatchSync(state, "fs_read_file", args); err != nil {
		t.Errorf("fs_read_file not wired: %v", err)
	}
	if !registry.HasAsync("fs_open") {
		t.Error("fs_open was not registered as an async op")
	}
	if !registry.HasAsync("fs_read") {
		t.Error("fs_read was not registered as an async op")
	}
}
