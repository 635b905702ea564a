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

package resource

import (
	"context"
	"io"
	"sync"
)

// FileHandle wraps an open io.ReadWriteCloser (typically an *os.File via
// fs.FileSystem.Open) as a resource-table Handle, the Go home for the
// supplemented file-descriptor resource the original's cli/ops/fs.rs
// registers per open file.
type FileHandle struct {
	name   string
	mu     sync.Mutex
	f      io.ReadWriteCloser
	closed bool
}

// NewFileHandle wraps f, naming it for diagnostics.
func NewFileHandle(name string, f io.ReadWriteCloser) *FileHandle {
	return &FileHandle{name: name, f: f}
}

func (h *FileHandle) Name() string { return h.name }

func (h *FileHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.f.Close()
}

// Read blocks on the underlying file; ctx cancellation cannot interrupt an
// in-flight os-level read (file I/O isn't generally cancellable), but is
// honored before starting a new one.
func (h *FileHandle) Read(ctx context.Context, buf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f.Read(buf)
}

func (h *FileHandle) Write(ctx context.Context, buf []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.f.Write(buf)
}
