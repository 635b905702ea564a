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
	"sync"

	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/rterr"
	"github.com/dnrt/dnrt/specifier"
)

// BlobStore is the process-local table blob: URLs are looked up against
// (§4.C). Entries are registered by the runtime (e.g. URL.createObjectURL
// shims) and never persisted or shared across processes.
type BlobStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewBlobStore() *BlobStore {
	return &BlobStore{entries: make(map[string][]byte)}
}

// Register stores data under blobURL, replacing any earlier entry for it.
func (b *BlobStore) Register(blobURL string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[blobURL] = data
}

// Revoke removes a previously registered blob URL.
func (b *BlobStore) Revoke(blobURL string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, blobURL)
}

// BlobFetcher resolves blob: specifiers against a BlobStore. No permission
// check, no cache (§4.C).
type BlobFetcher struct {
	store *BlobStore
}

func NewBlobFetcher(store *BlobStore) *BlobFetcher {
	return &BlobFetcher{store: store}
}

func (f *BlobFetcher) Scheme() string { return "blob" }

func (f *BlobFetcher) Fetch(_ context.Context, s specifier.Specifier, _ CacheMode) (Result, error) {
	f.store.mu.RLock()
	data, ok := f.store.entries[s.String()]
	f.store.mu.RUnlock()
	if !ok {
		return Result{}, rterr.New(rterr.NotFound, "no such blob: %s", s.String())
	}
	return Result{
		Specifier: s,
		Bytes:     data,
		MediaType: media.FromExtension(s.String()),
	}, nil
}
