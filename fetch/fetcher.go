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

// Package fetch retrieves module source bytes for every scheme the loader
// may encounter (§4.C): file, data, blob, and http(s). The http(s) fetcher
// is the only one that consults a cache; the file and http(s) fetchers run
// a permission check.
package fetch

import (
	"context"

	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/specifier"
)

// CacheMode governs how the http(s) scheme consults its disk cache.
type CacheMode int

const (
	// UseIfPresent serves a cached entry without revalidation when present.
	UseIfPresent CacheMode = iota
	// RevalidateAlways sends a conditional request (If-None-Match /
	// If-Modified-Since) even when a cached entry exists.
	RevalidateAlways
	// BypassCache ignores the cache entirely for reads, but still writes
	// the result back so later UseIfPresent fetches benefit.
	BypassCache
)

// Result is what a Fetcher returns for one specifier.
type Result struct {
	// Specifier is the final specifier after any redirect chain.
	Specifier specifier.Specifier
	Bytes     []byte
	MediaType media.Type
	// Headers carries the subset of response headers later fetches need
	// to revalidate (Etag, Last-Modified, Content-Type). Nil for schemes
	// that have no headers.
	Headers map[string]string
}

// Fetcher retrieves the bytes behind one specifier.
type Fetcher interface {
	Fetch(ctx context.Context, s specifier.Specifier, mode CacheMode) (Result, error)
}

// SchemeFetcher is a Fetcher limited to a single URL scheme; Dispatcher
// routes by scheme to the registered SchemeFetcher.
type SchemeFetcher interface {
	Fetcher
	Scheme() string
}
