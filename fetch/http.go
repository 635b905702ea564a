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
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dnrt/dnrt/media"
	"github.com/dnrt/dnrt/permission"
	"github.com/dnrt/dnrt/rterr"
	"github.com/dnrt/dnrt/specifier"
)

// maxRedirects bounds the hop count a single fetch will follow (§4.C).
const maxRedirects = 10

// HTTPFetcher retrieves http(s): specifiers, consulting a permission Engine
// for Net access and a DiskCache for revalidation, grounded on the
// teacher's HTTPFetcher but extended with manual redirect handling (so
// each hop can be permission-checked and cache-keyed individually) and
// conditional-request revalidation.
type HTTPFetcher struct {
	client *http.Client
	cache  *DiskCache
	engine *permission.Engine
	scheme string
}

// NewHTTPFetcher builds an HTTPFetcher bound to scheme ("http" or "https").
// cache may be nil, in which case every fetch behaves as BypassCache. Two
// instances (one per scheme) are registered with the same Dispatcher since
// a SchemeFetcher answers for exactly one scheme.
func NewHTTPFetcher(scheme string, client *http.Client, cache *DiskCache, engine *permission.Engine) *HTTPFetcher {
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
	}
	return &HTTPFetcher{client: client, cache: cache, engine: engine, scheme: scheme}
}

func (f *HTTPFetcher) Scheme() string { return f.scheme }

func (f *HTTPFetcher) Fetch(ctx context.Context, s specifier.Specifier, mode CacheMode) (Result, error) {
	current := s
	for hop := 0; ; hop++ {
		if hop > maxRedirects {
			return Result{}, rterr.NewSub(rterr.Uri, rterr.RedirectLimitExceeded,
				"exceeded %d redirects fetching %s", maxRedirects, s.String())
		}

		if err := f.checkPermission(current); err != nil {
			return Result{}, err
		}

		if mode != BypassCache && f.cache != nil {
			if entry, ok := f.cache.Get(current.String()); ok && mode == UseIfPresent {
				return resultFromEntry(current, entry), nil
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current.String(), nil)
		if err != nil {
			return Result{}, rterr.Wrap(rterr.Io, err, "build request for %s", current.String())
		}
		if f.cache != nil && mode == RevalidateAlways {
			if entry, ok := f.cache.Get(current.String()); ok {
				if entry.Etag != "" {
					req.Header.Set("If-None-Match", entry.Etag)
				}
				if entry.LastModified != "" {
					req.Header.Set("If-Modified-Since", entry.LastModified)
				}
			}
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return Result{}, rterr.Wrap(rterr.Io, err, "fetch %s", current.String())
		}

		if loc := resp.Header.Get("Location"); isRedirectStatus(resp.StatusCode) && loc != "" {
			_ = resp.Body.Close()
			next, err := specifier.Resolve(loc, current)
			if err != nil {
				return Result{}, rterr.Wrap(rterr.Http, err, "invalid redirect target %q", loc)
			}
			current = next
			continue
		}

		if resp.StatusCode == http.StatusNotModified {
			_ = resp.Body.Close()
			if entry, ok := f.cache.Get(current.String()); ok {
				return resultFromEntry(current, entry), nil
			}
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return Result{}, rterr.NewSub(rterr.Http, rterr.NoSubkind,
				"HTTP %d fetching %s", resp.StatusCode, current.String())
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return Result{}, rterr.Wrap(rterr.Io, err, "read response body for %s", current.String())
		}

		contentType := resp.Header.Get("Content-Type")
		mt := media.Detect(current.String(), contentType)
		if mt == media.Unknown && contentType == "" {
			return Result{}, rterr.NewSub(rterr.Http, rterr.InvalidContentType,
				"cannot classify %s: no Content-Type and unrecognized extension", current.String())
		}

		entry := cacheEntry{
			URL:          current.String(),
			Body:         body,
			ContentType:  contentType,
			Etag:         resp.Header.Get("Etag"),
			LastModified: resp.Header.Get("Last-Modified"),
			Headers:      flattenHeaders(resp.Header),
		}
		if f.cache != nil {
			_ = f.cache.Set(entry)
		}

		return Result{
			Specifier: current,
			Bytes:     body,
			MediaType: mt,
			Headers:   entry.Headers,
		}, nil
	}
}

func (f *HTTPFetcher) checkPermission(s specifier.Specifier) error {
	if f.engine == nil {
		return nil
	}
	host, portStr, err := net.SplitHostPort(hostFromSpecifier(s))
	port := 0
	if err == nil {
		port, _ = strconv.Atoi(portStr)
	} else {
		host = hostFromSpecifier(s)
	}
	return f.engine.Check(permission.NetDescriptor(host, port), "fetch")
}

func hostFromSpecifier(s specifier.Specifier) string {
	u, err := url.Parse(s.String())
	if err != nil {
		return ""
	}
	return u.Host
}

func resultFromEntry(s specifier.Specifier, entry cacheEntry) Result {
	return Result{
		Specifier: s,
		Bytes:     entry.Body,
		MediaType: media.Detect(s.String(), entry.ContentType),
		Headers:   entry.Headers,
	}
}

func isRedirectStatus(code int) bool {
	switch code {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
