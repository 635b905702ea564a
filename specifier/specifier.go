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

// Package specifier resolves, normalizes, and compares module specifiers
// (§4.A). A Specifier is always an absolute URL; relative and bare
// specifiers exist only as resolution inputs.
package specifier

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

// Specifier is a fully qualified module reference: any absolute URL, or a
// native path normalized to a file: URL.
type Specifier struct {
	u *url.URL
}

// String returns the specifier in canonical URL form.
func (s Specifier) String() string {
	if s.u == nil {
		return ""
	}
	return s.u.String()
}

// Scheme returns the specifier's URL scheme ("file", "https", "npm", ...).
func (s Specifier) Scheme() string {
	if s.u == nil {
		return ""
	}
	return s.u.Scheme
}

// IsDir reports directory-ness, expressed per §4.A as a trailing "/" on the
// path component.
func (s Specifier) IsDir() bool {
	return s.u != nil && strings.HasSuffix(s.u.Path, "/")
}

// Equal compares two specifiers by their normalized string form.
func (s Specifier) Equal(o Specifier) bool {
	return s.String() == o.String()
}

// FromFilePath builds a Specifier from a native filesystem path, absolute or
// relative (relative paths are resolved against the process cwd by the
// caller before calling this — FromFilePath itself does not touch cwd).
func FromFilePath(p string) (Specifier, error) {
	if p == "" {
		return Specifier{}, fmt.Errorf("specifier: empty path")
	}
	p = filepath.ToSlash(p)
	dir := strings.HasSuffix(p, "/")
	// Strip a Windows UNC-ish leading "//" so url.Parse doesn't mistake it
	// for an authority component (§4.A).
	p = strings.TrimPrefix(p, "//")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := &url.URL{Scheme: "file", Path: p}
	if dir && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return Specifier{u: u}, nil
}

// isBare reports whether raw is neither an absolute URL, an absolute path,
// nor a relative path (./, ../) — i.e. a package-style bare specifier such
// as "lit" or "@scope/pkg/sub".
func isBare(raw string) bool {
	if raw == "" {
		return true
	}
	if strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../") || raw == "." || raw == ".." {
		return false
	}
	if strings.HasPrefix(raw, "/") {
		return false
	}
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return false
	}
	return true
}

// IsBare reports whether raw needs package resolution (§4.F) rather than
// URL-relative or file-relative resolution (§4.A).
func IsBare(raw string) bool { return isBare(raw) }

// Resolve resolves a relative, absolute, or bare raw specifier against a
// referrer Specifier, per §4.A. Bare specifiers are rejected with an
// error: the caller — typically the module graph — hands them to the
// package resolver (§4.F) instead; Resolve itself only handles URL-ish and
// path-ish inputs.
func Resolve(raw string, referrer Specifier) (Specifier, error) {
	if isBare(raw) {
		return Specifier{}, fmt.Errorf("specifier: %q is a bare specifier and must go through package resolution", raw)
	}
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return Specifier{u: u}, nil
	}
	if referrer.u == nil {
		return Specifier{}, fmt.Errorf("specifier: cannot resolve relative specifier %q without a referrer", raw)
	}
	ref := *referrer.u
	rel, err := url.Parse(raw)
	if err != nil {
		return Specifier{}, fmt.Errorf("specifier: invalid specifier %q: %w", raw, err)
	}
	resolved := ref.ResolveReference(rel)
	resolved.Path = cleanURLPath(resolved.Path, raw)
	return Specifier{u: resolved}, nil
}

// cleanURLPath runs path.Clean but preserves trailing-slash directory-ness,
// since path.Clean strips it (§4.A "Directory-ness is expressed by a
// trailing /").
func cleanURLPath(p, raw string) string {
	dir := strings.HasSuffix(p, "/") || strings.HasSuffix(raw, "/")
	cleaned := path.Clean(p)
	if dir && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	return cleaned
}

// ToFilePath converts a Specifier back to a native filesystem path. It
// errors when the scheme isn't file or when a host/port component is
// present (§4.A), surfaced to callers as rterr.InvalidFileUrlPath.
func ToFilePath(s Specifier) (string, error) {
	if s.u == nil || s.u.Scheme != "file" {
		return "", fmt.Errorf("specifier: %q is not a file: URL", s.String())
	}
	if s.u.Host != "" {
		return "", fmt.Errorf("specifier: file: URL %q has a host component", s.String())
	}
	p := s.u.Path
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	if runtime.GOOS == "windows" {
		p = strings.TrimPrefix(p, "/")
		p = filepath.FromSlash(p)
		return p, nil
	}
	return p, nil
}

// Relativize produces the shortest relative specifier from `from` to `to`:
// "./x", "../x", or "./" when from == to and to is a directory (§4.A).
// Both specifiers must share a scheme and authority.
func Relativize(from, to Specifier) (string, error) {
	if from.u == nil || to.u == nil {
		return "", fmt.Errorf("specifier: relativize requires two resolved specifiers")
	}
	if from.u.Scheme != to.u.Scheme || from.u.Host != to.u.Host {
		return "", fmt.Errorf("specifier: %q and %q are not under the same origin", from, to)
	}
	if from.Equal(to) && to.IsDir() {
		return "./", nil
	}

	fromDir := from.u.Path
	if !strings.HasSuffix(fromDir, "/") {
		fromDir = path.Dir(fromDir) + "/"
	}
	toPath := to.u.Path

	rel, err := filepath.Rel(fromDir, toPath)
	if err != nil {
		return "", fmt.Errorf("specifier: cannot relativize %q against %q: %w", to, from, err)
	}
	rel = filepath.ToSlash(rel)
	if to.IsDir() && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel, nil
}
