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

package permission

import (
	"strings"

	"golang.org/x/net/idna"
)

// normalizeHost lowercases and IDNA-normalizes a Net descriptor's host so
// "EXAMPLE.com" and "example.com" (and their punycode/unicode forms)
// canonicalize to the same cache key before subsumption is evaluated
// (§4.B step 1 "hosts → lowercase").
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}

func init() {
	// canonHost in descriptor.go defers to normalizeHost so every
	// NetDescriptor constructed outside this file still gets IDNA folding.
	canonHostHook = normalizeHost
}

var canonHostHook func(string) string
