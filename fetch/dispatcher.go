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

	"github.com/dnrt/dnrt/rterr"
	"github.com/dnrt/dnrt/specifier"
)

// Dispatcher routes a Fetch call to the SchemeFetcher registered for the
// specifier's scheme, matching §4.C's per-scheme behavior table.
type Dispatcher struct {
	byScheme map[string]SchemeFetcher
}

// NewDispatcher builds a Dispatcher from a set of scheme fetchers. Later
// entries win on scheme collision.
func NewDispatcher(fetchers ...SchemeFetcher) *Dispatcher {
	d := &Dispatcher{byScheme: make(map[string]SchemeFetcher, len(fetchers))}
	for _, f := range fetchers {
		d.byScheme[f.Scheme()] = f
	}
	return d
}

// Fetch implements Fetcher by dispatching on s.Scheme().
func (d *Dispatcher) Fetch(ctx context.Context, s specifier.Specifier, mode CacheMode) (Result, error) {
	f, ok := d.byScheme[s.Scheme()]
	if !ok {
		return Result{}, rterr.New(rterr.Uri, "unsupported scheme: "+s.Scheme())
	}
	return f.Fetch(ctx, s, mode)
}
