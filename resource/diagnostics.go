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
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// ClosedRecord is a diagnostic breadcrumb kept after a handle closes, so a
// BadResource error triggered moments later can report what id N used to
// be rather than just "unknown".
type ClosedRecord struct {
	ID     uint32
	Name   string
	Closed time.Time
}

// Diagnostics keeps a bounded ring of recently closed handles for error
// messages, fronted by golang-lru's plain (non-expiring) LRU since only
// recency — not a TTL — determines eviction here.
type Diagnostics struct {
	mu   sync.Mutex
	ring *lru.LRU[uint32, ClosedRecord]
}

// NewDiagnostics builds a Diagnostics ring holding the most recent size
// closed handles.
func NewDiagnostics(size int) *Diagnostics {
	if size <= 0 {
		size = 64
	}
	ring, _ := lru.NewLRU[uint32, ClosedRecord](size, nil)
	return &Diagnostics{ring: ring}
}

// Record stores that id (named name) closed at the given time.
func (d *Diagnostics) Record(id uint32, name string, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ring.Add(id, ClosedRecord{ID: id, Name: name, Closed: at})
}

// Lookup returns the closed-record for id, if it's still in the ring.
func (d *Diagnostics) Lookup(id uint32) (ClosedRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ring.Get(id)
}
