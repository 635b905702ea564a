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
	"encoding/json"

	lru "github.com/hashicorp/golang-lru/v2"
	bolt "go.etcd.io/bbolt"
)

var cacheBucket = []byte("http-cache")

// cacheEntry is the on-disk (and hot-cache) representation of one cached
// http(s) response, keyed by its final URL (§4.C).
type cacheEntry struct {
	URL          string            `json:"url"`
	Body         []byte            `json:"body"`
	MediaTypeExt string            `json:"media_type_ext"`
	ContentType  string            `json:"content_type"`
	Etag         string            `json:"etag"`
	LastModified string            `json:"last_modified"`
	Headers      map[string]string `json:"headers"`
}

// DiskCache persists http(s) fetch results across process runs in a bbolt
// database, with a bounded in-memory LRU in front to avoid a bolt
// transaction on every hot hit. Grounded on the teacher's PackageCache
// (in-process LRU with a once-per-key load guard) extended with a bbolt-
// backed disk tier, since §4.C requires the cache to survive process exit.
type DiskCache struct {
	db  *bolt.DB
	hot *lru.Cache[string, cacheEntry]
}

// OpenDiskCache opens (creating if necessary) a bbolt database at path and
// wraps it with an in-memory LRU of hotSize entries.
func OpenDiskCache(path string, hotSize int) (*DiskCache, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	if hotSize <= 0 {
		hotSize = 256
	}
	hot, err := lru.New[string, cacheEntry](hotSize)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DiskCache{db: db, hot: hot}, nil
}

func (c *DiskCache) Close() error { return c.db.Close() }

// Get retrieves a cached entry by final URL.
func (c *DiskCache) Get(url string) (cacheEntry, bool) {
	if e, ok := c.hot.Get(url); ok {
		return e, true
	}
	var entry cacheEntry
	found := false
	_ = c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(cacheBucket)
		raw := b.Get([]byte(url))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			return err
		}
		found = true
		return nil
	})
	if found {
		c.hot.Add(url, entry)
	}
	return entry, found
}

// Set writes an entry to both tiers, keyed by its own URL field (the final
// URL after redirects, per §4.C "write the final entry to cache keyed by
// its final URL").
func (c *DiskCache) Set(entry cacheEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put([]byte(entry.URL), raw)
	}); err != nil {
		return err
	}
	c.hot.Add(entry.URL, entry)
	return nil
}
