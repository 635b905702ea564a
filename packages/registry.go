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

package packages

import (
	"context"
	"encoding/json"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dnrt/dnrt/fetch"
	"github.com/dnrt/dnrt/rterr"
	"github.com/dnrt/dnrt/specifier"
)

// registryMeta is the subset of the npm registry's package document (and
// the structurally similar jsr.io "meta.json") this resolver needs,
// grounded on the teacher's RegistryPackage but adding each version's
// deprecated field, which §4.F's version selection treats as yanked.
type registryMeta struct {
	Name     string            `json:"name"`
	DistTags map[string]string `json:"dist-tags"`
	Versions map[string]struct {
		Version string `json:"version"`
		Deprecated string `json:"deprecated"`
	} `json:"versions"`
}

// Registry resolves PackageReq to PackageNv and fetches manifests, backed
// by a Fetcher (so it goes through the same disk cache and permission
// checks as module fetches) with an in-process LRU plus singleflight
// request collapsing — replacing the teacher's hand-rolled
// sync.RWMutex-map VersionCache with the same dedup guarantee using the
// ecosystem's own primitive.
type Registry struct {
	fetcher   fetch.Fetcher
	npmBase   string
	jsrBase   string
	metaCache *lru.Cache[string, registryMeta]
	group     singleflight.Group
}

// NewRegistry builds a Registry over fetcher, fronted by an LRU of
// metaCacheSize package documents.
func NewRegistry(fetcher fetch.Fetcher, metaCacheSize int) (*Registry, error) {
	if metaCacheSize <= 0 {
		metaCacheSize = 512
	}
	cache, err := lru.New[string, registryMeta](metaCacheSize)
	if err != nil {
		return nil, err
	}
	return &Registry{
		fetcher: fetcher,
		npmBase: "https://registry.npmjs.org",
		jsrBase: "https://npm.jsr.io",
		metaCache: cache,
	}, nil
}

func (r *Registry) baseFor(origin Origin) string {
	if origin == Jsr {
		return r.jsrBase
	}
	return r.npmBase
}

// metadata fetches (or returns cached) registry metadata for name under
// origin, collapsing concurrent duplicate requests via singleflight.
func (r *Registry) metadata(ctx context.Context, origin Origin, name string) (registryMeta, error) {
	key := origin.String() + ":" + name
	if cached, ok := r.metaCache.Get(key); ok {
		return cached, nil
	}
	v, err, _ := r.group.Do(key, func() (any, error) {
		url := r.baseFor(origin) + "/" + name
		body, ferr := r.fetchJSON(ctx, url)
		if ferr != nil {
			return registryMeta{}, ferr
		}
		var meta registryMeta
		if err := json.Unmarshal(body, &meta); err != nil {
			return registryMeta{}, rterr.Wrap(rterr.InvalidData, err, "parse registry metadata for %s", name)
		}
		r.metaCache.Add(key, meta)
		return meta, nil
	})
	if err != nil {
		return registryMeta{}, err
	}
	return v.(registryMeta), nil
}

func (r *Registry) fetchJSON(ctx context.Context, rawURL string) ([]byte, error) {
	s, err := specifier.Resolve(rawURL, specifier.Specifier{})
	if err != nil {
		return nil, rterr.Wrap(rterr.Uri, err, "invalid registry URL %q", rawURL)
	}
	res, err := r.fetcher.Fetch(ctx, s, fetch.UseIfPresent)
	if err != nil {
		return nil, err
	}
	return res.Bytes, nil
}

// Resolve picks the PackageNv satisfying req against the registry's known
// versions (§4.F "Version selection").
func (r *Registry) Resolve(ctx context.Context, req PackageReq) (PackageNv, error) {
	meta, err := r.metadata(ctx, req.Origin, req.Name)
	if err != nil {
		return PackageNv{}, err
	}
	if req.Constraint == "" {
		if tag, ok := meta.DistTags["latest"]; ok {
			return PackageNv{Origin: req.Origin, Name: req.Name, Version: tag}, nil
		}
	}
	candidates := make([]string, 0, len(meta.Versions))
	yanked := make(map[string]bool, len(meta.Versions))
	for v, info := range meta.Versions {
		candidates = append(candidates, v)
		if info.Deprecated != "" {
			yanked[v] = true
		}
	}
	return req.Resolve(candidates, yanked)
}

// FetchManifest retrieves and parses the package.json for a resolved
// PackageNv from the registry's per-version tarball-root document.
func (r *Registry) FetchManifest(ctx context.Context, nv PackageNv) (*Manifest, error) {
	url := r.baseFor(nv.Origin) + "/" + strings.TrimPrefix(nv.Name, "@") + "@" + nv.Version + "/package.json"
	if strings.HasPrefix(nv.Name, "@") {
		url = r.baseFor(nv.Origin) + "/" + nv.Name + "@" + nv.Version + "/package.json"
	}
	body, err := r.fetchJSON(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseManifest(body)
}
