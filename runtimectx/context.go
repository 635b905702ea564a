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

package runtimectx

import (
	"net/http"
	"path/filepath"

	"github.com/dnrt/dnrt/fetch"
	"github.com/dnrt/dnrt/fs"
	"github.com/dnrt/dnrt/ops"
	"github.com/dnrt/dnrt/packages"
	"github.com/dnrt/dnrt/permission"
)

// RuntimeContext is the fully assembled, explicitly injected set of
// dependencies an isolate is built from (§9 "Global state"): nothing here
// is a package-level singleton, so two RuntimeContexts can coexist in one
// process without interfering.
type RuntimeContext struct {
	Config Config

	FS         fs.FileSystem
	Permission *permission.Engine
	Fetcher    fetch.Fetcher
	Cache      *fetch.DiskCache

	Registry     *packages.Registry
	Materializer *packages.Materializer

	// Ops is the process-wide table of registered op implementations
	// (§4.H "populated at extension registration time"); the per-isolate
	// resource.Table each op call is dispatched against is not part of
	// this struct since it must not outlive, or be shared across, a
	// single isolate (§9 "Shared state").
	Ops *ops.Registry
}

// Build assembles a RuntimeContext from cfg, wiring the filesystem,
// permission engine, fetch dispatcher (file/data/blob/http/https),
// package registry and materializer, and op registry (§4.A-§4.H).
// prompter services interactive permission prompts; pass nil for
// --no-prompt or non-interactive hosts (§4.B).
func Build(cfg Config, prompter permission.Prompter) (*RuntimeContext, error) {
	filesystem := fs.NewOSFileSystem()
	engine := cfg.BuildPermissionEngine(prompter)

	cachePath := filepath.Join(cfg.DnrtDir, "cache.db")
	if err := filesystem.MkdirAll(cfg.DnrtDir, 0o755); err != nil {
		return nil, err
	}
	diskCache, err := fetch.OpenDiskCache(cachePath, 2048)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	dispatcher := fetch.NewDispatcher(
		fetch.NewFileFetcher(filesystem, engine),
		fetch.NewDataFetcher(),
		fetch.NewBlobFetcher(fetch.NewBlobStore()),
		fetch.NewHTTPFetcher("http", httpClient, diskCache, engine),
		fetch.NewHTTPFetcher("https", httpClient, diskCache, engine),
	)

	registry, err := packages.NewRegistry(dispatcher, 1024)
	if err != nil {
		return nil, err
	}
	materializer := packages.NewMaterializer(filesystem, registry, filepath.Join(cfg.DnrtDir, "packages"))

	opRegistry := ops.NewRegistry()
	ops.RegisterFsOps(opRegistry)

	return &RuntimeContext{
		Config:       cfg,
		FS:           filesystem,
		Permission:   engine,
		Fetcher:      dispatcher,
		Cache:        diskCache,
		Registry:     registry,
		Materializer: materializer,
		Ops:          opRegistry,
	}, nil
}

// Close releases the process-lifetime resources a RuntimeContext holds
// (the disk cache's bbolt handle). Per-isolate resources (the resource
// Table's open handles) are the isolate's own responsibility to close.
func (rc *RuntimeContext) Close() error {
	if rc.Cache != nil {
		return rc.Cache.Close()
	}
	return nil
}
