// Copyright 2024 The go-osdeps Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License
//
// SPDX-License-Identifier: Apache-2.0
//

// Package updater re-fetches every configured data source and rebuilds
// the cache index. Individual source failures are isolated: one source
// failing never aborts the batch, and the index is always rewritten from
// the full configured source list so that readers keep seeing stale but
// valid entries from earlier runs.
package updater

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/osdeps/go-osdeps/depsources"
	"github.com/osdeps/go-osdeps/depsources/cache"
	"github.com/osdeps/go-osdeps/depsources/config"
	"github.com/osdeps/go-osdeps/depsources/fetcher"
)

// DocumentFetcher turns a source URL into a mapping document. The
// gbpdistro aggregation lives behind this contract as an external
// collaborator producing the same document shape.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) (map[string]any, error)
}

// YamlDocumentFetcher fetches a URL and parses it as a YAML mapping. A
// top-level structure that is not a mapping is a download failure, the
// same way a 404 is: the source produced nothing usable.
type YamlDocumentFetcher struct {
	Fetcher fetcher.Fetcher
	Config  *config.Config
}

func (y *YamlDocumentFetcher) FetchDocument(ctx context.Context, url string) (map[string]any, error) {
	raw, err := y.Fetcher.DownloadFile(ctx, url, y.Config.MaxDocumentLength, y.Config.DownloadTimeout)
	if err != nil {
		return nil, err
	}
	// Unmarshal into any first: decoding straight into a map would report
	// a sequence document as a type error, but a well-formed non-mapping
	// document is a distinct condition from unparseable YAML.
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, depsources.ErrDownload{Msg: fmt.Sprintf("data from [%s] is not valid YAML: %s", url, err)}
	}
	data, ok := doc.(map[string]any)
	if !ok || data == nil {
		return nil, depsources.ErrDownload{Msg: fmt.Sprintf("data from [%s] is not a YAML dictionary", url)}
	}
	return data, nil
}

// Result is the per-source outcome of an update batch, in source order.
type Result struct {
	Source    *depsources.DataSource
	CachePath string
	Err       error
}

// Updater re-downloads data from remote sources into the cache.
type Updater struct {
	cfg      *config.Config
	fetchers map[depsources.SourceKind]DocumentFetcher
}

// New creates an Updater. Both source kinds start out served by the
// plain YAML document fetcher; use SetDocumentFetcher to plug in a real
// gbpdistro aggregator.
func New(cfg *config.Config, f fetcher.Fetcher) *Updater {
	yamlFetcher := &YamlDocumentFetcher{Fetcher: f, Config: cfg}
	return &Updater{
		cfg: cfg,
		fetchers: map[depsources.SourceKind]DocumentFetcher{
			depsources.KindYaml:      yamlFetcher,
			depsources.KindGbpDistro: yamlFetcher,
		},
	}
}

// SetDocumentFetcher overrides the document fetcher for one source kind.
func (u *Updater) SetDocumentFetcher(kind depsources.SourceKind, df DocumentFetcher) {
	u.fetchers[kind] = df
}

// Update parses every *.list file in the sources-list directory, fetches
// each declared source through a bounded worker pool and writes a cache
// entry per success. After all fetches complete the index is rewritten
// from the full original source list, successes and failures alike, so
// stale entries from prior runs stay referenced and loadable.
//
// A malformed sources-list file fails the whole batch; a failed fetch
// only fails its own Result.
func (u *Updater) Update(ctx context.Context) ([]Result, error) {
	sources, err := depsources.ParseSourcesList(u.cfg.SourcesListDir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(sources))
	var g errgroup.Group
	g.SetLimit(u.cfg.FetchWorkers)
	for i, source := range sources {
		g.Go(func() error {
			results[i] = u.updateOne(ctx, source)
			return nil
		})
	}
	// Full barrier: the index write below must observe every fetch done.
	_ = g.Wait()

	log := depsources.GetLogger()
	for _, res := range results {
		if res.Err != nil {
			log.Error(res.Err, "failed to update source", "url", res.Source.URL())
		} else {
			log.Info("updated source", "url", res.Source.URL(), "cachePath", res.CachePath)
		}
	}

	if err := cache.WriteIndex(u.cfg.CacheDir, sources); err != nil {
		return results, err
	}
	return results, nil
}

func (u *Updater) updateOne(ctx context.Context, source *depsources.DataSource) Result {
	res := Result{Source: source}
	df, ok := u.fetchers[source.Kind()]
	if !ok {
		res.Err = depsources.ErrDownload{Msg: fmt.Sprintf("no document fetcher registered for source type %q", source.Kind())}
		return res
	}
	data, err := df.FetchDocument(ctx, source.URL())
	if err != nil {
		res.Err = err
		return res
	}
	// Distinct per-URL cache keys keep concurrent writers off each
	// other's files.
	path, err := cache.WriteEntry(u.cfg.CacheDir, source.URL(), data)
	if err != nil {
		res.Err = err
		return res
	}
	res.CachePath = path
	return res
}

// DownloadDefaultSourcesList downloads and validates the contents of the
// bootstrap sources list. The raw bytes are returned so the caller can
// store them verbatim.
func DownloadDefaultSourcesList(ctx context.Context, f fetcher.Fetcher, cfg *config.Config) ([]byte, error) {
	url := cfg.DefaultSourcesURL
	data, err := f.DownloadFile(ctx, url, cfg.MaxDocumentLength, cfg.DownloadTimeout)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, depsources.ErrInvalidData{Msg: "cannot download defaults file: empty contents", Origin: url}
	}
	// Parse just for validation.
	if _, err := depsources.ParseSourcesData(data, url); err != nil {
		return nil, err
	}
	return data, nil
}
