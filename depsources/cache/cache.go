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

// Package cache persists fetched mapping documents, content-addressed by
// a hash of the source URL, plus an index file enumerating all known
// sources so they can be reloaded without re-fetching.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/osdeps/go-osdeps/depsources"
)

// IndexFileName is the index file inside the cache directory. Its
// presence is the sentinel for "cache has been initialized at least
// once"; absence is a valid empty state.
const IndexFileName = "index"

const indexHeader = "#autogenerated by osdep, do not edit. use 'osdep update' instead"

// ComputeKey returns the cache filename for a source URL: the hex SHA-1
// digest of the URL string. Collisions are cryptographically negligible.
func ComputeKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// EntryPath returns the on-disk path of the cache entry for url.
func EntryPath(cacheDir, url string) string {
	return filepath.Join(cacheDir, ComputeKey(url))
}

// WriteEntry serializes data as YAML and writes it to the entry file for
// url, creating cacheDir if needed. The write goes through a temp file
// and a rename so a concurrent reader never observes a half-written
// entry. Returns the entry's file path.
func WriteEntry(cacheDir, url string, data map[string]any) (string, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", err
	}
	raw, err := yaml.Marshal(data)
	if err != nil {
		return "", err
	}
	path := EntryPath(cacheDir, url)
	if err := writeFileAtomic(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// LoadEntry reads the cached mapping document for url. A missing entry
// (never fetched, or every fetch so far failed) yields nil data and no
// error, the caller treats it as a valid uncached state.
func LoadEntry(cacheDir, url string) (map[string]any, error) {
	raw, err := os.ReadFile(EntryPath(cacheDir, url))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, depsources.ErrInvalidData{Msg: err.Error(), Origin: EntryPath(cacheDir, url)}
	}
	return data, nil
}

// WriteIndex rewrites the cache index from the full configured source
// list. Entries are written with a literal "yaml" type tag regardless of
// the declared kind; the index format has always looked like this and
// readers tolerate it, so the simplification is kept as-is.
func WriteIndex(cacheDir string, sources []*depsources.DataSource) error {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(indexHeader + "\n")
	for _, source := range sources {
		fmt.Fprintf(&b, "yaml %s %s\n", source.URL(), strings.Join(source.Tags(), " "))
	}
	return writeFileAtomic(filepath.Join(cacheDir, IndexFileName), []byte(b.String()))
}

// ReadIndex parses the cache index into the source list it enumerates.
// An absent index file yields an empty list, not an error.
func ReadIndex(cacheDir string) ([]*depsources.DataSource, error) {
	indexPath := filepath.Join(cacheDir, IndexFileName)
	raw, err := os.ReadFile(indexPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return depsources.ParseSourcesData(raw, indexPath)
}

// LoadCachedSources loads the index and every referenced cache entry,
// pairing each source with whatever data its entry holds. Sources whose
// entry is missing come back with nil data.
func LoadCachedSources(cacheDir string) ([]*depsources.CachedDataSource, error) {
	sources, err := ReadIndex(cacheDir)
	if err != nil {
		return nil, err
	}
	cached := make([]*depsources.CachedDataSource, 0, len(sources))
	for _, source := range sources {
		data, err := LoadEntry(cacheDir, source.URL())
		if err != nil {
			return nil, err
		}
		cached = append(cached, depsources.NewCachedDataSource(source, data))
	}
	return cached, nil
}

// writeFileAtomic writes data to path through a temp file and a rename.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
