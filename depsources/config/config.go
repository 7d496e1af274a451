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

package config

import "time"

// DefaultSourcesListURL is the bootstrap sources list downloaded by
// 'osdep init' to seed a fresh configuration.
const DefaultSourcesListURL = "https://raw.githubusercontent.com/osdeps/osdep-data/main/sources.list.d/20-default.list"

// Config carries the resolved paths and tuning knobs used by the updater,
// loader, resolver and installer. Environment and XDG lookups happen at
// the outermost entry point, everything below receives this struct.
type Config struct {
	// SourcesListDir holds the *.list files declaring data sources.
	SourcesListDir string
	// CacheDir holds the content-addressed cache entries and the index.
	CacheDir string
	// DefaultSourcesURL is fetched by the bootstrap command.
	DefaultSourcesURL string
	// DownloadTimeout bounds every single network fetch.
	DownloadTimeout time.Duration
	// MaxDocumentLength bounds the size of any fetched document.
	MaxDocumentLength int64
	// FetchWorkers bounds the update orchestrator's worker pool.
	FetchWorkers int
}

// New creates a Config populated with defaults. Paths are left empty, the
// caller injects them.
func New() *Config {
	return &Config{
		DefaultSourcesURL: DefaultSourcesListURL,
		DownloadTimeout:   15 * time.Second,
		MaxDocumentLength: 16 * 1024 * 1024, // bytes
		FetchWorkers:      4,
	}
}
